//go:build !debug

package check

// Assertf is a no-op without the debug build tag.
func Assertf(_ bool, _ string, _ ...any) {}
