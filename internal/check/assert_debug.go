//go:build debug

package check

import "fmt"

// Assertf panics when cond is false. Compiled in only with -tags debug, so
// release binaries keep running and rely on the caller's own fallback.
func Assertf(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic("invariant violated: " + fmt.Sprintf(format, args...))
}
