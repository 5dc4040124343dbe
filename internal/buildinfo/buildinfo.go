// Package buildinfo reports the binary's version.
package buildinfo

import "runtime/debug"

// Version is set with -ldflags "-X minerconf/internal/buildinfo.Version=...".
var Version = ""

func init() {
	if Version != "" {
		return
	}
	Version = "dev"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
