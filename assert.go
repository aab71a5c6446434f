//go:build !gfxdebug

package gfx

// debugBuild reports whether misuse assertions panic.
const debugBuild = false

// debugAssert reports caller misuse. Release builds log at debug level and
// carry on; build with -tags gfxdebug to panic instead.
func debugAssert(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	Logger().Debug("gfx: "+msg, args...)
}
