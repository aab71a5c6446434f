//go:build gfxdebug

package gfx

import "fmt"

const debugBuild = true

func debugAssert(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	panic(fmt.Sprintf("gfx: %s %v", msg, args))
}
