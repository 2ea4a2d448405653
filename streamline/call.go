// call.go
package streamline

import (
	"github.com/ebitengine/purego"
)

//go:uintptrescapes
func call(fn uintptr, args ...uintptr) Result {
	if fn == 0 {
		return ErrorMissingOrInvalidAPI
	}
	r, _, _ := purego.SyscallN(fn, args...)
	return Result(uint32(r))
}

func slBool(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}
