// call.go
package vk

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// All driver calls go through these helpers. Arguments that carry Go
// pointers are converted inline so they stay live for the duration of the call.

//go:uintptrescapes
func call(fn uintptr, args ...uintptr) Result {
	if fn == 0 {
		return INITIALIZATION_FAILED
	}
	r, _, _ := purego.SyscallN(fn, args...)
	return Result(int32(r))
}

//go:uintptrescapes
func callVoid(fn uintptr, args ...uintptr) {
	if fn == 0 {
		return
	}
	purego.SyscallN(fn, args...)
}

//go:uintptrescapes
func callPtr(fn uintptr, args ...uintptr) uintptr {
	if fn == 0 {
		return 0
	}
	r, _, _ := purego.SyscallN(fn, args...)
	return r
}

// first returns a pointer to the first element of s, or nil when s is empty.
func first[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func cstring(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// cstrings returns NUL-terminated copies and a pointer array referencing them.
func cstrings(names []string) ([]*byte, []unsafe.Pointer) {
	if len(names) == 0 {
		return nil, nil
	}
	strs := make([]*byte, len(names))
	ptrs := make([]unsafe.Pointer, len(names))
	for i, name := range names {
		strs[i] = cstring(name)
		ptrs[i] = unsafe.Pointer(strs[i])
	}
	return strs, ptrs
}

func gostring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func vkBool(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
