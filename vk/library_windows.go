//go:build windows

// library_windows.go
package vk

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// OpenLibrary loads a DLL and returns its module handle.
func OpenLibrary(name string) (uintptr, error) {
	h, err := windows.LoadLibrary(name)
	if err != nil {
		return 0, errors.Wrapf(err, "LoadLibrary %s", name)
	}
	return uintptr(h), nil
}

// LookupSymbol resolves an exported symbol from a module handle.
func LookupSymbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}

func openLoader() (uintptr, string, error) {
	const name = "vulkan-1.dll"
	lib, err := OpenLibrary(name)
	if err != nil {
		return 0, "", errors.Wrap(err, "vk: no Vulkan loader found")
	}
	return lib, name, nil
}
