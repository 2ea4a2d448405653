//go:build darwin || freebsd || linux || netbsd

// library_unix.go
package vk

import (
	"runtime"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

func loaderNames() []string {
	if runtime.GOOS == "darwin" {
		return []string{"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"}
	}
	return []string{"libvulkan.so.1", "libvulkan.so"}
}

// OpenLibrary loads a shared library and returns its handle.
func OpenLibrary(name string) (uintptr, error) {
	lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, errors.Wrapf(err, "purego dlopen %s", name)
	}
	return lib, nil
}

// LookupSymbol resolves an exported symbol from a library handle.
func LookupSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}

func openLoader() (uintptr, string, error) {
	var firstErr error
	for _, name := range loaderNames() {
		lib, err := OpenLibrary(name)
		if err == nil {
			return lib, name, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, "", errors.Wrap(firstErr, "vk: no Vulkan loader found")
}
