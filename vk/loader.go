// loader.go
package vk

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

var (
	loadOnce sync.Once
	loadErr  error

	getInstanceProcAddr uintptr
	global              globalCommands

	// The system loader's vkGetInstanceProcAddr. It differs from
	// getInstanceProcAddr when the package is bound to an interposer.
	driverGetInstanceProcAddr uintptr
)

var ErrNotLoaded = errors.New("vk: loader not initialized")

// Init loads the system Vulkan loader and resolves the global commands.
// Only the first call to Init or InitWithProcAddr has any effect.
func Init() error {
	loadOnce.Do(func() {
		lib, name, err := openLoader()
		if err != nil {
			loadErr = err
			return
		}

		addr, err := LookupSymbol(lib, "vkGetInstanceProcAddr")
		if err != nil {
			loadErr = errors.Wrapf(err, "vk: %s has no vkGetInstanceProcAddr", name)
			return
		}

		driverGetInstanceProcAddr = addr
		loadErr = bindGlobal(addr)
	})
	return loadErr
}

// InitWithProcAddr binds the package to an externally supplied
// vkGetInstanceProcAddr, e.g. one exported by an interposing module. The
// system loader is still opened, when present, so that
// Device.DirectSwapchainCommands bypasses the interposer.
func InitWithProcAddr(addr uintptr) error {
	loadOnce.Do(func() {
		if lib, _, err := openLoader(); err == nil {
			if driver, err := LookupSymbol(lib, "vkGetInstanceProcAddr"); err == nil {
				driverGetInstanceProcAddr = driver
			}
		}
		loadErr = bindGlobal(addr)
	})
	return loadErr
}

// DriverBound reports whether direct presentation entry points are resolved
// by the system loader rather than by whatever the package was bound to.
func DriverBound() bool {
	return driverGetInstanceProcAddr != 0
}

func bindGlobal(addr uintptr) error {
	if addr == 0 {
		return errors.New("vk: nil vkGetInstanceProcAddr")
	}
	getInstanceProcAddr = addr

	global.createInstance = instanceProc(0, "vkCreateInstance")
	global.enumerateInstanceVersion = instanceProc(0, "vkEnumerateInstanceVersion")

	if global.createInstance == 0 {
		return errors.New("vk: vkCreateInstance not exported by loader")
	}
	return nil
}

type globalCommands struct {
	createInstance           uintptr
	enumerateInstanceVersion uintptr
}

func instanceProc(instance uintptr, name string) uintptr {
	if getInstanceProcAddr == 0 {
		return 0
	}
	cname := cstring(name)
	return callPtr(getInstanceProcAddr, instance, uintptr(unsafe.Pointer(cname)))
}

func driverInstanceProc(instance uintptr, name string) uintptr {
	if driverGetInstanceProcAddr == 0 {
		return 0
	}
	cname := cstring(name)
	return callPtr(driverGetInstanceProcAddr, instance, uintptr(unsafe.Pointer(cname)))
}

// GetInstanceProcAddr resolves an instance-level entry point by name.
func GetInstanceProcAddr(instance Instance, name string) uintptr {
	return instanceProc(instance.handle, name)
}
