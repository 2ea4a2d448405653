// module.go
package router

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
)

type library struct {
	handle       uintptr
	instanceProc func(handle uintptr, name string) uintptr
	deviceProc   func(handle uintptr, name string) uintptr
}

// OpenModule loads an interposer through the platform library loader.
func OpenModule(path string) (Module, error) {
	handle, err := vk.OpenLibrary(path)
	if err != nil {
		return nil, err
	}

	lib := &library{handle: handle}
	if addr := lib.Symbol("vkGetInstanceProcAddr"); addr != 0 {
		lib.instanceProc = vk.ProcAddrFunc(addr)
	}
	if addr := lib.Symbol("vkGetDeviceProcAddr"); addr != 0 {
		lib.deviceProc = vk.ProcAddrFunc(addr)
	}
	return lib, nil
}

func (l *library) Symbol(name string) uintptr {
	addr, err := vk.LookupSymbol(l.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (l *library) InstanceProc(instance uintptr, name string) uintptr {
	if l.instanceProc == nil {
		return 0
	}
	return l.instanceProc(instance, name)
}

func (l *library) DeviceProc(device uintptr, name string) uintptr {
	if l.deviceProc == nil {
		return 0
	}
	return l.deviceProc(device, name)
}
