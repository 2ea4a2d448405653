// surface.go
package vk

import "unsafe"

func (device PhysicalDevice) GetSurfaceCapabilitiesKHR(surface SurfaceKHR) (SurfaceCapabilitiesKHR, error) {
	var caps SurfaceCapabilitiesKHR
	result := call(device.cmds.getPhysicalDeviceSurfaceCapabilitiesKHR, device.handle, uintptr(surface), uintptr(unsafe.Pointer(&caps)))

	if result != SUCCESS {
		return SurfaceCapabilitiesKHR{}, result
	}

	return caps, nil
}

func (device PhysicalDevice) GetSurfaceFormatsKHR(surface SurfaceKHR) ([]SurfaceFormatKHR, error) {
	var count uint32
	result := call(device.cmds.getPhysicalDeviceSurfaceFormatsKHR, device.handle, uintptr(surface), uintptr(unsafe.Pointer(&count)), 0)

	if result != SUCCESS {
		return nil, result
	}
	if count == 0 {
		return nil, nil
	}

	formats := make([]SurfaceFormatKHR, count)
	result = call(device.cmds.getPhysicalDeviceSurfaceFormatsKHR, device.handle, uintptr(surface), uintptr(unsafe.Pointer(&count)), uintptr(unsafe.Pointer(&formats[0])))

	if result != SUCCESS && result != INCOMPLETE {
		return nil, result
	}

	return formats[:count], nil
}

func (device PhysicalDevice) GetSurfacePresentModesKHR(surface SurfaceKHR) ([]PresentModeKHR, error) {
	var count uint32
	result := call(device.cmds.getPhysicalDeviceSurfacePresentModesKHR, device.handle, uintptr(surface), uintptr(unsafe.Pointer(&count)), 0)

	if result != SUCCESS {
		return nil, result
	}
	if count == 0 {
		return nil, nil
	}

	modes := make([]PresentModeKHR, count)
	result = call(device.cmds.getPhysicalDeviceSurfacePresentModesKHR, device.handle, uintptr(surface), uintptr(unsafe.Pointer(&count)), uintptr(unsafe.Pointer(&modes[0])))

	if result != SUCCESS && result != INCOMPLETE {
		return nil, result
	}

	return modes[:count], nil
}

// Wrap SDL's surface in our type
func NewSurfaceKHR(handle unsafe.Pointer) SurfaceKHR {
	return SurfaceKHR(uintptr(handle))
}
