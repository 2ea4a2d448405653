// instance.go
package vk

import (
	"runtime"
	"unsafe"
)

type Instance struct {
	handle uintptr
	cmds   *instanceCommands
}

type PhysicalDevice struct {
	handle uintptr
	cmds   *instanceCommands
}

type instanceCommands struct {
	destroyInstance                         uintptr
	enumeratePhysicalDevices                uintptr
	getPhysicalDeviceProperties             uintptr
	getPhysicalDeviceQueueFamilyProperties  uintptr
	getPhysicalDeviceMemoryProperties       uintptr
	getPhysicalDeviceFormatProperties       uintptr
	getPhysicalDeviceSurfaceSupportKHR      uintptr
	getPhysicalDeviceSurfaceCapabilitiesKHR uintptr
	getPhysicalDeviceSurfaceFormatsKHR      uintptr
	getPhysicalDeviceSurfacePresentModesKHR uintptr
	destroySurfaceKHR                       uintptr
	createDevice                            uintptr
	getDeviceProcAddr                       uintptr

	// Zero unless the system loader is known.
	driverGetDeviceProcAddr uintptr
}

func (c *instanceCommands) load(instance uintptr) {
	for name, fn := range map[string]*uintptr{
		"vkDestroyInstance":                         &c.destroyInstance,
		"vkEnumeratePhysicalDevices":                &c.enumeratePhysicalDevices,
		"vkGetPhysicalDeviceProperties":             &c.getPhysicalDeviceProperties,
		"vkGetPhysicalDeviceQueueFamilyProperties":  &c.getPhysicalDeviceQueueFamilyProperties,
		"vkGetPhysicalDeviceMemoryProperties":       &c.getPhysicalDeviceMemoryProperties,
		"vkGetPhysicalDeviceFormatProperties":       &c.getPhysicalDeviceFormatProperties,
		"vkGetPhysicalDeviceSurfaceSupportKHR":      &c.getPhysicalDeviceSurfaceSupportKHR,
		"vkGetPhysicalDeviceSurfaceCapabilitiesKHR": &c.getPhysicalDeviceSurfaceCapabilitiesKHR,
		"vkGetPhysicalDeviceSurfaceFormatsKHR":      &c.getPhysicalDeviceSurfaceFormatsKHR,
		"vkGetPhysicalDeviceSurfacePresentModesKHR": &c.getPhysicalDeviceSurfacePresentModesKHR,
		"vkDestroySurfaceKHR":                       &c.destroySurfaceKHR,
		"vkCreateDevice":                            &c.createDevice,
		"vkGetDeviceProcAddr":                       &c.getDeviceProcAddr,
	} {
		*fn = instanceProc(instance, name)
	}
	c.driverGetDeviceProcAddr = driverInstanceProc(instance, "vkGetDeviceProcAddr")
}

func EnumerateInstanceVersion() (uint32, error) {
	if global.enumerateInstanceVersion == 0 {
		if getInstanceProcAddr == 0 {
			return 0, ErrNotLoaded
		}
		// Vulkan 1.0 loaders do not export the query.
		return MakeApiVersion(0, 1, 0, 0), nil
	}

	var version uint32
	result := call(global.enumerateInstanceVersion, uintptr(unsafe.Pointer(&version)))

	if result != SUCCESS {
		return 0, result
	}

	return version, nil
}

func CreateInstance(createInfo *InstanceCreateInfo) (Instance, error) {
	if getInstanceProcAddr == 0 {
		return Instance{}, ErrNotLoaded
	}

	data := createInfo.vulkanize()
	defer runtime.KeepAlive(data)

	var handle uintptr
	result := call(global.createInstance, uintptr(unsafe.Pointer(&data.cInfo)), 0, uintptr(unsafe.Pointer(&handle)))

	if result != SUCCESS {
		return Instance{}, result
	}

	cmds := &instanceCommands{}
	cmds.load(handle)

	return Instance{handle: handle, cmds: cmds}, nil
}

func (instance Instance) Destroy() {
	callVoid(instance.cmds.destroyInstance, instance.handle, 0)
}

// Handle returns the VkInstance for APIs that take it as a pointer, e.g. SDL.
func (instance Instance) Handle() unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&instance.handle))
}

func (instance Instance) RawHandle() uintptr {
	return instance.handle
}

func (instance Instance) EnumeratePhysicalDevices() ([]PhysicalDevice, error) {
	var count uint32
	result := call(instance.cmds.enumeratePhysicalDevices, instance.handle, uintptr(unsafe.Pointer(&count)), 0)

	if result != SUCCESS {
		return nil, result
	}
	if count == 0 {
		return nil, nil
	}

	handles := make([]uintptr, count)
	result = call(instance.cmds.enumeratePhysicalDevices, instance.handle, uintptr(unsafe.Pointer(&count)), uintptr(unsafe.Pointer(&handles[0])))

	if result != SUCCESS && result != INCOMPLETE {
		return nil, result
	}

	devices := make([]PhysicalDevice, count)
	for i := range devices {
		devices[i] = PhysicalDevice{handle: handles[i], cmds: instance.cmds}
	}

	return devices, nil
}

func (instance Instance) DestroySurfaceKHR(surface SurfaceKHR) {
	callVoid(instance.cmds.destroySurfaceKHR, instance.handle, uintptr(surface), 0)
}
