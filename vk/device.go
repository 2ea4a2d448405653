// device.go
package vk

import (
	"runtime"
	"unsafe"
)

type Device struct {
	handle    uintptr
	cmds      *deviceCommands
	swapchain *SwapchainCommands
}

type Queue struct {
	handle    uintptr
	cmds      *deviceCommands
	swapchain *SwapchainCommands
}

type vkPhysicalDeviceProperties struct {
	apiVersion        uint32
	driverVersion     uint32
	vendorID          uint32
	deviceID          uint32
	deviceType        PhysicalDeviceType
	deviceName        [256]byte
	pipelineCacheUUID [16]byte
	// limits and sparse properties, unused
	_ [1024]byte
}

func (physicalDevice PhysicalDevice) GetProperties() PhysicalDeviceProperties {
	var props vkPhysicalDeviceProperties
	callVoid(physicalDevice.cmds.getPhysicalDeviceProperties, physicalDevice.handle, uintptr(unsafe.Pointer(&props)))

	return PhysicalDeviceProperties{
		APIVersion:    props.apiVersion,
		DriverVersion: props.driverVersion,
		VendorID:      props.vendorID,
		DeviceID:      props.deviceID,
		DeviceType:    props.deviceType,
		DeviceName:    gostring(props.deviceName[:]),
	}
}

func (physicalDevice PhysicalDevice) Handle() uintptr {
	return physicalDevice.handle
}

func (physicalDevice PhysicalDevice) GetQueueFamilyProperties() []QueueFamilyProperties {
	var count uint32
	callVoid(physicalDevice.cmds.getPhysicalDeviceQueueFamilyProperties, physicalDevice.handle, uintptr(unsafe.Pointer(&count)), 0)

	if count == 0 {
		return nil
	}

	props := make([]QueueFamilyProperties, count)
	callVoid(physicalDevice.cmds.getPhysicalDeviceQueueFamilyProperties, physicalDevice.handle, uintptr(unsafe.Pointer(&count)), uintptr(unsafe.Pointer(&props[0])))

	return props[:count]
}

func (physicalDevice PhysicalDevice) GetSurfaceSupportKHR(queueFamilyIndex uint32, surface SurfaceKHR) (bool, error) {
	var supported uint32
	result := call(
		physicalDevice.cmds.getPhysicalDeviceSurfaceSupportKHR,
		physicalDevice.handle,
		uintptr(queueFamilyIndex),
		uintptr(surface),
		uintptr(unsafe.Pointer(&supported)),
	)

	if result != SUCCESS {
		return false, result
	}

	return supported != 0, nil
}

func (physicalDevice PhysicalDevice) GetMemoryProperties() PhysicalDeviceMemoryProperties {
	var props PhysicalDeviceMemoryProperties
	callVoid(physicalDevice.cmds.getPhysicalDeviceMemoryProperties, physicalDevice.handle, uintptr(unsafe.Pointer(&props)))
	return props
}

func (physicalDevice PhysicalDevice) GetFormatProperties(format Format) FormatProperties {
	var props FormatProperties
	callVoid(physicalDevice.cmds.getPhysicalDeviceFormatProperties, physicalDevice.handle, uintptr(format), uintptr(unsafe.Pointer(&props)))
	return props
}

type DeviceQueueCreateInfo struct {
	QueueFamilyIndex uint32
	QueuePriorities  []float32
}

type DeviceCreateInfo struct {
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledLayerNames     []string
	EnabledExtensionNames []string
}

type vkDeviceQueueCreateInfo struct {
	sType            StructureType
	pNext            unsafe.Pointer
	flags            uint32
	queueFamilyIndex uint32
	queueCount       uint32
	pQueuePriorities unsafe.Pointer
}

type vkDeviceCreateInfo struct {
	sType                   StructureType
	pNext                   unsafe.Pointer
	flags                   uint32
	queueCreateInfoCount    uint32
	pQueueCreateInfos       unsafe.Pointer
	enabledLayerCount       uint32
	ppEnabledLayerNames     unsafe.Pointer
	enabledExtensionCount   uint32
	ppEnabledExtensionNames unsafe.Pointer
	pEnabledFeatures        unsafe.Pointer
}

type deviceCreateData struct {
	cInfo            vkDeviceCreateInfo
	queueCreateInfos []vkDeviceQueueCreateInfo
	queuePriorities  [][]float32
	layers           []*byte
	layerPtrs        []unsafe.Pointer
	extensions       []*byte
	extPtrs          []unsafe.Pointer
}

func (info *DeviceCreateInfo) vulkanize() *deviceCreateData {
	data := &deviceCreateData{}
	data.cInfo.sType = DEVICE_CREATE_INFO

	if len(info.QueueCreateInfos) > 0 {
		data.queueCreateInfos = make([]vkDeviceQueueCreateInfo, len(info.QueueCreateInfos))
		data.queuePriorities = make([][]float32, len(info.QueueCreateInfos))

		for i, queueInfo := range info.QueueCreateInfos {
			data.queuePriorities[i] = append([]float32(nil), queueInfo.QueuePriorities...)
			data.queueCreateInfos[i] = vkDeviceQueueCreateInfo{
				sType:            DEVICE_QUEUE_CREATE_INFO,
				queueFamilyIndex: queueInfo.QueueFamilyIndex,
				queueCount:       uint32(len(queueInfo.QueuePriorities)),
				pQueuePriorities: first(data.queuePriorities[i]),
			}
		}

		data.cInfo.queueCreateInfoCount = uint32(len(data.queueCreateInfos))
		data.cInfo.pQueueCreateInfos = first(data.queueCreateInfos)
	}

	data.layers, data.layerPtrs = cstrings(info.EnabledLayerNames)
	data.cInfo.enabledLayerCount = uint32(len(data.layerPtrs))
	data.cInfo.ppEnabledLayerNames = first(data.layerPtrs)

	data.extensions, data.extPtrs = cstrings(info.EnabledExtensionNames)
	data.cInfo.enabledExtensionCount = uint32(len(data.extPtrs))
	data.cInfo.ppEnabledExtensionNames = first(data.extPtrs)

	return data
}

func (physicalDevice PhysicalDevice) CreateDevice(createInfo *DeviceCreateInfo) (Device, error) {
	data := createInfo.vulkanize()
	defer runtime.KeepAlive(data)

	var handle uintptr
	result := call(
		physicalDevice.cmds.createDevice,
		physicalDevice.handle,
		uintptr(unsafe.Pointer(&data.cInfo)),
		0,
		uintptr(unsafe.Pointer(&handle)),
	)

	if result != SUCCESS {
		return Device{}, result
	}

	cmds := &deviceCommands{
		getDeviceProcAddr:       physicalDevice.cmds.getDeviceProcAddr,
		driverGetDeviceProcAddr: physicalDevice.cmds.driverGetDeviceProcAddr,
	}
	cmds.load(handle)

	swapchain := cmds.direct
	return Device{handle: handle, cmds: cmds, swapchain: &swapchain}, nil
}

func (device Device) Handle() uintptr {
	return device.handle
}

func (device Device) Destroy() {
	callVoid(device.cmds.destroyDevice, device.handle, 0)
}

func (device Device) WaitIdle() error {
	result := call(device.cmds.deviceWaitIdle, device.handle)
	if result != SUCCESS {
		return result
	}
	return nil
}

// GetQueue goes through the installed presentation commands so an
// interposer sees the queue it will later present on.
func (device Device) GetQueue(queueFamilyIndex, queueIndex uint32) Queue {
	var handle uintptr
	callVoid(device.swapchain.GetDeviceQueue, device.handle, uintptr(queueFamilyIndex), uintptr(queueIndex), uintptr(unsafe.Pointer(&handle)))
	return Queue{handle: handle, cmds: device.cmds, swapchain: device.swapchain}
}

func (queue Queue) Handle() uintptr {
	return queue.handle
}

func (queue Queue) WaitIdle() error {
	result := call(queue.cmds.queueWaitIdle, queue.handle)
	if result != SUCCESS {
		return result
	}
	return nil
}
