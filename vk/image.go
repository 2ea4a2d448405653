// image.go
package vk

import (
	"unsafe"
)

type ImageCreateInfo struct {
	ImageType     ImageType
	Format        Format
	Extent        Extent3D
	MipLevels     uint32
	ArrayLayers   uint32
	Samples       SampleCountFlags
	Tiling        ImageTiling
	Usage         ImageUsageFlags
	SharingMode   SharingMode
	InitialLayout ImageLayout
}

type vkImageCreateInfo struct {
	sType                 StructureType
	pNext                 unsafe.Pointer
	flags                 uint32
	imageType             ImageType
	format                Format
	extent                Extent3D
	mipLevels             uint32
	arrayLayers           uint32
	samples               SampleCountFlags
	tiling                ImageTiling
	usage                 ImageUsageFlags
	sharingMode           SharingMode
	queueFamilyIndexCount uint32
	pQueueFamilyIndices   unsafe.Pointer
	initialLayout         ImageLayout
}

type MemoryAllocateInfo struct {
	AllocationSize  uint64
	MemoryTypeIndex uint32
}

type vkMemoryAllocateInfo struct {
	sType           StructureType
	pNext           unsafe.Pointer
	allocationSize  uint64
	memoryTypeIndex uint32
}

// Image Creation
func (device Device) CreateImage(createInfo *ImageCreateInfo) (Image, error) {
	cInfo := &vkImageCreateInfo{
		sType:         IMAGE_CREATE_INFO,
		imageType:     createInfo.ImageType,
		format:        createInfo.Format,
		extent:        createInfo.Extent,
		mipLevels:     createInfo.MipLevels,
		arrayLayers:   createInfo.ArrayLayers,
		samples:       createInfo.Samples,
		tiling:        createInfo.Tiling,
		usage:         createInfo.Usage,
		sharingMode:   createInfo.SharingMode,
		initialLayout: createInfo.InitialLayout,
	}

	var image Image
	result := call(device.cmds.createImage, device.handle, uintptr(unsafe.Pointer(cInfo)), 0, uintptr(unsafe.Pointer(&image)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return image, nil
}

func (device Device) DestroyImage(image Image) {
	callVoid(device.cmds.destroyImage, device.handle, uintptr(image), 0)
}

func (device Device) GetImageMemoryRequirements(image Image) MemoryRequirements {
	var memReqs MemoryRequirements
	callVoid(device.cmds.getImageMemoryRequirements, device.handle, uintptr(image), uintptr(unsafe.Pointer(&memReqs)))
	return memReqs
}

func (device Device) AllocateMemory(allocInfo *MemoryAllocateInfo) (DeviceMemory, error) {
	cInfo := &vkMemoryAllocateInfo{
		sType:           MEMORY_ALLOCATE_INFO,
		allocationSize:  allocInfo.AllocationSize,
		memoryTypeIndex: allocInfo.MemoryTypeIndex,
	}

	var memory DeviceMemory
	result := call(device.cmds.allocateMemory, device.handle, uintptr(unsafe.Pointer(cInfo)), 0, uintptr(unsafe.Pointer(&memory)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return memory, nil
}

func (device Device) FreeMemory(memory DeviceMemory) {
	callVoid(device.cmds.freeMemory, device.handle, uintptr(memory), 0)
}

func (device Device) BindImageMemory(image Image, memory DeviceMemory, offset uint64) error {
	result := call(device.cmds.bindImageMemory, device.handle, uintptr(image), uintptr(memory), uintptr(offset))
	if result != SUCCESS {
		return result
	}
	return nil
}

func FindMemoryType(memProperties PhysicalDeviceMemoryProperties, typeFilter uint32, properties MemoryPropertyFlags) (uint32, bool) {
	for i := uint32(0); i < memProperties.MemoryTypeCount; i++ {
		if (typeFilter&(1<<i)) != 0 && (memProperties.MemoryTypes[i].PropertyFlags&properties) == properties {
			return i, true
		}
	}
	return 0, false
}
