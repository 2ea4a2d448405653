// attachment.go
package swapchain

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
)

// Attachment owns one image, its view and its memory. Memory is null for
// images owned by the swapchain.
type Attachment struct {
	Image  vk.Image
	View   vk.ImageView
	Memory vk.DeviceMemory
	Format vk.Format
}

// destroy is the only release path for an attachment; null fields are skipped.
func (a *Attachment) destroy(device Device) {
	if a.View != vk.NULL_HANDLE {
		device.DestroyImageView(a.View)
	}
	if a.Image != vk.NULL_HANDLE {
		device.DestroyImage(a.Image)
	}
	if a.Memory != vk.NULL_HANDLE {
		device.FreeMemory(a.Memory)
	}
	*a = Attachment{}
}

func createView(device Device, image vk.Image, format vk.Format, aspect vk.ImageAspectFlags) (vk.ImageView, error) {
	return device.CreateImageView(&vk.ImageViewCreateInfo{
		Image:    image,
		ViewType: vk.IMAGE_VIEW_TYPE_2D,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.COMPONENT_SWIZZLE_IDENTITY,
			G: vk.COMPONENT_SWIZZLE_IDENTITY,
			B: vk.COMPONENT_SWIZZLE_IDENTITY,
			A: vk.COMPONENT_SWIZZLE_IDENTITY,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	})
}

// newAttachment creates a device-local 2D image with bound memory and a
// view. Nothing is leaked on failure.
func newAttachment(
	device Device,
	memProps vk.PhysicalDeviceMemoryProperties,
	extent vk.Extent2D,
	format vk.Format,
	usage vk.ImageUsageFlags,
	aspect vk.ImageAspectFlags,
) (Attachment, error) {
	a := Attachment{Format: format}

	image, err := device.CreateImage(&vk.ImageCreateInfo{
		ImageType:     vk.IMAGE_TYPE_2D,
		Format:        format,
		Extent:        vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SAMPLE_COUNT_1_BIT,
		Tiling:        vk.IMAGE_TILING_OPTIMAL,
		Usage:         usage,
		SharingMode:   vk.SHARING_MODE_EXCLUSIVE,
		InitialLayout: vk.IMAGE_LAYOUT_UNDEFINED,
	})
	if err != nil {
		return Attachment{}, err
	}
	a.Image = image

	memReqs := device.GetImageMemoryRequirements(image)
	memTypeIndex, found := vk.FindMemoryType(memProps, memReqs.MemoryTypeBits, vk.MEMORY_PROPERTY_DEVICE_LOCAL_BIT)
	if !found {
		a.destroy(device)
		return Attachment{}, ErrNoMemoryType
	}

	memory, err := device.AllocateMemory(&vk.MemoryAllocateInfo{
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memTypeIndex,
	})
	if err != nil {
		a.destroy(device)
		return Attachment{}, err
	}
	a.Memory = memory

	if err := device.BindImageMemory(image, memory, 0); err != nil {
		a.destroy(device)
		return Attachment{}, err
	}

	view, err := createView(device, image, format, aspect)
	if err != nil {
		a.destroy(device)
		return Attachment{}, err
	}
	a.View = view

	return a, nil
}
