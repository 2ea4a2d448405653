// imageview.go
package vk

import (
	"unsafe"
)

type ImageViewCreateInfo struct {
	Image            Image
	ViewType         ImageViewType
	Format           Format
	Components       ComponentMapping
	SubresourceRange ImageSubresourceRange
}

type vkImageViewCreateInfo struct {
	sType            StructureType
	pNext            unsafe.Pointer
	flags            uint32
	image            Image
	viewType         ImageViewType
	format           Format
	components       ComponentMapping
	subresourceRange ImageSubresourceRange
}

func (device Device) CreateImageView(createInfo *ImageViewCreateInfo) (ImageView, error) {
	cInfo := &vkImageViewCreateInfo{
		sType:            IMAGE_VIEW_CREATE_INFO,
		image:            createInfo.Image,
		viewType:         createInfo.ViewType,
		format:           createInfo.Format,
		components:       createInfo.Components,
		subresourceRange: createInfo.SubresourceRange,
	}

	var view ImageView
	result := call(device.cmds.createImageView, device.handle, uintptr(unsafe.Pointer(cInfo)), 0, uintptr(unsafe.Pointer(&view)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return view, nil
}

func (device Device) DestroyImageView(imageView ImageView) {
	callVoid(device.cmds.destroyImageView, device.handle, uintptr(imageView), 0)
}
