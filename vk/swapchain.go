// swapchain.go
package vk

import (
	"runtime"
	"unsafe"
)

type SwapchainCreateInfoKHR struct {
	Surface            SurfaceKHR
	MinImageCount      uint32
	ImageFormat        Format
	ImageColorSpace    ColorSpaceKHR
	ImageExtent        Extent2D
	ImageArrayLayers   uint32
	ImageUsage         ImageUsageFlags
	ImageSharingMode   SharingMode
	QueueFamilyIndices []uint32
	PreTransform       SurfaceTransformFlagsKHR
	CompositeAlpha     CompositeAlphaFlagsKHR
	PresentMode        PresentModeKHR
	Clipped            bool
	OldSwapchain       SwapchainKHR
}

type vkSwapchainCreateInfoKHR struct {
	sType                 StructureType
	pNext                 unsafe.Pointer
	flags                 uint32
	surface               SurfaceKHR
	minImageCount         uint32
	imageFormat           Format
	imageColorSpace       ColorSpaceKHR
	imageExtent           Extent2D
	imageArrayLayers      uint32
	imageUsage            ImageUsageFlags
	imageSharingMode      SharingMode
	queueFamilyIndexCount uint32
	pQueueFamilyIndices   unsafe.Pointer
	preTransform          SurfaceTransformFlagsKHR
	compositeAlpha        CompositeAlphaFlagsKHR
	presentMode           PresentModeKHR
	clipped               uint32
	oldSwapchain          SwapchainKHR
}

type swapchainCreateData struct {
	cInfo         vkSwapchainCreateInfoKHR
	queueFamilies []uint32
}

func (info *SwapchainCreateInfoKHR) vulkanize() *swapchainCreateData {
	data := &swapchainCreateData{}

	data.cInfo = vkSwapchainCreateInfoKHR{
		sType:            SWAPCHAIN_CREATE_INFO_KHR,
		surface:          info.Surface,
		minImageCount:    info.MinImageCount,
		imageFormat:      info.ImageFormat,
		imageColorSpace:  info.ImageColorSpace,
		imageExtent:      info.ImageExtent,
		imageArrayLayers: info.ImageArrayLayers,
		imageUsage:       info.ImageUsage,
		imageSharingMode: info.ImageSharingMode,
		preTransform:     info.PreTransform,
		compositeAlpha:   info.CompositeAlpha,
		presentMode:      info.PresentMode,
		clipped:          vkBool(info.Clipped),
		oldSwapchain:     info.OldSwapchain,
	}

	if len(info.QueueFamilyIndices) > 0 {
		data.queueFamilies = append([]uint32(nil), info.QueueFamilyIndices...)
		data.cInfo.queueFamilyIndexCount = uint32(len(data.queueFamilies))
		data.cInfo.pQueueFamilyIndices = first(data.queueFamilies)
	}

	return data
}

func (device Device) CreateSwapchainKHR(createInfo *SwapchainCreateInfoKHR) (SwapchainKHR, error) {
	data := createInfo.vulkanize()
	defer runtime.KeepAlive(data)

	var swapchain SwapchainKHR
	result := call(device.swapchain.CreateSwapchainKHR, device.handle, uintptr(unsafe.Pointer(&data.cInfo)), 0, uintptr(unsafe.Pointer(&swapchain)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return swapchain, nil
}

func (device Device) DestroySwapchainKHR(swapchain SwapchainKHR) {
	callVoid(device.swapchain.DestroySwapchainKHR, device.handle, uintptr(swapchain), 0)
}

func (device Device) GetSwapchainImagesKHR(swapchain SwapchainKHR) ([]Image, error) {
	var count uint32
	result := call(device.swapchain.GetSwapchainImagesKHR, device.handle, uintptr(swapchain), uintptr(unsafe.Pointer(&count)), 0)

	if result != SUCCESS {
		return nil, result
	}
	if count == 0 {
		return nil, nil
	}

	images := make([]Image, count)
	result = call(device.swapchain.GetSwapchainImagesKHR, device.handle, uintptr(swapchain), uintptr(unsafe.Pointer(&count)), uintptr(unsafe.Pointer(&images[0])))

	if result != SUCCESS && result != INCOMPLETE {
		return nil, result
	}

	return images[:count], nil
}

// AcquireNextImageKHR returns the index together with SUBOPTIMAL when the
// image is usable but the swapchain no longer matches the surface.
func (device Device) AcquireNextImageKHR(swapchain SwapchainKHR, timeout uint64, semaphore Semaphore, fence Fence) (uint32, error) {
	var imageIndex uint32

	result := call(
		device.swapchain.AcquireNextImageKHR,
		device.handle,
		uintptr(swapchain),
		uintptr(timeout),
		uintptr(semaphore),
		uintptr(fence),
		uintptr(unsafe.Pointer(&imageIndex)),
	)

	switch result {
	case SUCCESS:
		return imageIndex, nil
	case SUBOPTIMAL:
		return imageIndex, SUBOPTIMAL
	default:
		return 0, result
	}
}

// Swapchain Present
type PresentInfoKHR struct {
	WaitSemaphores []Semaphore
	Swapchains     []SwapchainKHR
	ImageIndices   []uint32
}

type vkPresentInfoKHR struct {
	sType              StructureType
	pNext              unsafe.Pointer
	waitSemaphoreCount uint32
	pWaitSemaphores    unsafe.Pointer
	swapchainCount     uint32
	pSwapchains        unsafe.Pointer
	pImageIndices      unsafe.Pointer
	pResults           unsafe.Pointer
}

// PresentKHR returns SUBOPTIMAL unchanged so callers can schedule recreation.
func (queue Queue) PresentKHR(presentInfo *PresentInfoKHR) error {
	cInfo := &vkPresentInfoKHR{
		sType:              PRESENT_INFO_KHR,
		waitSemaphoreCount: uint32(len(presentInfo.WaitSemaphores)),
		pWaitSemaphores:    first(presentInfo.WaitSemaphores),
		swapchainCount:     uint32(len(presentInfo.Swapchains)),
		pSwapchains:        first(presentInfo.Swapchains),
		pImageIndices:      first(presentInfo.ImageIndices),
	}
	defer runtime.KeepAlive(presentInfo)

	result := call(queue.swapchain.QueuePresentKHR, queue.handle, uintptr(unsafe.Pointer(cInfo)))

	if result != SUCCESS {
		return result
	}

	return nil
}
