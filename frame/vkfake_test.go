// vkfake_test.go
package frame

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
)

// vkDevice backs real swapchain.SwapChain values with counters instead of
// driver objects.
type vkDevice struct {
	next       uint64
	images     int
	created    []vk.Extent2D
	acquireErr []error
}

func (d *vkDevice) handle() uint64 {
	d.next++
	return d.next
}

func (d *vkDevice) CreateSwapchainKHR(info *vk.SwapchainCreateInfoKHR) (vk.SwapchainKHR, error) {
	d.created = append(d.created, info.ImageExtent)
	return vk.SwapchainKHR(d.handle()), nil
}

func (d *vkDevice) DestroySwapchainKHR(vk.SwapchainKHR) {}

func (d *vkDevice) GetSwapchainImagesKHR(vk.SwapchainKHR) ([]vk.Image, error) {
	images := make([]vk.Image, d.images)
	for i := range images {
		images[i] = vk.Image(d.handle())
	}
	return images, nil
}

func (d *vkDevice) AcquireNextImageKHR(vk.SwapchainKHR, uint64, vk.Semaphore, vk.Fence) (uint32, error) {
	if len(d.acquireErr) > 0 {
		err := d.acquireErr[0]
		d.acquireErr = d.acquireErr[1:]
		return 0, err
	}
	return 0, nil
}

func (d *vkDevice) CreateImage(*vk.ImageCreateInfo) (vk.Image, error) {
	return vk.Image(d.handle()), nil
}

func (d *vkDevice) DestroyImage(vk.Image) {}

func (d *vkDevice) GetImageMemoryRequirements(vk.Image) vk.MemoryRequirements {
	return vk.MemoryRequirements{Size: 4096, Alignment: 256, MemoryTypeBits: 0b1}
}

func (d *vkDevice) AllocateMemory(*vk.MemoryAllocateInfo) (vk.DeviceMemory, error) {
	return vk.DeviceMemory(d.handle()), nil
}

func (d *vkDevice) FreeMemory(vk.DeviceMemory) {}

func (d *vkDevice) BindImageMemory(vk.Image, vk.DeviceMemory, uint64) error { return nil }

func (d *vkDevice) CreateImageView(*vk.ImageViewCreateInfo) (vk.ImageView, error) {
	return vk.ImageView(d.handle()), nil
}

func (d *vkDevice) DestroyImageView(vk.ImageView) {}

func (d *vkDevice) CreateRenderPass(*vk.RenderPassCreateInfo) (vk.RenderPass, error) {
	return vk.RenderPass(d.handle()), nil
}

func (d *vkDevice) DestroyRenderPass(vk.RenderPass) {}

func (d *vkDevice) CreateFramebuffer(*vk.FramebufferCreateInfo) (vk.Framebuffer, error) {
	return vk.Framebuffer(d.handle()), nil
}

func (d *vkDevice) DestroyFramebuffer(vk.Framebuffer) {}

func (d *vkDevice) CreateSemaphore(*vk.SemaphoreCreateInfo) (vk.Semaphore, error) {
	return vk.Semaphore(d.handle()), nil
}

func (d *vkDevice) DestroySemaphore(vk.Semaphore) {}

func (d *vkDevice) CreateFence(*vk.FenceCreateInfo) (vk.Fence, error) {
	return vk.Fence(d.handle()), nil
}

func (d *vkDevice) DestroyFence(vk.Fence) {}

func (d *vkDevice) WaitForFences([]vk.Fence, bool, uint64) error { return nil }

func (d *vkDevice) ResetFences([]vk.Fence) error { return nil }

// vkSurface reports that the application picks the extent.
type vkSurface struct{}

func (vkSurface) GetSurfaceCapabilitiesKHR(vk.SurfaceKHR) (vk.SurfaceCapabilitiesKHR, error) {
	return vk.SurfaceCapabilitiesKHR{
		MinImageCount:  2,
		CurrentExtent:  vk.Extent2D{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}, nil
}

func (vkSurface) GetSurfaceFormatsKHR(vk.SurfaceKHR) ([]vk.SurfaceFormatKHR, error) {
	return []vk.SurfaceFormatKHR{{Format: vk.FORMAT_B8G8R8A8_UNORM, ColorSpace: vk.COLOR_SPACE_SRGB_NONLINEAR_KHR}}, nil
}

func (vkSurface) GetSurfacePresentModesKHR(vk.SurfaceKHR) ([]vk.PresentModeKHR, error) {
	return []vk.PresentModeKHR{vk.PRESENT_MODE_FIFO_KHR}, nil
}

func (vkSurface) GetMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = 1
	props.MemoryTypes[0].PropertyFlags = vk.MEMORY_PROPERTY_DEVICE_LOCAL_BIT
	return props
}

func (vkSurface) GetFormatProperties(format vk.Format) vk.FormatProperties {
	if format == vk.FORMAT_D32_SFLOAT {
		return vk.FormatProperties{OptimalTilingFeatures: vk.FORMAT_FEATURE_DEPTH_STENCIL_ATTACHMENT_BIT}
	}
	return vk.FormatProperties{}
}

type vkQueue struct{}

func (vkQueue) Submit([]vk.SubmitInfo, vk.Fence) error { return nil }
func (vkQueue) PresentKHR(*vk.PresentInfoKHR) error    { return nil }
