// fake_test.go
package swapchain

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
)

// fakeDevice records every object it hands out so tests can check counts
// and leaks. failOn makes the nth creation of a kind fail.
type fakeDevice struct {
	next    uint64
	live    map[string]map[uint64]bool
	created map[string]int
	failOn  map[string]int

	imageCount   int
	lastCreate   *vk.SwapchainCreateInfoKHR
	acquireQueue []acquireResult
	acquired     int
	waited       [][]vk.Fence
	reset        [][]vk.Fence
}

type acquireResult struct {
	index uint32
	err   error
}

func newFakeDevice(imageCount int) *fakeDevice {
	return &fakeDevice{
		live:       map[string]map[uint64]bool{},
		created:    map[string]int{},
		failOn:     map[string]int{},
		imageCount: imageCount,
	}
}

func (d *fakeDevice) fails(kind string) bool {
	d.created[kind]++
	n, ok := d.failOn[kind]
	return ok && n == d.created[kind]
}

func (d *fakeDevice) create(kind string) (uint64, error) {
	if d.fails(kind) {
		return 0, vk.OUT_OF_DEVICE_MEMORY
	}
	d.next++
	if d.live[kind] == nil {
		d.live[kind] = map[uint64]bool{}
	}
	d.live[kind][d.next] = true
	return d.next, nil
}

func (d *fakeDevice) destroy(kind string, handle uint64) {
	delete(d.live[kind], handle)
}

func (d *fakeDevice) count(kind string) int {
	return len(d.live[kind])
}

func (d *fakeDevice) total() int {
	n := 0
	for _, objs := range d.live {
		n += len(objs)
	}
	return n
}

func (d *fakeDevice) CreateSwapchainKHR(createInfo *vk.SwapchainCreateInfoKHR) (vk.SwapchainKHR, error) {
	d.lastCreate = createInfo
	h, err := d.create("swapchain")
	return vk.SwapchainKHR(h), err
}

func (d *fakeDevice) DestroySwapchainKHR(swapchain vk.SwapchainKHR) {
	d.destroy("swapchain", uint64(swapchain))
}

func (d *fakeDevice) GetSwapchainImagesKHR(vk.SwapchainKHR) ([]vk.Image, error) {
	images := make([]vk.Image, d.imageCount)
	for i := range images {
		images[i] = vk.Image(0x1000 + i)
	}
	return images, nil
}

func (d *fakeDevice) AcquireNextImageKHR(vk.SwapchainKHR, uint64, vk.Semaphore, vk.Fence) (uint32, error) {
	if len(d.acquireQueue) > 0 {
		r := d.acquireQueue[0]
		d.acquireQueue = d.acquireQueue[1:]
		return r.index, r.err
	}
	index := uint32(d.acquired % d.imageCount)
	d.acquired++
	return index, nil
}

func (d *fakeDevice) CreateImage(*vk.ImageCreateInfo) (vk.Image, error) {
	h, err := d.create("image")
	return vk.Image(h), err
}

func (d *fakeDevice) DestroyImage(image vk.Image) { d.destroy("image", uint64(image)) }

func (d *fakeDevice) GetImageMemoryRequirements(vk.Image) vk.MemoryRequirements {
	return vk.MemoryRequirements{Size: 4096, Alignment: 256, MemoryTypeBits: 0b11}
}

func (d *fakeDevice) AllocateMemory(*vk.MemoryAllocateInfo) (vk.DeviceMemory, error) {
	h, err := d.create("memory")
	return vk.DeviceMemory(h), err
}

func (d *fakeDevice) FreeMemory(memory vk.DeviceMemory) { d.destroy("memory", uint64(memory)) }

func (d *fakeDevice) BindImageMemory(vk.Image, vk.DeviceMemory, uint64) error {
	if d.fails("bind") {
		return vk.OUT_OF_DEVICE_MEMORY
	}
	return nil
}

func (d *fakeDevice) CreateImageView(*vk.ImageViewCreateInfo) (vk.ImageView, error) {
	h, err := d.create("view")
	return vk.ImageView(h), err
}

func (d *fakeDevice) DestroyImageView(view vk.ImageView) { d.destroy("view", uint64(view)) }

func (d *fakeDevice) CreateRenderPass(*vk.RenderPassCreateInfo) (vk.RenderPass, error) {
	h, err := d.create("renderpass")
	return vk.RenderPass(h), err
}

func (d *fakeDevice) DestroyRenderPass(rp vk.RenderPass) { d.destroy("renderpass", uint64(rp)) }

func (d *fakeDevice) CreateFramebuffer(*vk.FramebufferCreateInfo) (vk.Framebuffer, error) {
	h, err := d.create("framebuffer")
	return vk.Framebuffer(h), err
}

func (d *fakeDevice) DestroyFramebuffer(fb vk.Framebuffer) { d.destroy("framebuffer", uint64(fb)) }

func (d *fakeDevice) CreateSemaphore(*vk.SemaphoreCreateInfo) (vk.Semaphore, error) {
	h, err := d.create("semaphore")
	return vk.Semaphore(h), err
}

func (d *fakeDevice) DestroySemaphore(s vk.Semaphore) { d.destroy("semaphore", uint64(s)) }

func (d *fakeDevice) CreateFence(*vk.FenceCreateInfo) (vk.Fence, error) {
	h, err := d.create("fence")
	return vk.Fence(h), err
}

func (d *fakeDevice) DestroyFence(f vk.Fence) { d.destroy("fence", uint64(f)) }

func (d *fakeDevice) WaitForFences(fences []vk.Fence, _ bool, _ uint64) error {
	d.waited = append(d.waited, append([]vk.Fence(nil), fences...))
	return nil
}

func (d *fakeDevice) ResetFences(fences []vk.Fence) error {
	d.reset = append(d.reset, append([]vk.Fence(nil), fences...))
	return nil
}

type fakePhysicalDevice struct {
	caps         vk.SurfaceCapabilitiesKHR
	formats      []vk.SurfaceFormatKHR
	presentModes []vk.PresentModeKHR
	depthFormats map[vk.Format]bool
}

func newFakePhysicalDevice(minImages, maxImages uint32) *fakePhysicalDevice {
	return &fakePhysicalDevice{
		caps: vk.SurfaceCapabilitiesKHR{
			MinImageCount:  minImages,
			MaxImageCount:  maxImages,
			CurrentExtent:  vk.Extent2D{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF},
			MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []vk.SurfaceFormatKHR{
			{Format: vk.FORMAT_B8G8R8A8_SRGB, ColorSpace: vk.COLOR_SPACE_SRGB_NONLINEAR_KHR},
			{Format: vk.FORMAT_B8G8R8A8_UNORM, ColorSpace: vk.COLOR_SPACE_SRGB_NONLINEAR_KHR},
		},
		presentModes: []vk.PresentModeKHR{vk.PRESENT_MODE_FIFO_KHR, vk.PRESENT_MODE_MAILBOX_KHR},
		depthFormats: map[vk.Format]bool{vk.FORMAT_D32_SFLOAT: true},
	}
}

func (p *fakePhysicalDevice) GetSurfaceCapabilitiesKHR(vk.SurfaceKHR) (vk.SurfaceCapabilitiesKHR, error) {
	return p.caps, nil
}

func (p *fakePhysicalDevice) GetSurfaceFormatsKHR(vk.SurfaceKHR) ([]vk.SurfaceFormatKHR, error) {
	return p.formats, nil
}

func (p *fakePhysicalDevice) GetSurfacePresentModesKHR(vk.SurfaceKHR) ([]vk.PresentModeKHR, error) {
	return p.presentModes, nil
}

func (p *fakePhysicalDevice) GetMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = 2
	props.MemoryTypes[0].PropertyFlags = vk.MEMORY_PROPERTY_HOST_VISIBLE_BIT
	props.MemoryTypes[1].PropertyFlags = vk.MEMORY_PROPERTY_DEVICE_LOCAL_BIT
	return props
}

func (p *fakePhysicalDevice) GetFormatProperties(format vk.Format) vk.FormatProperties {
	if p.depthFormats[format] {
		return vk.FormatProperties{OptimalTilingFeatures: vk.FORMAT_FEATURE_DEPTH_STENCIL_ATTACHMENT_BIT}
	}
	return vk.FormatProperties{}
}

type fakeQueue struct {
	submits   [][]vk.SubmitInfo
	fences    []vk.Fence
	presents  []uint32
	presentFn func(n int) error
}

func (q *fakeQueue) Submit(submits []vk.SubmitInfo, fence vk.Fence) error {
	q.submits = append(q.submits, submits)
	q.fences = append(q.fences, fence)
	return nil
}

func (q *fakeQueue) PresentKHR(info *vk.PresentInfoKHR) error {
	q.presents = append(q.presents, info.ImageIndices[0])
	if q.presentFn != nil {
		return q.presentFn(len(q.presents))
	}
	return nil
}

type recordingHooks struct {
	calls []string
}

func (h *recordingHooks) SubmitStart()  { h.calls = append(h.calls, "submit-start") }
func (h *recordingHooks) SubmitEnd()    { h.calls = append(h.calls, "submit-end") }
func (h *recordingHooks) PresentStart() { h.calls = append(h.calls, "present-start") }
func (h *recordingHooks) PresentEnd(presented bool) {
	if presented {
		h.calls = append(h.calls, "present-end")
	} else {
		h.calls = append(h.calls, "present-failed")
	}
}
