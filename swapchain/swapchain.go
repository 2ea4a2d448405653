// swapchain.go
package swapchain

import (
	"math"

	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

// MotionVectorFormat is the format of the per-slot motion vector target.
const MotionVectorFormat = vk.FORMAT_R16G16_SFLOAT

// DefaultFramesInFlight is used when Options.FramesInFlight is zero.
const DefaultFramesInFlight = 2

// Device is the subset of vk.Device the chain uses. Presentation calls must
// come from a device with the router's table installed.
type Device interface {
	CreateSwapchainKHR(createInfo *vk.SwapchainCreateInfoKHR) (vk.SwapchainKHR, error)
	DestroySwapchainKHR(swapchain vk.SwapchainKHR)
	GetSwapchainImagesKHR(swapchain vk.SwapchainKHR) ([]vk.Image, error)
	AcquireNextImageKHR(swapchain vk.SwapchainKHR, timeout uint64, semaphore vk.Semaphore, fence vk.Fence) (uint32, error)

	CreateImage(createInfo *vk.ImageCreateInfo) (vk.Image, error)
	DestroyImage(image vk.Image)
	GetImageMemoryRequirements(image vk.Image) vk.MemoryRequirements
	AllocateMemory(allocInfo *vk.MemoryAllocateInfo) (vk.DeviceMemory, error)
	FreeMemory(memory vk.DeviceMemory)
	BindImageMemory(image vk.Image, memory vk.DeviceMemory, offset uint64) error
	CreateImageView(createInfo *vk.ImageViewCreateInfo) (vk.ImageView, error)
	DestroyImageView(imageView vk.ImageView)

	CreateRenderPass(createInfo *vk.RenderPassCreateInfo) (vk.RenderPass, error)
	DestroyRenderPass(renderPass vk.RenderPass)
	CreateFramebuffer(createInfo *vk.FramebufferCreateInfo) (vk.Framebuffer, error)
	DestroyFramebuffer(framebuffer vk.Framebuffer)

	CreateSemaphore(createInfo *vk.SemaphoreCreateInfo) (vk.Semaphore, error)
	DestroySemaphore(semaphore vk.Semaphore)
	CreateFence(createInfo *vk.FenceCreateInfo) (vk.Fence, error)
	DestroyFence(fence vk.Fence)
	WaitForFences(fences []vk.Fence, waitAll bool, timeout uint64) error
	ResetFences(fences []vk.Fence) error
}

type PhysicalDevice interface {
	GetSurfaceCapabilitiesKHR(surface vk.SurfaceKHR) (vk.SurfaceCapabilitiesKHR, error)
	GetSurfaceFormatsKHR(surface vk.SurfaceKHR) ([]vk.SurfaceFormatKHR, error)
	GetSurfacePresentModesKHR(surface vk.SurfaceKHR) ([]vk.PresentModeKHR, error)
	GetMemoryProperties() vk.PhysicalDeviceMemoryProperties
	GetFormatProperties(format vk.Format) vk.FormatProperties
}

type Queue interface {
	Submit(submits []vk.SubmitInfo, fence vk.Fence) error
	PresentKHR(presentInfo *vk.PresentInfoKHR) error
}

var (
	_ Device         = vk.Device{}
	_ PhysicalDevice = vk.PhysicalDevice{}
	_ Queue          = vk.Queue{}
)

type Options struct {
	Device         Device
	PhysicalDevice PhysicalDevice
	Surface        vk.SurfaceKHR

	// Graphics queue used for submission. PresentQueue defaults to it.
	GraphicsQueue  Queue
	PresentQueue   Queue
	GraphicsFamily uint32
	PresentFamily  uint32

	// Used when the surface lets the application pick the extent.
	Extent vk.Extent2D

	// Number of concurrency slots, clamped to the image count.
	FramesInFlight int
	PresentPolicy  PresentPolicy

	// Chain being replaced, if any. It is only read, never destroyed.
	Previous *SwapChain

	Logger log.Logger
}

// Slot is one chain image together with the attachments rendered alongside it.
type Slot struct {
	Color       Attachment
	Depth       Attachment
	Motion      Attachment
	Framebuffer vk.Framebuffer
}

type SwapChain struct {
	device       Device
	physical     PhysicalDevice
	queue        Queue
	presentQueue Queue
	logger       log.Logger

	handle        vk.SwapchainKHR
	surfaceFormat vk.SurfaceFormatKHR
	depthFormat   vk.Format
	presentMode   vk.PresentModeKHR
	extent        vk.Extent2D

	slots      []Slot
	renderPass vk.RenderPass
	sync       syncPool

	framesInFlight int
	currentFrame   int
}

// New builds a chain and everything rendered into it. On failure all
// partially created objects are released before returning.
func New(opts Options) (*SwapChain, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New("swapchain")
	}

	presentQueue := opts.PresentQueue
	if presentQueue == nil {
		presentQueue = opts.GraphicsQueue
	}

	sc := &SwapChain{
		device:       opts.Device,
		physical:     opts.PhysicalDevice,
		queue:        opts.GraphicsQueue,
		presentQueue: presentQueue,
		logger:       logger,
	}

	if err := sc.init(opts); err != nil {
		sc.Destroy()
		return nil, err
	}

	logger.Infof(
		"created swapchain %dx%d, %d images, %d frames in flight, %s %s, depth %s",
		sc.extent.Width, sc.extent.Height, len(sc.slots), sc.framesInFlight,
		sc.surfaceFormat.Format, sc.presentMode, sc.depthFormat,
	)
	return sc, nil
}

func (sc *SwapChain) init(opts Options) error {
	support, err := QuerySupport(sc.physical, opts.Surface)
	if err != nil {
		return errors.Wrap(err, "swapchain: query surface support")
	}

	if sc.surfaceFormat, err = ChooseSurfaceFormat(support.Formats); err != nil {
		return err
	}
	if len(support.PresentModes) == 0 {
		return ErrNoPresentModes
	}
	sc.presentMode = ChoosePresentMode(support.PresentModes, opts.PresentPolicy)
	sc.extent = ChooseExtent(support.Capabilities, opts.Extent)

	if sc.depthFormat, err = FindDepthFormat(sc.physical); err != nil {
		return err
	}

	if err := sc.createSwapchain(opts, support.Capabilities); err != nil {
		return err
	}

	sc.framesInFlight = opts.FramesInFlight
	if sc.framesInFlight <= 0 {
		sc.framesInFlight = DefaultFramesInFlight
	}
	if sc.framesInFlight > len(sc.slots) {
		sc.logger.Noticef("%d frames in flight exceeds %d chain images; clamping", sc.framesInFlight, len(sc.slots))
		sc.framesInFlight = len(sc.slots)
	}

	if err := sc.createAttachments(); err != nil {
		return err
	}
	if err := sc.createRenderPass(); err != nil {
		return err
	}
	if err := sc.createFramebuffers(); err != nil {
		return err
	}

	sync, err := newSyncPool(sc.device, sc.framesInFlight, len(sc.slots))
	sc.sync = sync
	return err
}

func (sc *SwapChain) createSwapchain(opts Options, capabilities vk.SurfaceCapabilitiesKHR) error {
	createInfo := &vk.SwapchainCreateInfoKHR{
		Surface:          opts.Surface,
		MinImageCount:    ChooseImageCount(capabilities),
		ImageFormat:      sc.surfaceFormat.Format,
		ImageColorSpace:  sc.surfaceFormat.ColorSpace,
		ImageExtent:      sc.extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.IMAGE_USAGE_COLOR_ATTACHMENT_BIT | vk.IMAGE_USAGE_TRANSFER_DST_BIT,
		ImageSharingMode: vk.SHARING_MODE_EXCLUSIVE,
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   vk.COMPOSITE_ALPHA_OPAQUE_BIT_KHR,
		PresentMode:      sc.presentMode,
		Clipped:          true,
	}

	if opts.GraphicsFamily != opts.PresentFamily {
		createInfo.ImageSharingMode = vk.SHARING_MODE_CONCURRENT
		createInfo.QueueFamilyIndices = []uint32{opts.GraphicsFamily, opts.PresentFamily}
	}

	if opts.Previous != nil {
		createInfo.OldSwapchain = opts.Previous.handle
	}

	handle, err := sc.device.CreateSwapchainKHR(createInfo)
	if err != nil {
		return errors.Wrap(err, "swapchain: create swapchain")
	}
	sc.handle = handle

	// The driver may create more images than requested.
	images, err := sc.device.GetSwapchainImagesKHR(sc.handle)
	if err != nil {
		return errors.Wrap(err, "swapchain: get swapchain images")
	}
	if len(images) == 0 {
		return ErrNoImages
	}

	sc.slots = make([]Slot, len(images))
	for i, image := range images {
		sc.slots[i].Color = Attachment{Image: image, Format: sc.surfaceFormat.Format}
	}
	return nil
}

func (sc *SwapChain) createAttachments() error {
	memProps := sc.physical.GetMemoryProperties()

	for i := range sc.slots {
		slot := &sc.slots[i]

		view, err := createView(sc.device, slot.Color.Image, slot.Color.Format, vk.IMAGE_ASPECT_COLOR_BIT)
		if err != nil {
			return errors.Wrapf(err, "swapchain: create color view %d", i)
		}
		slot.Color.View = view

		slot.Depth, err = newAttachment(sc.device, memProps, sc.extent, sc.depthFormat,
			vk.IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT, vk.IMAGE_ASPECT_DEPTH_BIT)
		if err != nil {
			return errors.Wrapf(err, "swapchain: create depth attachment %d", i)
		}

		slot.Motion, err = newAttachment(sc.device, memProps, sc.extent, MotionVectorFormat,
			vk.IMAGE_USAGE_COLOR_ATTACHMENT_BIT|vk.IMAGE_USAGE_SAMPLED_BIT, vk.IMAGE_ASPECT_COLOR_BIT)
		if err != nil {
			return errors.Wrapf(err, "swapchain: create motion vector attachment %d", i)
		}
	}
	return nil
}

// createRenderPass builds the single pass used with every framebuffer:
// 0 color, 1 motion vectors, 2 depth.
func (sc *SwapChain) createRenderPass() error {
	attachments := []vk.AttachmentDescription{
		{
			Format:         sc.surfaceFormat.Format,
			Samples:        vk.SAMPLE_COUNT_1_BIT,
			LoadOp:         vk.ATTACHMENT_LOAD_OP_CLEAR,
			StoreOp:        vk.ATTACHMENT_STORE_OP_STORE,
			StencilLoadOp:  vk.ATTACHMENT_LOAD_OP_DONT_CARE,
			StencilStoreOp: vk.ATTACHMENT_STORE_OP_DONT_CARE,
			InitialLayout:  vk.IMAGE_LAYOUT_UNDEFINED,
			FinalLayout:    vk.IMAGE_LAYOUT_PRESENT_SRC_KHR,
		},
		{
			Format:         MotionVectorFormat,
			Samples:        vk.SAMPLE_COUNT_1_BIT,
			LoadOp:         vk.ATTACHMENT_LOAD_OP_CLEAR,
			StoreOp:        vk.ATTACHMENT_STORE_OP_STORE,
			StencilLoadOp:  vk.ATTACHMENT_LOAD_OP_DONT_CARE,
			StencilStoreOp: vk.ATTACHMENT_STORE_OP_DONT_CARE,
			InitialLayout:  vk.IMAGE_LAYOUT_UNDEFINED,
			FinalLayout:    vk.IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL,
		},
		{
			Format:         sc.depthFormat,
			Samples:        vk.SAMPLE_COUNT_1_BIT,
			LoadOp:         vk.ATTACHMENT_LOAD_OP_CLEAR,
			StoreOp:        vk.ATTACHMENT_STORE_OP_DONT_CARE,
			StencilLoadOp:  vk.ATTACHMENT_LOAD_OP_DONT_CARE,
			StencilStoreOp: vk.ATTACHMENT_STORE_OP_DONT_CARE,
			InitialLayout:  vk.IMAGE_LAYOUT_UNDEFINED,
			FinalLayout:    vk.IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL,
		},
	}

	stages := vk.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT | vk.PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT

	renderPass, err := sc.device.CreateRenderPass(&vk.RenderPassCreateInfo{
		Attachments: attachments,
		Subpasses: []vk.SubpassDescription{{
			PipelineBindPoint: vk.PIPELINE_BIND_POINT_GRAPHICS,
			ColorAttachments: []vk.AttachmentReference{
				{Attachment: 0, Layout: vk.IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL},
				{Attachment: 1, Layout: vk.IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL},
			},
			DepthStencilAttachment: &vk.AttachmentReference{
				Attachment: 2,
				Layout:     vk.IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL,
			},
		}},
		Dependencies: []vk.SubpassDependency{{
			SrcSubpass:    vk.SUBPASS_EXTERNAL,
			DstSubpass:    0,
			SrcStageMask:  stages,
			DstStageMask:  stages,
			SrcAccessMask: vk.ACCESS_NONE,
			DstAccessMask: vk.ACCESS_COLOR_ATTACHMENT_WRITE_BIT | vk.ACCESS_DEPTH_STENCIL_ATTACHMENT_WRITE_BIT,
		}},
	})
	if err != nil {
		return errors.Wrap(err, "swapchain: create render pass")
	}

	sc.renderPass = renderPass
	return nil
}

func (sc *SwapChain) createFramebuffers() error {
	for i := range sc.slots {
		slot := &sc.slots[i]

		framebuffer, err := sc.device.CreateFramebuffer(&vk.FramebufferCreateInfo{
			RenderPass:  sc.renderPass,
			Attachments: []vk.ImageView{slot.Color.View, slot.Motion.View, slot.Depth.View},
			Width:       sc.extent.Width,
			Height:      sc.extent.Height,
			Layers:      1,
		})
		if err != nil {
			return errors.Wrapf(err, "swapchain: create framebuffer %d", i)
		}
		slot.Framebuffer = framebuffer
	}
	return nil
}

// Destroy releases everything the chain created, in reverse creation order.
// The caller must make sure the device is idle. Safe on a partially built chain.
func (sc *SwapChain) Destroy() {
	sc.sync.destroy(sc.device)

	for i := range sc.slots {
		if sc.slots[i].Framebuffer != vk.NULL_HANDLE {
			sc.device.DestroyFramebuffer(sc.slots[i].Framebuffer)
			sc.slots[i].Framebuffer = vk.NULL_HANDLE
		}
	}

	if sc.renderPass != vk.NULL_HANDLE {
		sc.device.DestroyRenderPass(sc.renderPass)
		sc.renderPass = vk.NULL_HANDLE
	}

	for i := range sc.slots {
		slot := &sc.slots[i]
		slot.Motion.destroy(sc.device)
		slot.Depth.destroy(sc.device)
		// Color images belong to the swapchain itself.
		slot.Color.Image = vk.NULL_HANDLE
		slot.Color.destroy(sc.device)
	}
	sc.slots = nil

	if sc.handle != vk.NULL_HANDLE {
		sc.device.DestroySwapchainKHR(sc.handle)
		sc.handle = vk.NULL_HANDLE
	}
}

// Formats are the attachment formats pipelines and render passes are built
// against.
type Formats interface {
	ColorFormat() vk.Format
	DepthFormat() vk.Format
}

// CompatibleWith reports whether pipelines built against old can be used
// with this chain.
func (sc *SwapChain) CompatibleWith(old Formats) bool {
	return sc.surfaceFormat.Format == old.ColorFormat() && sc.depthFormat == old.DepthFormat()
}

func (sc *SwapChain) Handle() vk.SwapchainKHR {
	return sc.handle
}

func (sc *SwapChain) Extent() vk.Extent2D {
	return sc.extent
}

func (sc *SwapChain) ImageCount() int {
	return len(sc.slots)
}

func (sc *SwapChain) FramesInFlight() int {
	return sc.framesInFlight
}

// CurrentFrame is the concurrency slot the next acquire will use.
func (sc *SwapChain) CurrentFrame() int {
	return sc.currentFrame
}

func (sc *SwapChain) RenderPass() vk.RenderPass {
	return sc.renderPass
}

func (sc *SwapChain) Framebuffer(imageIndex uint32) vk.Framebuffer {
	return sc.slots[imageIndex].Framebuffer
}

func (sc *SwapChain) Slot(imageIndex uint32) Slot {
	return sc.slots[imageIndex]
}

func (sc *SwapChain) ColorFormat() vk.Format {
	return sc.surfaceFormat.Format
}

func (sc *SwapChain) DepthFormat() vk.Format {
	return sc.depthFormat
}

func (sc *SwapChain) PresentMode() vk.PresentModeKHR {
	return sc.presentMode
}

func (sc *SwapChain) AspectRatio() float32 {
	if sc.extent.Height == 0 {
		return 1
	}
	return float32(sc.extent.Width) / float32(sc.extent.Height)
}

const noTimeout = math.MaxUint64
