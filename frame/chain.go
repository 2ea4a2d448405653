// chain.go
package frame

import (
	"github.com/NOT-REAL-GAMES/vkframegen/swapchain"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
)

// CommandBuffer is the recording surface of one concurrency slot.
type CommandBuffer interface {
	Handle() uintptr
	Begin(beginInfo *vk.CommandBufferBeginInfo) error
	End() error
	Reset(flags uint32) error
	BeginRenderPass(beginInfo *vk.RenderPassBeginInfo, contents vk.SubpassContents)
	EndRenderPass()
	SetViewport(firstViewport uint32, viewports []vk.Viewport)
	SetScissor(firstScissor uint32, scissors []vk.Rect2D)
}

// Chain is the presentable image chain the orchestrator drives.
type Chain interface {
	AcquireNextImage() (uint32, error)
	Submit(cmd CommandBuffer, imageIndex uint32, hooks swapchain.PresentHooks) error

	Extent() vk.Extent2D
	FramesInFlight() int
	CurrentFrame() int
	RenderPass() vk.RenderPass
	Slot(imageIndex uint32) swapchain.Slot
	ColorFormat() vk.Format
	DepthFormat() vk.Format
	AspectRatio() float32

	// CompatibleWith reports whether old's render passes and attachments
	// can be used with this chain's images.
	CompatibleWith(old swapchain.Formats) bool

	Destroy()
}

// ChainFactory builds a chain at extent, the window's drawable size.
// previous is nil for the first one.
type ChainFactory func(previous Chain, extent vk.Extent2D) (Chain, error)

type Window interface {
	Extent() vk.Extent2D
	WaitEvents()
	WasResized() bool
	ResetResized()
}

type Device interface {
	WaitIdle() error
}

// CommandPool hands out one command buffer per concurrency slot.
type CommandPool interface {
	Allocate(count int) ([]CommandBuffer, error)
	Free(buffers []CommandBuffer)
}

type swapChain struct {
	*swapchain.SwapChain
}

// SwapChain adapts a chain built by the swapchain package.
func SwapChain(sc *swapchain.SwapChain) Chain {
	return swapChain{sc}
}

// Submit only accepts command buffers allocated by a vk.Device.
func (c swapChain) Submit(cmd CommandBuffer, imageIndex uint32, hooks swapchain.PresentHooks) error {
	return c.SwapChain.Submit(cmd.(vk.CommandBuffer), imageIndex, hooks)
}

// SwapChainFactory creates chains from opts at the requested extent,
// passing the retired chain as the previous one.
func SwapChainFactory(opts swapchain.Options) ChainFactory {
	return func(previous Chain, extent vk.Extent2D) (Chain, error) {
		o := opts
		o.Extent = extent
		if prev, ok := previous.(swapChain); ok {
			o.Previous = prev.SwapChain
		}
		sc, err := swapchain.New(o)
		if err != nil {
			return nil, err
		}
		return SwapChain(sc), nil
	}
}

type commandPool struct {
	device vk.Device
	pool   vk.CommandPool
}

// NewCommandPool allocates primary buffers from pool. The pool must allow
// resetting individual buffers.
func NewCommandPool(device vk.Device, pool vk.CommandPool) CommandPool {
	return &commandPool{device: device, pool: pool}
}

func (p *commandPool) Allocate(count int) ([]CommandBuffer, error) {
	raw, err := p.device.AllocateCommandBuffers(&vk.CommandBufferAllocateInfo{
		CommandPool:        p.pool,
		Level:              vk.COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: uint32(count),
	})
	if err != nil {
		return nil, err
	}

	buffers := make([]CommandBuffer, len(raw))
	for i := range raw {
		buffers[i] = raw[i]
	}
	return buffers, nil
}

func (p *commandPool) Free(buffers []CommandBuffer) {
	raw := make([]vk.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		if cmd, ok := b.(vk.CommandBuffer); ok {
			raw = append(raw, cmd)
		}
	}
	p.device.FreeCommandBuffers(p.pool, raw)
}
