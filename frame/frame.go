// frame.go
package frame

import (
	"github.com/NOT-REAL-GAMES/vkframegen/framegen"
	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/NOT-REAL-GAMES/vkframegen/swapchain"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

// Clear colors for the three attachments, in render pass order.
var (
	ClearColor  = vk.ClearColor(0.42, 0.5, 0.68, 1)
	ClearMotion = vk.ClearColor(0, 0, 0, 0)
	ClearDepth  = vk.ClearDepthStencil(1, 0)
)

// Frame is handed to render systems between BeginFrame and EndFrame.
type Frame struct {
	Cmd        CommandBuffer
	FrameIndex int
	ImageIndex uint32
	Extent     vk.Extent2D
}

type Options struct {
	Device   Device
	Window   Window
	Commands CommandPool

	// NewChain builds the first chain and every replacement.
	NewChain ChainFactory

	// Optional. Without a bridge frames are presented without interpolation.
	Bridge *framegen.Bridge

	Logger log.Logger
}

// Orchestrator runs the per-frame protocol on the render thread.
type Orchestrator struct {
	device   Device
	window   Window
	commands CommandPool
	newChain ChainFactory
	bridge   *framegen.Bridge
	logger   log.Logger

	chain Chain
	cmds  []CommandBuffer

	state       State
	frame       *Frame
	imageIndex  uint32
	frameCount  uint32
	recreations int
	closed      bool
}

func New(opts Options) (*Orchestrator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New("frame")
	}

	o := &Orchestrator{
		device:   opts.Device,
		window:   opts.Window,
		commands: opts.Commands,
		newChain: opts.NewChain,
		bridge:   opts.Bridge,
		logger:   logger,
	}

	chain, err := o.newChain(nil, o.window.Extent())
	if err != nil {
		return nil, errors.Wrap(err, "frame: create swapchain")
	}
	o.chain = chain

	if err := o.allocateCommands(); err != nil {
		o.chain.Destroy()
		return nil, err
	}
	return o, nil
}

func (o *Orchestrator) allocateCommands() error {
	if len(o.cmds) > 0 {
		o.commands.Free(o.cmds)
		o.cmds = nil
	}

	cmds, err := o.commands.Allocate(o.chain.FramesInFlight())
	if err != nil {
		return errors.Wrap(err, "frame: allocate command buffers")
	}
	o.cmds = cmds
	return nil
}

func (o *Orchestrator) hooks() swapchain.PresentHooks {
	if o.bridge == nil {
		return nil
	}
	return o.bridge
}

// BeginFrame acquires the next image and opens the slot's command buffer.
// It returns nil without error when the chain went stale and was rebuilt;
// the caller skips that frame.
func (o *Orchestrator) BeginFrame() (*Frame, error) {
	if !o.state.resting() {
		panic(ErrFrameInProgress)
	}
	if o.closed {
		return nil, ErrClosed
	}

	o.state = Acquiring
	imageIndex, err := o.chain.AcquireNextImage()
	switch swapchain.Classify(err) {
	case swapchain.Ready, swapchain.Suboptimal:
	case swapchain.Stale:
		o.state = Stale
		if err := o.recreate(); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		o.state = Idle
		return nil, errors.Wrap(err, "frame: acquire swapchain image")
	}

	current := o.chain.CurrentFrame()
	cmd := o.cmds[current]

	if err := cmd.Reset(0); err != nil {
		o.state = Idle
		return nil, errors.Wrap(err, "frame: reset command buffer")
	}
	if err := cmd.Begin(&vk.CommandBufferBeginInfo{}); err != nil {
		o.state = Idle
		return nil, errors.Wrap(err, "frame: begin command buffer")
	}

	if o.bridge != nil {
		o.bridge.NewFrame(o.frameCount)
	}
	o.frameCount++

	o.imageIndex = imageIndex
	o.frame = &Frame{
		Cmd:        cmd,
		FrameIndex: current,
		ImageIndex: imageIndex,
		Extent:     o.chain.Extent(),
	}
	o.state = Recording
	return o.frame, nil
}

// BeginRenderPass clears and opens the chain's render pass for f and sets
// the dynamic viewport and scissor.
func (o *Orchestrator) BeginRenderPass(f *Frame) {
	extent := f.Extent
	slot := o.chain.Slot(f.ImageIndex)

	f.Cmd.BeginRenderPass(&vk.RenderPassBeginInfo{
		RenderPass:  o.chain.RenderPass(),
		Framebuffer: slot.Framebuffer,
		RenderArea:  vk.Rect2D{Extent: extent},
		ClearValues: []vk.ClearValue{ClearColor, ClearMotion, ClearDepth},
	}, vk.SUBPASS_CONTENTS_INLINE)

	f.Cmd.SetViewport(0, []vk.Viewport{{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	f.Cmd.SetScissor(0, []vk.Rect2D{{Extent: extent}})
}

func (o *Orchestrator) EndRenderPass(f *Frame) {
	f.Cmd.EndRenderPass()
}

// SetCommonConstants forwards the camera to the bridge for the frame being
// recorded. Render extent is the chain's, display extent the window's.
func (o *Orchestrator) SetCommonConstants(cam *framegen.Camera, near, far float32) {
	if o.bridge == nil {
		return
	}
	snap := cam.Snapshot(near, far)
	snap.RenderExtent = o.chain.Extent()
	snap.DisplayExtent = o.window.Extent()
	o.bridge.SetCommonConstants(snap)
}

// EndFrame closes the command buffer, submits and presents it. A stale or
// suboptimal chain, or a resized window, rebuilds the chain afterwards.
func (o *Orchestrator) EndFrame() error {
	if o.state != Recording {
		panic(ErrNoFrame)
	}
	f := o.frame
	o.frame = nil

	if o.bridge != nil {
		o.bridge.TagResources(f.Cmd.Handle(), o.resources(f))
	}

	if err := f.Cmd.End(); err != nil {
		o.state = Idle
		return errors.Wrap(err, "frame: end command buffer")
	}

	o.state = Submitted
	err := o.chain.Submit(f.Cmd, f.ImageIndex, o.hooks())

	status := swapchain.Classify(err)
	if status == swapchain.Fatal {
		o.state = Idle
		return errors.Wrap(err, "frame: present")
	}

	if status == swapchain.Stale || status == swapchain.Suboptimal || o.window.WasResized() {
		o.window.ResetResized()
		o.state = Stale
		return o.recreate()
	}

	o.state = Presented
	return nil
}

func (o *Orchestrator) resources(f *Frame) framegen.FrameResources {
	slot := o.chain.Slot(f.ImageIndex)
	extent := f.Extent

	return framegen.FrameResources{
		Depth: framegen.Resource{
			Image:  slot.Depth.Image,
			View:   slot.Depth.View,
			Memory: slot.Depth.Memory,
			Format: slot.Depth.Format,
			Extent: extent,
			Layout: vk.IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL,
			Usage:  vk.IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT,
		},
		MotionVectors: framegen.Resource{
			Image:  slot.Motion.Image,
			View:   slot.Motion.View,
			Memory: slot.Motion.Memory,
			Format: slot.Motion.Format,
			Extent: extent,
			Layout: vk.IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL,
			Usage:  vk.IMAGE_USAGE_COLOR_ATTACHMENT_BIT | vk.IMAGE_USAGE_SAMPLED_BIT,
		},
		Color: framegen.Resource{
			Image:  slot.Color.Image,
			View:   slot.Color.View,
			Format: slot.Color.Format,
			Extent: extent,
			Layout: vk.IMAGE_LAYOUT_PRESENT_SRC_KHR,
			Usage:  vk.IMAGE_USAGE_COLOR_ATTACHMENT_BIT | vk.IMAGE_USAGE_TRANSFER_DST_BIT,
		},
		Extent: extent,
	}
}

// recreate replaces the chain once the window has a drawable area again.
func (o *Orchestrator) recreate() error {
	extent := o.window.Extent()
	for extent.Width == 0 || extent.Height == 0 {
		o.window.WaitEvents()
		extent = o.window.Extent()
	}

	if err := o.device.WaitIdle(); err != nil {
		return errors.Wrap(err, "frame: wait for device idle")
	}

	next, err := o.newChain(o.chain, extent)
	if err != nil {
		return errors.Wrap(err, "frame: recreate swapchain")
	}

	if !next.CompatibleWith(o.chain) {
		next.Destroy()
		return errors.Wrapf(swapchain.ErrFormatChanged, "color %s to %s, depth %s to %s",
			o.chain.ColorFormat(), next.ColorFormat(), o.chain.DepthFormat(), next.DepthFormat())
	}

	old := o.chain
	o.chain = next
	old.Destroy()

	if next.FramesInFlight() != len(o.cmds) {
		if err := o.allocateCommands(); err != nil {
			return err
		}
	}

	o.recreations++
	if o.bridge != nil {
		o.bridge.TriggerReset(0)
	}

	o.logger.Infof("swapchain recreated at %dx%d", next.Extent().Width, next.Extent().Height)
	return nil
}

func (o *Orchestrator) CurrentFrame() int {
	return o.chain.CurrentFrame()
}

// CurrentImageIndex is the image acquired by the last BeginFrame.
func (o *Orchestrator) CurrentImageIndex() uint32 {
	return o.imageIndex
}

func (o *Orchestrator) AspectRatio() float32 {
	return o.chain.AspectRatio()
}

func (o *Orchestrator) RenderPass() vk.RenderPass {
	return o.chain.RenderPass()
}

func (o *Orchestrator) Extent() vk.Extent2D {
	return o.chain.Extent()
}

func (o *Orchestrator) Chain() Chain {
	return o.chain
}

func (o *Orchestrator) State() State {
	return o.state
}

// Recreations counts chain rebuilds since New.
func (o *Orchestrator) Recreations() int {
	return o.recreations
}

// Close waits for the GPU, ends the bridge session and releases the chain.
func (o *Orchestrator) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	var result error
	if err := o.device.WaitIdle(); err != nil {
		result = errors.Wrap(err, "frame: wait for device idle")
	}

	if o.bridge != nil {
		if err := o.bridge.Shutdown(); err != nil && result == nil {
			result = err
		}
	}

	o.commands.Free(o.cmds)
	o.cmds = nil
	o.chain.Destroy()
	o.state = Idle
	return result
}
