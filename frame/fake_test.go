// fake_test.go
package frame

import (
	"fmt"

	"github.com/NOT-REAL-GAMES/vkframegen/framegen"
	"github.com/NOT-REAL-GAMES/vkframegen/swapchain"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
)

type events struct {
	list []string
}

func (e *events) add(format string, args ...interface{}) {
	e.list = append(e.list, fmt.Sprintf(format, args...))
}

type fakeCmd struct {
	id         int
	begun      int
	ended      int
	resets     int
	renderPass *vk.RenderPassBeginInfo
	viewports  []vk.Viewport
	scissors   []vk.Rect2D
	passOpen   bool
	failEnd    error
}

func (c *fakeCmd) Handle() uintptr { return uintptr(0xC0 + c.id) }

func (c *fakeCmd) Begin(*vk.CommandBufferBeginInfo) error {
	c.begun++
	return nil
}

func (c *fakeCmd) End() error {
	c.ended++
	return c.failEnd
}

func (c *fakeCmd) Reset(uint32) error {
	c.resets++
	return nil
}

func (c *fakeCmd) BeginRenderPass(info *vk.RenderPassBeginInfo, _ vk.SubpassContents) {
	c.renderPass = info
	c.passOpen = true
}

func (c *fakeCmd) EndRenderPass() { c.passOpen = false }

func (c *fakeCmd) SetViewport(_ uint32, viewports []vk.Viewport) { c.viewports = viewports }

func (c *fakeCmd) SetScissor(_ uint32, scissors []vk.Rect2D) { c.scissors = scissors }

type fakePool struct {
	events    *events
	allocated []CommandBuffer
	next      int
}

func (p *fakePool) Allocate(count int) ([]CommandBuffer, error) {
	buffers := make([]CommandBuffer, count)
	for i := range buffers {
		buffers[i] = &fakeCmd{id: p.next}
		p.next++
	}
	p.allocated = buffers
	p.events.add("allocate:%d", count)
	return buffers, nil
}

func (p *fakePool) Free(buffers []CommandBuffer) {
	p.events.add("free:%d", len(buffers))
}

type fakeDevice struct {
	events *events
	idles  int
}

func (d *fakeDevice) WaitIdle() error {
	d.idles++
	d.events.add("wait-idle")
	return nil
}

type fakeWindow struct {
	extent vk.Extent2D

	// zeroPolls is how many Extent calls report a minimized window.
	zeroPolls int
	waits     int
	resized   bool
	resets    int
}

func (w *fakeWindow) Extent() vk.Extent2D {
	if w.zeroPolls > 0 {
		w.zeroPolls--
		return vk.Extent2D{}
	}
	return w.extent
}

func (w *fakeWindow) WaitEvents() { w.waits++ }

func (w *fakeWindow) WasResized() bool { return w.resized }

func (w *fakeWindow) ResetResized() {
	w.resized = false
	w.resets++
}

type fakeChain struct {
	id       int
	events   *events
	previous Chain

	extent      vk.Extent2D
	images      int
	depth       int
	current     int
	next        uint32
	colorFormat vk.Format
	depthFormat vk.Format

	acquireErrs []error
	presentErrs []error
	submitted   []uint32
	destroyed   bool
}

func (c *fakeChain) AcquireNextImage() (uint32, error) {
	var err error
	if len(c.acquireErrs) > 0 {
		err = c.acquireErrs[0]
		c.acquireErrs = c.acquireErrs[1:]
	}
	if err != nil && swapchain.Classify(err) != swapchain.Suboptimal {
		return 0, err
	}
	index := c.next
	c.next = (c.next + 1) % uint32(c.images)
	return index, err
}

func (c *fakeChain) Submit(cmd CommandBuffer, imageIndex uint32, hooks swapchain.PresentHooks) error {
	c.submitted = append(c.submitted, imageIndex)
	c.events.add("submit:%d:%d", c.id, imageIndex)

	var err error
	if len(c.presentErrs) > 0 {
		err = c.presentErrs[0]
		c.presentErrs = c.presentErrs[1:]
	}

	if hooks != nil {
		hooks.SubmitStart()
		hooks.SubmitEnd()
		hooks.PresentStart()
		status := swapchain.Classify(err)
		hooks.PresentEnd(status == swapchain.Ready || status == swapchain.Suboptimal)
	}

	c.current = (c.current + 1) % c.depth
	return err
}

func (c *fakeChain) Extent() vk.Extent2D { return c.extent }

func (c *fakeChain) FramesInFlight() int { return c.depth }

func (c *fakeChain) CurrentFrame() int { return c.current }

func (c *fakeChain) RenderPass() vk.RenderPass { return vk.RenderPass(0x500 + c.id) }

func (c *fakeChain) Slot(imageIndex uint32) swapchain.Slot {
	base := uint64(c.id*1000) + uint64(imageIndex)*10
	return swapchain.Slot{
		Color:       swapchain.Attachment{Image: vk.Image(base + 1), View: vk.ImageView(base + 2), Format: c.colorFormat},
		Depth:       swapchain.Attachment{Image: vk.Image(base + 3), View: vk.ImageView(base + 4), Memory: vk.DeviceMemory(base + 5), Format: c.depthFormat},
		Motion:      swapchain.Attachment{Image: vk.Image(base + 6), View: vk.ImageView(base + 7), Memory: vk.DeviceMemory(base + 8), Format: swapchain.MotionVectorFormat},
		Framebuffer: vk.Framebuffer(base + 9),
	}
}

func (c *fakeChain) ColorFormat() vk.Format { return c.colorFormat }

func (c *fakeChain) DepthFormat() vk.Format { return c.depthFormat }

func (c *fakeChain) AspectRatio() float32 {
	return float32(c.extent.Width) / float32(c.extent.Height)
}

func (c *fakeChain) CompatibleWith(old swapchain.Formats) bool {
	return c.colorFormat == old.ColorFormat() && c.depthFormat == old.DepthFormat()
}

func (c *fakeChain) Destroy() {
	c.destroyed = true
	c.events.add("destroy:%d", c.id)
}

// fakeFactory builds chains at the extent the orchestrator asks for.
type fakeFactory struct {
	events  *events
	chains  []*fakeChain
	extents []vk.Extent2D

	images      int
	depth       int
	colorFormat vk.Format
	depthFormat vk.Format
	err         error
}

func (f *fakeFactory) build(previous Chain, extent vk.Extent2D) (Chain, error) {
	f.extents = append(f.extents, extent)
	if f.err != nil {
		return nil, f.err
	}
	c := &fakeChain{
		id:          len(f.chains),
		events:      f.events,
		previous:    previous,
		extent:      extent,
		images:      f.images,
		depth:       f.depth,
		colorFormat: f.colorFormat,
		depthFormat: f.depthFormat,
	}
	f.chains = append(f.chains, c)
	f.events.add("create:%d", c.id)
	return c, nil
}

func (f *fakeFactory) last() *fakeChain {
	return f.chains[len(f.chains)-1]
}

type fakeAccelerator struct {
	events    *events
	tags      [][]framegen.ResourceTag
	constants []framegen.Constants
}

func (a *fakeAccelerator) Init(framegen.Preferences) error               { return nil }
func (a *fakeAccelerator) SetVulkanInfo(framegen.VulkanInfo) error       { return nil }
func (a *fakeAccelerator) IsFeatureSupported(framegen.Feature) error     { return nil }
func (a *fakeAccelerator) SetFeatureLoaded(framegen.Feature, bool) error { return nil }
func (a *fakeAccelerator) SetOptions(framegen.Options) error             { return nil }

func (a *fakeAccelerator) NewFrameToken(frameIndex uint32) (framegen.Token, error) {
	a.events.add("token:%d", frameIndex)
	return framegen.Token(frameIndex + 1), nil
}

func (a *fakeAccelerator) SetConstants(_ framegen.Token, consts framegen.Constants) error {
	a.constants = append(a.constants, consts)
	return nil
}

func (a *fakeAccelerator) SetTags(_ framegen.Token, cmd uintptr, tags []framegen.ResourceTag) error {
	a.events.add("tags:%#x", cmd)
	a.tags = append(a.tags, tags)
	return nil
}

func (a *fakeAccelerator) SetMarker(_ framegen.Token, marker framegen.Marker) error {
	a.events.add("marker:%s", marker)
	return nil
}

func (a *fakeAccelerator) GetState() (framegen.State, error) {
	return framegen.State{}, nil
}

func (a *fakeAccelerator) Shutdown() error {
	a.events.add("shutdown")
	return nil
}
