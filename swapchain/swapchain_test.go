// swapchain_test.go
package swapchain

import (
	"fmt"
	"testing"

	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	device   *fakeDevice
	physical *fakePhysicalDevice
	queue    *fakeQueue
}

func newFixture(minImages, maxImages uint32) *fixture {
	images := int(ChooseImageCount(vk.SurfaceCapabilitiesKHR{MinImageCount: minImages, MaxImageCount: maxImages}))
	return &fixture{
		device:   newFakeDevice(images),
		physical: newFakePhysicalDevice(minImages, maxImages),
		queue:    &fakeQueue{},
	}
}

func (f *fixture) options(depth int) Options {
	return Options{
		Device:         f.device,
		PhysicalDevice: f.physical,
		GraphicsQueue:  f.queue,
		Surface:        vk.SurfaceKHR(1),
		Extent:         vk.Extent2D{Width: 800, Height: 600},
		FramesInFlight: depth,
	}
}

func TestScenario800x600Depth3(t *testing.T) {
	f := newFixture(2, 0)

	sc, err := New(f.options(3))
	require.NoError(t, err)
	defer sc.Destroy()

	assert.Equal(t, 3, sc.ImageCount())
	assert.Equal(t, 3, sc.FramesInFlight())
	assert.Len(t, sc.sync.renderFinished, 3)
	assert.Len(t, sc.sync.imageAvailable, 3)
	assert.Len(t, sc.sync.inFlight, 3)
	assert.Equal(t, 6, f.device.count("semaphore"))
	assert.Equal(t, 3, f.device.count("fence"))
	assert.Equal(t, 3, f.device.count("framebuffer"))
	assert.Equal(t, 1, f.device.count("renderpass"))

	// color, depth and motion vector view per slot
	assert.Equal(t, 9, f.device.count("view"))
	assert.Equal(t, 6, f.device.count("image"))
	assert.Equal(t, 6, f.device.count("memory"))

	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, sc.Extent())
	assert.Equal(t, uint32(3), f.device.lastCreate.MinImageCount)
	assert.InDelta(t, 800.0/600.0, sc.AspectRatio(), 1e-6)
}

func TestImageAndSyncCounts(t *testing.T) {
	for _, tc := range []struct {
		min, max uint32
		depth    int
		images   int
		frames   int
	}{
		{min: 2, max: 0, depth: 2, images: 3, frames: 2},
		{min: 2, max: 3, depth: 3, images: 3, frames: 3},
		{min: 3, max: 3, depth: 2, images: 3, frames: 2},
		{min: 1, max: 2, depth: 3, images: 2, frames: 2},
		{min: 4, max: 0, depth: 1, images: 5, frames: 1},
		{min: 2, max: 0, depth: 0, images: 3, frames: DefaultFramesInFlight},
	} {
		t.Run(fmt.Sprintf("min%d-max%d-depth%d", tc.min, tc.max, tc.depth), func(t *testing.T) {
			f := newFixture(tc.min, tc.max)
			sc, err := New(f.options(tc.depth))
			require.NoError(t, err)
			defer sc.Destroy()

			assert.Equal(t, tc.images, sc.ImageCount())
			assert.Equal(t, tc.frames, sc.FramesInFlight())
			assert.Len(t, sc.sync.renderFinished, sc.ImageCount())
			assert.Len(t, sc.sync.imageAvailable, sc.FramesInFlight())
			assert.Len(t, sc.sync.inFlight, sc.FramesInFlight())
		})
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	f := newFixture(2, 0)
	sc, err := New(f.options(2))
	require.NoError(t, err)

	sc.Destroy()
	assert.Zero(t, f.device.total())

	// A second destroy is harmless.
	sc.Destroy()
	assert.Zero(t, f.device.total())
}

func TestPartialFailureReleasesCreatedObjects(t *testing.T) {
	for _, tc := range []struct {
		kind string
		nth  int
	}{
		{"swapchain", 1},
		{"view", 1},
		{"image", 1},
		{"memory", 1},
		{"bind", 2},
		{"view", 3},
		{"image", 4},
		{"renderpass", 1},
		{"framebuffer", 2},
		{"semaphore", 1},
		{"fence", 2},
		{"semaphore", 4},
	} {
		t.Run(fmt.Sprintf("%s-%d", tc.kind, tc.nth), func(t *testing.T) {
			f := newFixture(2, 0)
			f.device.failOn[tc.kind] = tc.nth

			sc, err := New(f.options(2))
			require.Error(t, err)
			assert.Nil(t, sc)
			assert.Equal(t, vk.OUT_OF_DEVICE_MEMORY, errors.Cause(err))
			assert.Equal(t, Fatal, Classify(err))
			assert.Zero(t, f.device.total(), "leaked objects: %v", f.device.live)
		})
	}
}

func TestNoSurfaceFormats(t *testing.T) {
	f := newFixture(2, 0)
	f.physical.formats = nil

	_, err := New(f.options(2))
	assert.ErrorIs(t, err, ErrNoSurfaceFormats)
	assert.Zero(t, f.device.total())
}

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vk.COLOR_SPACE_SRGB_NONLINEAR_KHR

	got, err := ChooseSurfaceFormat([]vk.SurfaceFormatKHR{
		{Format: vk.FORMAT_R8G8B8A8_UNORM, ColorSpace: srgb},
		{Format: vk.FORMAT_B8G8R8A8_UNORM, ColorSpace: srgb},
	})
	require.NoError(t, err)
	assert.Equal(t, vk.FORMAT_B8G8R8A8_UNORM, got.Format)

	got, err = ChooseSurfaceFormat([]vk.SurfaceFormatKHR{
		{Format: vk.FORMAT_B8G8R8A8_SRGB, ColorSpace: srgb},
		{Format: vk.FORMAT_R8G8B8A8_UNORM, ColorSpace: srgb},
	})
	require.NoError(t, err)
	assert.Equal(t, vk.FORMAT_R8G8B8A8_UNORM, got.Format)

	got, err = ChooseSurfaceFormat([]vk.SurfaceFormatKHR{
		{Format: vk.FORMAT_A2B10G10R10_UNORM_PACK32, ColorSpace: srgb},
	})
	require.NoError(t, err)
	assert.Equal(t, vk.FORMAT_A2B10G10R10_UNORM_PACK32, got.Format)

	_, err = ChooseSurfaceFormat(nil)
	assert.ErrorIs(t, err, ErrNoSurfaceFormats)
}

func TestChoosePresentMode(t *testing.T) {
	all := []vk.PresentModeKHR{vk.PRESENT_MODE_FIFO_KHR, vk.PRESENT_MODE_MAILBOX_KHR, vk.PRESENT_MODE_IMMEDIATE_KHR}
	noImmediate := []vk.PresentModeKHR{vk.PRESENT_MODE_FIFO_KHR, vk.PRESENT_MODE_MAILBOX_KHR}
	fifo := []vk.PresentModeKHR{vk.PRESENT_MODE_FIFO_KHR}

	assert.Equal(t, vk.PRESENT_MODE_IMMEDIATE_KHR, ChoosePresentMode(all, LowLatency))
	assert.Equal(t, vk.PRESENT_MODE_MAILBOX_KHR, ChoosePresentMode(noImmediate, LowLatency))
	assert.Equal(t, vk.PRESENT_MODE_FIFO_KHR, ChoosePresentMode(fifo, LowLatency))
	assert.Equal(t, vk.PRESENT_MODE_FIFO_KHR, ChoosePresentMode(all, VSync))
}

func TestParsePresentPolicy(t *testing.T) {
	p, err := ParsePresentPolicy("vsync")
	require.NoError(t, err)
	assert.Equal(t, VSync, p)

	p, err = ParsePresentPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LowLatency, p)
	assert.Equal(t, "low-latency", p.String())

	_, err = ParsePresentPolicy("adaptive")
	assert.Error(t, err)
}

func TestChooseExtent(t *testing.T) {
	caps := vk.SurfaceCapabilitiesKHR{
		CurrentExtent:  vk.Extent2D{Width: 1024, Height: 768},
		MinImageExtent: vk.Extent2D{Width: 64, Height: 64},
		MaxImageExtent: vk.Extent2D{Width: 2048, Height: 2048},
	}
	assert.Equal(t, vk.Extent2D{Width: 1024, Height: 768}, ChooseExtent(caps, vk.Extent2D{Width: 1, Height: 1}))

	caps.CurrentExtent = vk.Extent2D{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, ChooseExtent(caps, vk.Extent2D{Width: 800, Height: 600}))
	assert.Equal(t, vk.Extent2D{Width: 64, Height: 2048}, ChooseExtent(caps, vk.Extent2D{Width: 10, Height: 9000}))
}

func TestChooseImageCount(t *testing.T) {
	assert.Equal(t, uint32(3), ChooseImageCount(vk.SurfaceCapabilitiesKHR{MinImageCount: 2}))
	assert.Equal(t, uint32(2), ChooseImageCount(vk.SurfaceCapabilitiesKHR{MinImageCount: 2, MaxImageCount: 2}))
	assert.Equal(t, uint32(4), ChooseImageCount(vk.SurfaceCapabilitiesKHR{MinImageCount: 3, MaxImageCount: 8}))
}

func TestFindDepthFormat(t *testing.T) {
	p := newFakePhysicalDevice(2, 0)

	p.depthFormats = map[vk.Format]bool{vk.FORMAT_D24_UNORM_S8_UINT: true, vk.FORMAT_D32_SFLOAT_S8_UINT: true}
	format, err := FindDepthFormat(p)
	require.NoError(t, err)
	assert.Equal(t, vk.FORMAT_D32_SFLOAT_S8_UINT, format)

	p.depthFormats = nil
	_, err = FindDepthFormat(p)
	assert.ErrorIs(t, err, ErrNoDepthFormat)
}

func TestSharingModeFollowsQueueFamilies(t *testing.T) {
	f := newFixture(2, 0)
	opts := f.options(2)
	opts.GraphicsFamily, opts.PresentFamily = 0, 1

	sc, err := New(opts)
	require.NoError(t, err)
	defer sc.Destroy()

	assert.Equal(t, vk.SHARING_MODE_CONCURRENT, f.device.lastCreate.ImageSharingMode)
	assert.Equal(t, []uint32{0, 1}, f.device.lastCreate.QueueFamilyIndices)
}

func TestRecreationPassesPreviousChain(t *testing.T) {
	f := newFixture(2, 0)

	old, err := New(f.options(2))
	require.NoError(t, err)

	opts := f.options(2)
	opts.Previous = old
	next, err := New(opts)
	require.NoError(t, err)

	assert.Equal(t, old.Handle(), f.device.lastCreate.OldSwapchain)
	assert.True(t, next.CompatibleWith(old))

	old.Destroy()
	next.Destroy()
	assert.Zero(t, f.device.total())
}

func TestCompatibleWithDetectsFormatChange(t *testing.T) {
	f := newFixture(2, 0)
	old, err := New(f.options(2))
	require.NoError(t, err)
	defer old.Destroy()

	f.physical.depthFormats = map[vk.Format]bool{vk.FORMAT_D24_UNORM_S8_UINT: true}
	next, err := New(f.options(2))
	require.NoError(t, err)
	defer next.Destroy()

	assert.False(t, next.CompatibleWith(old))
}

func TestCursorCyclesThroughSlots(t *testing.T) {
	f := newFixture(2, 0)
	sc, err := New(f.options(2))
	require.NoError(t, err)
	defer sc.Destroy()

	touched := map[uint32]bool{}
	for i := 0; i < sc.ImageCount(); i++ {
		index, err := sc.AcquireNextImage()
		require.NoError(t, err)
		require.NoError(t, sc.Submit(vk.CommandBuffer{}, index, nil))
		touched[index] = true

		if i+1 == sc.FramesInFlight() {
			assert.Equal(t, 0, sc.CurrentFrame(), "cursor returns after depth frames")
		}
	}

	assert.Len(t, touched, sc.ImageCount())
	assert.Equal(t, []uint32{0, 1, 2}, f.queue.presents)
}

func TestSubmitSynchronization(t *testing.T) {
	f := newFixture(2, 0)
	sc, err := New(f.options(2))
	require.NoError(t, err)
	defer sc.Destroy()

	hooks := &recordingHooks{}

	// frame 0 renders image 1 using fence 0
	require.NoError(t, sc.Submit(vk.CommandBuffer{}, 1, hooks))
	assert.Equal(t, sc.sync.inFlight[0], f.queue.fences[0])
	assert.Equal(t, []vk.Semaphore{sc.sync.renderFinished[1]}, f.queue.submits[0][0].SignalSemaphores)
	assert.Equal(t, []vk.Semaphore{sc.sync.imageAvailable[0]}, f.queue.submits[0][0].WaitSemaphores)
	assert.Empty(t, f.device.waited)

	// frame 1 renders image 1 again and must wait on fence 0
	require.NoError(t, sc.Submit(vk.CommandBuffer{}, 1, hooks))
	require.Len(t, f.device.waited, 1)
	assert.Equal(t, []vk.Fence{sc.sync.inFlight[0]}, f.device.waited[0])
	assert.Equal(t, []vk.Fence{sc.sync.inFlight[1]}, f.device.reset[1])

	assert.Equal(t, []string{
		"submit-start", "submit-end", "present-start", "present-end",
		"submit-start", "submit-end", "present-start", "present-end",
	}, hooks.calls)
}

func TestSubmitReportsPresentResult(t *testing.T) {
	f := newFixture(2, 0)
	f.queue.presentFn = func(n int) error {
		switch n {
		case 1:
			return vk.SUBOPTIMAL
		case 2:
			return vk.OUT_OF_DATE
		}
		return nil
	}
	sc, err := New(f.options(2))
	require.NoError(t, err)
	defer sc.Destroy()

	hooks := &recordingHooks{}
	err = sc.Submit(vk.CommandBuffer{}, 0, hooks)
	assert.Equal(t, Suboptimal, Classify(err))
	err = sc.Submit(vk.CommandBuffer{}, 1, hooks)
	assert.Equal(t, Stale, Classify(err))

	assert.Equal(t, "present-end", hooks.calls[3])
	assert.Equal(t, "present-failed", hooks.calls[7])
	assert.Equal(t, 0, sc.CurrentFrame(), "cursor advances even when present fails")
}

func TestAcquireClassification(t *testing.T) {
	f := newFixture(2, 0)
	sc, err := New(f.options(2))
	require.NoError(t, err)
	defer sc.Destroy()

	f.device.acquireQueue = []acquireResult{
		{index: 2, err: vk.SUBOPTIMAL},
		{err: vk.OUT_OF_DATE},
		{err: vk.DEVICE_LOST},
		{index: 7},
	}

	index, err := sc.AcquireNextImage()
	assert.Equal(t, uint32(2), index)
	assert.Equal(t, Suboptimal, Classify(err))

	_, err = sc.AcquireNextImage()
	assert.Equal(t, Stale, Classify(err))

	_, err = sc.AcquireNextImage()
	assert.Equal(t, Fatal, Classify(err))

	_, err = sc.AcquireNextImage()
	assert.ErrorIs(t, err, ErrImageIndex)

	assert.Len(t, f.device.waited, 4, "every acquire waits on the slot fence")
	assert.Equal(t, []vk.Fence{sc.sync.inFlight[0]}, f.device.waited[0])
}

func TestSubmitRejectsBadIndex(t *testing.T) {
	f := newFixture(2, 0)
	sc, err := New(f.options(2))
	require.NoError(t, err)
	defer sc.Destroy()

	assert.ErrorIs(t, sc.Submit(vk.CommandBuffer{}, 9, nil), ErrImageIndex)
	assert.Empty(t, f.queue.submits)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Ready, Classify(nil))
	assert.Equal(t, Suboptimal, Classify(vk.SUBOPTIMAL))
	assert.Equal(t, Stale, Classify(errors.Wrap(vk.OUT_OF_DATE, "present")))
	assert.Equal(t, Fatal, Classify(vk.SURFACE_LOST))
	assert.Equal(t, Fatal, Classify(errors.New("other")))
	assert.Equal(t, "stale", Stale.String())
}
