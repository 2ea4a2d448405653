// present.go
package swapchain

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

// Status classifies the outcome of an acquire or present.
type Status int

const (
	Ready Status = iota
	// The image was used; recreate after this frame.
	Suboptimal
	// The chain no longer matches the surface; recreate before the next frame.
	Stale
	Fatal
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Suboptimal:
		return "suboptimal"
	case Stale:
		return "stale"
	}
	return "fatal"
}

// Classify maps a driver result, possibly wrapped, to a Status.
func Classify(err error) Status {
	if err == nil {
		return Ready
	}

	var result vk.Result
	if !errors.As(err, &result) {
		return Fatal
	}

	switch result {
	case vk.SUCCESS:
		return Ready
	case vk.SUBOPTIMAL:
		return Suboptimal
	case vk.OUT_OF_DATE:
		return Stale
	}
	return Fatal
}

// PresentHooks are invoked around queue submission and presentation.
type PresentHooks interface {
	SubmitStart()
	SubmitEnd()
	PresentStart()
	PresentEnd(presented bool)
}

// AcquireNextImage waits for the current concurrency slot's fence and
// acquires the next chain image. SUBOPTIMAL is returned with a valid index.
func (sc *SwapChain) AcquireNextImage() (uint32, error) {
	if err := sc.device.WaitForFences(sc.sync.inFlight[sc.currentFrame:sc.currentFrame+1], true, noTimeout); err != nil {
		return 0, errors.Wrap(err, "swapchain: wait for in-flight fence")
	}

	imageIndex, err := sc.device.AcquireNextImageKHR(
		sc.handle,
		noTimeout,
		sc.sync.imageAvailable[sc.currentFrame],
		vk.NULL_HANDLE,
	)
	if err != nil && Classify(err) != Suboptimal {
		return 0, err
	}
	if int(imageIndex) >= len(sc.slots) {
		return 0, errors.Wrapf(ErrImageIndex, "acquired %d of %d", imageIndex, len(sc.slots))
	}
	return imageIndex, err
}

// Submit submits cmd for the acquired image and presents it. The concurrency
// cursor advances whether or not the present succeeded; the present result
// is returned unchanged for classification.
func (sc *SwapChain) Submit(cmd vk.CommandBuffer, imageIndex uint32, hooks PresentHooks) error {
	if int(imageIndex) >= len(sc.slots) {
		return errors.Wrapf(ErrImageIndex, "submit %d of %d", imageIndex, len(sc.slots))
	}

	frameFence := sc.sync.inFlight[sc.currentFrame]

	// A previous frame may still be rendering into this image.
	if last := sc.sync.imagesInFlight[imageIndex]; last != vk.NULL_HANDLE && last != frameFence {
		if err := sc.device.WaitForFences([]vk.Fence{last}, true, noTimeout); err != nil {
			return errors.Wrap(err, "swapchain: wait for image fence")
		}
	}
	sc.sync.imagesInFlight[imageIndex] = frameFence

	if err := sc.device.ResetFences([]vk.Fence{frameFence}); err != nil {
		return errors.Wrap(err, "swapchain: reset in-flight fence")
	}

	renderFinished := sc.sync.renderFinished[imageIndex]

	if hooks != nil {
		hooks.SubmitStart()
	}
	err := sc.queue.Submit([]vk.SubmitInfo{{
		WaitSemaphores:   []vk.Semaphore{sc.sync.imageAvailable[sc.currentFrame]},
		WaitDstStageMask: []vk.PipelineStageFlags{vk.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT},
		CommandBuffers:   []vk.CommandBuffer{cmd},
		SignalSemaphores: []vk.Semaphore{renderFinished},
	}}, frameFence)
	if err != nil {
		return errors.Wrap(err, "swapchain: submit draw command buffer")
	}
	if hooks != nil {
		hooks.SubmitEnd()
		hooks.PresentStart()
	}

	err = sc.presentQueue.PresentKHR(&vk.PresentInfoKHR{
		WaitSemaphores: []vk.Semaphore{renderFinished},
		Swapchains:     []vk.SwapchainKHR{sc.handle},
		ImageIndices:   []uint32{imageIndex},
	})

	if hooks != nil {
		status := Classify(err)
		hooks.PresentEnd(status == Ready || status == Suboptimal)
	}

	sc.currentFrame = (sc.currentFrame + 1) % sc.framesInFlight
	return err
}
