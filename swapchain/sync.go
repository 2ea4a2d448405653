// sync.go
package swapchain

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

// syncPool holds one image-available semaphore and in-flight fence per
// concurrency slot and one render-finished semaphore per chain image.
// imagesInFlight records the last fence submitted against each chain image.
type syncPool struct {
	imageAvailable []vk.Semaphore
	inFlight       []vk.Fence
	renderFinished []vk.Semaphore
	imagesInFlight []vk.Fence
}

// newSyncPool returns whatever it managed to create alongside any error so
// the caller can release it.
func newSyncPool(device Device, framesInFlight, imageCount int) (syncPool, error) {
	var pool syncPool

	for i := 0; i < framesInFlight; i++ {
		semaphore, err := device.CreateSemaphore(&vk.SemaphoreCreateInfo{})
		if err != nil {
			return pool, errors.Wrapf(err, "swapchain: create image-available semaphore %d", i)
		}
		pool.imageAvailable = append(pool.imageAvailable, semaphore)

		// Signaled so the first wait on each slot returns immediately.
		fence, err := device.CreateFence(&vk.FenceCreateInfo{Flags: vk.FENCE_CREATE_SIGNALED_BIT})
		if err != nil {
			return pool, errors.Wrapf(err, "swapchain: create in-flight fence %d", i)
		}
		pool.inFlight = append(pool.inFlight, fence)
	}

	for i := 0; i < imageCount; i++ {
		semaphore, err := device.CreateSemaphore(&vk.SemaphoreCreateInfo{})
		if err != nil {
			return pool, errors.Wrapf(err, "swapchain: create render-finished semaphore %d", i)
		}
		pool.renderFinished = append(pool.renderFinished, semaphore)
	}

	pool.imagesInFlight = make([]vk.Fence, imageCount)
	return pool, nil
}

func (p *syncPool) destroy(device Device) {
	for _, semaphore := range p.renderFinished {
		device.DestroySemaphore(semaphore)
	}
	for _, fence := range p.inFlight {
		device.DestroyFence(fence)
	}
	for _, semaphore := range p.imageAvailable {
		device.DestroySemaphore(semaphore)
	}
	*p = syncPool{}
}
