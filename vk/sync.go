// sync.go
package vk

import (
	"runtime"
	"unsafe"
)

type SemaphoreCreateInfo struct {
	Flags uint32
}

type FenceCreateInfo struct {
	Flags FenceCreateFlags
}

type vkSemaphoreCreateInfo struct {
	sType StructureType
	pNext unsafe.Pointer
	flags uint32
}

type vkFenceCreateInfo struct {
	sType StructureType
	pNext unsafe.Pointer
	flags FenceCreateFlags
}

// Semaphore
func (device Device) CreateSemaphore(createInfo *SemaphoreCreateInfo) (Semaphore, error) {
	cInfo := &vkSemaphoreCreateInfo{sType: SEMAPHORE_CREATE_INFO, flags: createInfo.Flags}

	var semaphore Semaphore
	result := call(device.cmds.createSemaphore, device.handle, uintptr(unsafe.Pointer(cInfo)), 0, uintptr(unsafe.Pointer(&semaphore)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return semaphore, nil
}

func (device Device) DestroySemaphore(semaphore Semaphore) {
	callVoid(device.cmds.destroySemaphore, device.handle, uintptr(semaphore), 0)
}

// Fence
func (device Device) CreateFence(createInfo *FenceCreateInfo) (Fence, error) {
	cInfo := &vkFenceCreateInfo{sType: FENCE_CREATE_INFO, flags: createInfo.Flags}

	var fence Fence
	result := call(device.cmds.createFence, device.handle, uintptr(unsafe.Pointer(cInfo)), 0, uintptr(unsafe.Pointer(&fence)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return fence, nil
}

func (device Device) DestroyFence(fence Fence) {
	callVoid(device.cmds.destroyFence, device.handle, uintptr(fence), 0)
}

func (device Device) WaitForFences(fences []Fence, waitAll bool, timeout uint64) error {
	if len(fences) == 0 {
		return nil
	}

	result := call(
		device.cmds.waitForFences,
		device.handle,
		uintptr(len(fences)),
		uintptr(unsafe.Pointer(&fences[0])),
		uintptr(vkBool(waitAll)),
		uintptr(timeout),
	)

	if result != SUCCESS && result != TIMEOUT {
		return result
	}

	return nil
}

func (device Device) ResetFences(fences []Fence) error {
	if len(fences) == 0 {
		return nil
	}

	result := call(device.cmds.resetFences, device.handle, uintptr(len(fences)), uintptr(unsafe.Pointer(&fences[0])))

	if result != SUCCESS {
		return result
	}

	return nil
}

// Queue Operations
type SubmitInfo struct {
	WaitSemaphores   []Semaphore
	WaitDstStageMask []PipelineStageFlags
	CommandBuffers   []CommandBuffer
	SignalSemaphores []Semaphore
}

type vkSubmitInfo struct {
	sType                StructureType
	pNext                unsafe.Pointer
	waitSemaphoreCount   uint32
	pWaitSemaphores      unsafe.Pointer
	pWaitDstStageMask    unsafe.Pointer
	commandBufferCount   uint32
	pCommandBuffers      unsafe.Pointer
	signalSemaphoreCount uint32
	pSignalSemaphores    unsafe.Pointer
}

type submitData struct {
	cSubmits []vkSubmitInfo
	cmdBufs  [][]uintptr
}

func vulkanizeSubmits(submits []SubmitInfo) *submitData {
	data := &submitData{
		cSubmits: make([]vkSubmitInfo, len(submits)),
		cmdBufs:  make([][]uintptr, len(submits)),
	}

	for i, submit := range submits {
		handles := make([]uintptr, len(submit.CommandBuffers))
		for j, cmd := range submit.CommandBuffers {
			handles[j] = cmd.handle
		}
		data.cmdBufs[i] = handles

		data.cSubmits[i] = vkSubmitInfo{
			sType:                SUBMIT_INFO,
			waitSemaphoreCount:   uint32(len(submit.WaitSemaphores)),
			pWaitSemaphores:      first(submit.WaitSemaphores),
			pWaitDstStageMask:    first(submit.WaitDstStageMask),
			commandBufferCount:   uint32(len(handles)),
			pCommandBuffers:      first(handles),
			signalSemaphoreCount: uint32(len(submit.SignalSemaphores)),
			pSignalSemaphores:    first(submit.SignalSemaphores),
		}
	}

	return data
}

func (queue Queue) Submit(submits []SubmitInfo, fence Fence) error {
	if len(submits) == 0 {
		return nil
	}

	data := vulkanizeSubmits(submits)
	defer runtime.KeepAlive(submits)
	defer runtime.KeepAlive(data)

	result := call(queue.cmds.queueSubmit, queue.handle, uintptr(len(data.cSubmits)), uintptr(unsafe.Pointer(&data.cSubmits[0])), uintptr(fence))

	if result != SUCCESS {
		return result
	}

	return nil
}
