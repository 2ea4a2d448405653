// command.go
package vk

import (
	"unsafe"
)

type CommandBuffer struct {
	handle uintptr
	cmds   *deviceCommands
}

type CommandPoolCreateInfo struct {
	Flags            CommandPoolCreateFlags
	QueueFamilyIndex uint32
}

type CommandBufferAllocateInfo struct {
	CommandPool        CommandPool
	Level              CommandBufferLevel
	CommandBufferCount uint32
}

type CommandBufferBeginInfo struct {
	Flags CommandBufferUsageFlags
}

type vkCommandPoolCreateInfo struct {
	sType            StructureType
	pNext            unsafe.Pointer
	flags            CommandPoolCreateFlags
	queueFamilyIndex uint32
}

type vkCommandBufferAllocateInfo struct {
	sType              StructureType
	pNext              unsafe.Pointer
	commandPool        CommandPool
	level              CommandBufferLevel
	commandBufferCount uint32
}

type vkCommandBufferBeginInfo struct {
	sType            StructureType
	pNext            unsafe.Pointer
	flags            CommandBufferUsageFlags
	pInheritanceInfo unsafe.Pointer
}

func (device Device) CreateCommandPool(createInfo *CommandPoolCreateInfo) (CommandPool, error) {
	cInfo := &vkCommandPoolCreateInfo{
		sType:            COMMAND_POOL_CREATE_INFO,
		flags:            createInfo.Flags,
		queueFamilyIndex: createInfo.QueueFamilyIndex,
	}

	var pool CommandPool
	result := call(device.cmds.createCommandPool, device.handle, uintptr(unsafe.Pointer(cInfo)), 0, uintptr(unsafe.Pointer(&pool)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return pool, nil
}

func (device Device) DestroyCommandPool(pool CommandPool) {
	callVoid(device.cmds.destroyCommandPool, device.handle, uintptr(pool), 0)
}

func (device Device) AllocateCommandBuffers(allocInfo *CommandBufferAllocateInfo) ([]CommandBuffer, error) {
	if allocInfo.CommandBufferCount == 0 {
		return nil, nil
	}

	cInfo := &vkCommandBufferAllocateInfo{
		sType:              COMMAND_BUFFER_ALLOCATE_INFO,
		commandPool:        allocInfo.CommandPool,
		level:              allocInfo.Level,
		commandBufferCount: allocInfo.CommandBufferCount,
	}

	handles := make([]uintptr, allocInfo.CommandBufferCount)
	result := call(device.cmds.allocateCommandBuffers, device.handle, uintptr(unsafe.Pointer(cInfo)), uintptr(unsafe.Pointer(&handles[0])))

	if result != SUCCESS {
		return nil, result
	}

	buffers := make([]CommandBuffer, len(handles))
	for i, handle := range handles {
		buffers[i] = CommandBuffer{handle: handle, cmds: device.cmds}
	}

	return buffers, nil
}

func (device Device) FreeCommandBuffers(pool CommandPool, buffers []CommandBuffer) {
	if len(buffers) == 0 {
		return
	}

	handles := make([]uintptr, len(buffers))
	for i, buf := range buffers {
		handles[i] = buf.handle
	}

	callVoid(device.cmds.freeCommandBuffers, device.handle, uintptr(pool), uintptr(len(handles)), uintptr(unsafe.Pointer(&handles[0])))
}

func (cmd CommandBuffer) Handle() uintptr {
	return cmd.handle
}

func (cmd CommandBuffer) Begin(beginInfo *CommandBufferBeginInfo) error {
	cInfo := &vkCommandBufferBeginInfo{
		sType: COMMAND_BUFFER_BEGIN_INFO,
		flags: beginInfo.Flags,
	}

	result := call(cmd.cmds.beginCommandBuffer, cmd.handle, uintptr(unsafe.Pointer(cInfo)))
	if result != SUCCESS {
		return result
	}
	return nil
}

func (cmd CommandBuffer) End() error {
	result := call(cmd.cmds.endCommandBuffer, cmd.handle)
	if result != SUCCESS {
		return result
	}
	return nil
}

func (cmd CommandBuffer) Reset(flags uint32) error {
	result := call(cmd.cmds.resetCommandBuffer, cmd.handle, uintptr(flags))
	if result != SUCCESS {
		return result
	}
	return nil
}

func (cmd CommandBuffer) SetViewport(firstViewport uint32, viewports []Viewport) {
	if len(viewports) == 0 {
		return
	}
	callVoid(cmd.cmds.cmdSetViewport, cmd.handle, uintptr(firstViewport), uintptr(len(viewports)), uintptr(unsafe.Pointer(&viewports[0])))
}

func (cmd CommandBuffer) SetScissor(firstScissor uint32, scissors []Rect2D) {
	if len(scissors) == 0 {
		return
	}
	callVoid(cmd.cmds.cmdSetScissor, cmd.handle, uintptr(firstScissor), uintptr(len(scissors)), uintptr(unsafe.Pointer(&scissors[0])))
}
