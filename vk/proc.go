// proc.go
package vk

import (
	"sort"
	"unsafe"
)

// SwapchainCommands is the set of presentation entry points that may be
// redirected through an interposing module.
type SwapchainCommands struct {
	CreateSwapchainKHR    uintptr
	DestroySwapchainKHR   uintptr
	GetSwapchainImagesKHR uintptr
	AcquireNextImageKHR   uintptr
	QueuePresentKHR       uintptr
	GetDeviceQueue        uintptr
}

var swapchainCommandNames = []string{
	"vkCreateSwapchainKHR",
	"vkDestroySwapchainKHR",
	"vkGetSwapchainImagesKHR",
	"vkAcquireNextImageKHR",
	"vkQueuePresentKHR",
	"vkGetDeviceQueue",
}

// SwapchainCommandNames lists the entry points a SwapchainCommands holds.
func SwapchainCommandNames() []string {
	return append([]string(nil), swapchainCommandNames...)
}

func (c *SwapchainCommands) slots() map[string]*uintptr {
	return map[string]*uintptr{
		"vkCreateSwapchainKHR":    &c.CreateSwapchainKHR,
		"vkDestroySwapchainKHR":   &c.DestroySwapchainKHR,
		"vkGetSwapchainImagesKHR": &c.GetSwapchainImagesKHR,
		"vkAcquireNextImageKHR":   &c.AcquireNextImageKHR,
		"vkQueuePresentKHR":       &c.QueuePresentKHR,
		"vkGetDeviceQueue":        &c.GetDeviceQueue,
	}
}

// ResolveSwapchainCommands fills a table using the given resolver.
func ResolveSwapchainCommands(resolve func(name string) uintptr) SwapchainCommands {
	var c SwapchainCommands
	for name, fn := range c.slots() {
		*fn = resolve(name)
	}
	return c
}

// Missing returns the names of unresolved entry points, sorted.
func (c SwapchainCommands) Missing() []string {
	var missing []string
	for name, fn := range c.slots() {
		if *fn == 0 {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

type deviceCommands struct {
	getDeviceProcAddr       uintptr
	driverGetDeviceProcAddr uintptr

	// Presentation entry points resolved by the driver, never by an
	// interposer the package may be bound to.
	direct SwapchainCommands

	destroyDevice              uintptr
	deviceWaitIdle             uintptr
	queueWaitIdle              uintptr
	queueSubmit                uintptr
	createImage                uintptr
	destroyImage               uintptr
	getImageMemoryRequirements uintptr
	allocateMemory             uintptr
	freeMemory                 uintptr
	bindImageMemory            uintptr
	createImageView            uintptr
	destroyImageView           uintptr
	createRenderPass           uintptr
	destroyRenderPass          uintptr
	createFramebuffer          uintptr
	destroyFramebuffer         uintptr
	createSemaphore            uintptr
	destroySemaphore           uintptr
	createFence                uintptr
	destroyFence               uintptr
	waitForFences              uintptr
	resetFences                uintptr
	createCommandPool          uintptr
	destroyCommandPool         uintptr
	allocateCommandBuffers     uintptr
	freeCommandBuffers         uintptr
	beginCommandBuffer         uintptr
	endCommandBuffer           uintptr
	resetCommandBuffer         uintptr
	cmdBeginRenderPass         uintptr
	cmdEndRenderPass           uintptr
	cmdSetViewport             uintptr
	cmdSetScissor              uintptr
}

func (c *deviceCommands) proc(device uintptr, name string) uintptr {
	cname := cstring(name)
	return callPtr(c.getDeviceProcAddr, device, uintptr(unsafe.Pointer(cname)))
}

func (c *deviceCommands) driverProc(device uintptr, name string) uintptr {
	if c.driverGetDeviceProcAddr == 0 {
		return c.proc(device, name)
	}
	cname := cstring(name)
	return callPtr(c.driverGetDeviceProcAddr, device, uintptr(unsafe.Pointer(cname)))
}

func (c *deviceCommands) load(device uintptr) {
	c.resolve(
		func(name string) uintptr { return c.proc(device, name) },
		func(name string) uintptr { return c.driverProc(device, name) },
	)
}

// resolve fills the table through proc and the direct presentation table
// through driver.
func (c *deviceCommands) resolve(proc, driver func(name string) uintptr) {
	for name, fn := range map[string]*uintptr{
		"vkDestroyDevice":              &c.destroyDevice,
		"vkDeviceWaitIdle":             &c.deviceWaitIdle,
		"vkQueueWaitIdle":              &c.queueWaitIdle,
		"vkQueueSubmit":                &c.queueSubmit,
		"vkCreateImage":                &c.createImage,
		"vkDestroyImage":               &c.destroyImage,
		"vkGetImageMemoryRequirements": &c.getImageMemoryRequirements,
		"vkAllocateMemory":             &c.allocateMemory,
		"vkFreeMemory":                 &c.freeMemory,
		"vkBindImageMemory":            &c.bindImageMemory,
		"vkCreateImageView":            &c.createImageView,
		"vkDestroyImageView":           &c.destroyImageView,
		"vkCreateRenderPass":           &c.createRenderPass,
		"vkDestroyRenderPass":          &c.destroyRenderPass,
		"vkCreateFramebuffer":          &c.createFramebuffer,
		"vkDestroyFramebuffer":         &c.destroyFramebuffer,
		"vkCreateSemaphore":            &c.createSemaphore,
		"vkDestroySemaphore":           &c.destroySemaphore,
		"vkCreateFence":                &c.createFence,
		"vkDestroyFence":               &c.destroyFence,
		"vkWaitForFences":              &c.waitForFences,
		"vkResetFences":                &c.resetFences,
		"vkCreateCommandPool":          &c.createCommandPool,
		"vkDestroyCommandPool":         &c.destroyCommandPool,
		"vkAllocateCommandBuffers":     &c.allocateCommandBuffers,
		"vkFreeCommandBuffers":         &c.freeCommandBuffers,
		"vkBeginCommandBuffer":         &c.beginCommandBuffer,
		"vkEndCommandBuffer":           &c.endCommandBuffer,
		"vkResetCommandBuffer":         &c.resetCommandBuffer,
		"vkCmdBeginRenderPass":         &c.cmdBeginRenderPass,
		"vkCmdEndRenderPass":           &c.cmdEndRenderPass,
		"vkCmdSetViewport":             &c.cmdSetViewport,
		"vkCmdSetScissor":              &c.cmdSetScissor,
	} {
		*fn = proc(name)
	}

	c.direct = ResolveSwapchainCommands(driver)
}

// DirectSwapchainCommands returns the driver's own presentation entry points.
func (device Device) DirectSwapchainCommands() SwapchainCommands {
	if device.cmds == nil {
		return SwapchainCommands{}
	}
	return device.cmds.direct
}

// SwapchainCommands returns the presentation entry points currently installed.
func (device Device) SwapchainCommands() SwapchainCommands {
	if device.swapchain == nil {
		return SwapchainCommands{}
	}
	return *device.swapchain
}

// WithSwapchainCommands returns a copy of the device whose presentation
// calls, and the queues it hands out, go through cmds.
func (device Device) WithSwapchainCommands(cmds SwapchainCommands) Device {
	routed := cmds
	device.swapchain = &routed
	return device
}

// ProcAddrFunc wraps a vkGetInstanceProcAddr or vkGetDeviceProcAddr
// pointer obtained outside the loader.
func ProcAddrFunc(addr uintptr) func(handle uintptr, name string) uintptr {
	return func(handle uintptr, name string) uintptr {
		cname := cstring(name)
		return callPtr(addr, handle, uintptr(unsafe.Pointer(cname)))
	}
}
