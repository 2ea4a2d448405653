// proc_test.go
package vk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func table(base uintptr, skip string) func(name string) uintptr {
	return func(name string) uintptr {
		if name == skip {
			return 0
		}
		return base + uintptr(len(name))
	}
}

func TestDirectCommandsResolvedByDriver(t *testing.T) {
	c := &deviceCommands{}
	c.resolve(table(0x1000, "vkQueuePresentKHR"), table(0x2000, ""))
	device := Device{handle: 1, cmds: c}

	direct := device.DirectSwapchainCommands()
	assert.Empty(t, direct.Missing())
	assert.Equal(t, uintptr(0x2000+len("vkQueuePresentKHR")), direct.QueuePresentKHR)
	assert.Equal(t, uintptr(0x2000+len("vkAcquireNextImageKHR")), direct.AcquireNextImageKHR)

	// non-presentation calls keep the bound resolver
	assert.Equal(t, uintptr(0x1000+len("vkQueueSubmit")), c.queueSubmit)

	interposed := ResolveSwapchainCommands(table(0x1000, "vkQueuePresentKHR"))
	assert.Equal(t, []string{"vkQueuePresentKHR"}, interposed.Missing())
	assert.NotEqual(t, interposed, direct)

	routed := device.WithSwapchainCommands(interposed).WithSwapchainCommands(device.DirectSwapchainCommands())
	assert.Equal(t, direct, routed.SwapchainCommands())
}

func TestMissingIsSorted(t *testing.T) {
	missing := ResolveSwapchainCommands(func(string) uintptr { return 0 }).Missing()
	assert.Equal(t, []string{
		"vkAcquireNextImageKHR",
		"vkCreateSwapchainKHR",
		"vkDestroySwapchainKHR",
		"vkGetDeviceQueue",
		"vkGetSwapchainImagesKHR",
		"vkQueuePresentKHR",
	}, missing)
}
