// gpu.go
package main

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

type gpu struct {
	instance vk.Instance
	surface  vk.SurfaceKHR
	physical vk.PhysicalDevice
	device   vk.Device
	family   uint32
	queue    vk.Queue
	pool     vk.CommandPool
}

func createInstance(title string, exts []string) (vk.Instance, error) {
	version, _ := vk.EnumerateInstanceVersion()
	logger.Infof("vulkan %d.%d.%d",
		vk.ApiVersionMajor(version),
		vk.ApiVersionMinor(version),
		vk.ApiVersionPatch(version))

	instance, err := vk.CreateInstance(&vk.InstanceCreateInfo{
		ApplicationInfo: &vk.ApplicationInfo{
			ApplicationName:    title,
			ApplicationVersion: vk.MakeApiVersion(0, 1, 0, 0),
			EngineName:         "vkframegen",
			EngineVersion:      vk.MakeApiVersion(0, 1, 0, 0),
			ApiVersion:         vk.ApiVersion_1_3,
		},
		EnabledExtensionNames: exts,
	})
	if err != nil {
		return vk.Instance{}, errors.Wrap(err, "create instance")
	}
	return instance, nil
}

// pickDevice returns the first physical device with a queue family that can
// both render and present to surface.
func pickDevice(instance vk.Instance, surface vk.SurfaceKHR) (vk.PhysicalDevice, uint32, error) {
	devices, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return vk.PhysicalDevice{}, 0, errors.Wrap(err, "enumerate physical devices")
	}

	for _, physical := range devices {
		for i, family := range physical.GetQueueFamilyProperties() {
			if family.QueueFlags&vk.QUEUE_GRAPHICS_BIT == 0 {
				continue
			}
			if supported, _ := physical.GetSurfaceSupportKHR(uint32(i), surface); supported {
				logger.Infof("using %s, queue family %d", physical.GetProperties().DeviceName, i)
				return physical, uint32(i), nil
			}
		}
	}
	return vk.PhysicalDevice{}, 0, errors.Errorf("no device among %d can render and present", len(devices))
}

func createDevice(physical vk.PhysicalDevice, family uint32) (vk.Device, error) {
	device, err := physical.CreateDevice(&vk.DeviceCreateInfo{
		QueueCreateInfos: []vk.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: family,
				QueuePriorities:  []float32{1.0},
			},
		},
		EnabledExtensionNames: []string{"VK_KHR_swapchain"},
	})
	if err != nil {
		return vk.Device{}, errors.Wrap(err, "create device")
	}
	return device, nil
}

func createCommandPool(device vk.Device, family uint32) (vk.CommandPool, error) {
	pool, err := device.CreateCommandPool(&vk.CommandPoolCreateInfo{
		Flags:            vk.COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT,
		QueueFamilyIndex: family,
	})
	if err != nil {
		return pool, errors.Wrap(err, "create command pool")
	}
	return pool, nil
}

func (g *gpu) destroy() {
	if g.device.Handle() != 0 {
		if g.pool != vk.NULL_HANDLE {
			g.device.DestroyCommandPool(g.pool)
		}
		g.device.Destroy()
	}
	if g.instance.RawHandle() != 0 {
		if g.surface != vk.NULL_HANDLE {
			g.instance.DestroySurfaceKHR(g.surface)
		}
		g.instance.Destroy()
	}
}
