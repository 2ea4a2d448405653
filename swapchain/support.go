// support.go
package swapchain

import (
	"fmt"
	"strings"

	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

// PresentPolicy selects between tearing and vsync presentation.
type PresentPolicy int

const (
	// LowLatency prefers IMMEDIATE, then MAILBOX, then FIFO.
	LowLatency PresentPolicy = iota
	// VSync always presents with FIFO.
	VSync
)

func (p PresentPolicy) String() string {
	switch p {
	case LowLatency:
		return "low-latency"
	case VSync:
		return "vsync"
	}
	return fmt.Sprintf("PresentPolicy(%d)", int(p))
}

// ParsePresentPolicy accepts the names produced by String.
func ParsePresentPolicy(name string) (PresentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "low-latency", "lowlatency", "immediate":
		return LowLatency, nil
	case "vsync", "fifo":
		return VSync, nil
	}
	return LowLatency, errors.Errorf("swapchain: unknown present mode %q", name)
}

// Support is what the surface reports for a physical device.
type Support struct {
	Capabilities vk.SurfaceCapabilitiesKHR
	Formats      []vk.SurfaceFormatKHR
	PresentModes []vk.PresentModeKHR
}

func QuerySupport(physicalDevice PhysicalDevice, surface vk.SurfaceKHR) (Support, error) {
	var support Support
	var err error

	support.Capabilities, err = physicalDevice.GetSurfaceCapabilitiesKHR(surface)
	if err != nil {
		return support, err
	}

	support.Formats, err = physicalDevice.GetSurfaceFormatsKHR(surface)
	if err != nil {
		return support, err
	}

	support.PresentModes, err = physicalDevice.GetSurfacePresentModesKHR(surface)
	if err != nil {
		return support, err
	}

	return support, nil
}

// ChooseSurfaceFormat prefers 8-bit UNORM color presented as sRGB. Frame
// generation needs normalized intermediate color.
func ChooseSurfaceFormat(available []vk.SurfaceFormatKHR) (vk.SurfaceFormatKHR, error) {
	if len(available) == 0 {
		return vk.SurfaceFormatKHR{}, ErrNoSurfaceFormats
	}

	for _, want := range []vk.Format{vk.FORMAT_B8G8R8A8_UNORM, vk.FORMAT_R8G8B8A8_UNORM} {
		for _, format := range available {
			if format.Format == want && format.ColorSpace == vk.COLOR_SPACE_SRGB_NONLINEAR_KHR {
				return format, nil
			}
		}
	}

	// Fallback to first available
	return available[0], nil
}

func ChoosePresentMode(available []vk.PresentModeKHR, policy PresentPolicy) vk.PresentModeKHR {
	if policy == LowLatency {
		for _, want := range []vk.PresentModeKHR{vk.PRESENT_MODE_IMMEDIATE_KHR, vk.PRESENT_MODE_MAILBOX_KHR} {
			for _, mode := range available {
				if mode == want {
					return mode
				}
			}
		}
	}

	// FIFO is always available and is vsync
	return vk.PRESENT_MODE_FIFO_KHR
}

// ChooseExtent uses the surface's current extent unless the surface leaves
// the choice to the application.
func ChooseExtent(capabilities vk.SurfaceCapabilitiesKHR, requested vk.Extent2D) vk.Extent2D {
	if capabilities.CurrentExtent.Width != 0xFFFFFFFF {
		return capabilities.CurrentExtent
	}

	return vk.Extent2D{
		Width:  clamp(requested.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(requested.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ChooseImageCount(capabilities vk.SurfaceCapabilitiesKHR) uint32 {
	// Request one more than minimum so acquire rarely blocks on the driver
	imageCount := capabilities.MinImageCount + 1

	// Don't exceed maximum (0 means no limit)
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}

	return imageCount
}

var depthCandidates = []vk.Format{
	vk.FORMAT_D32_SFLOAT,
	vk.FORMAT_D32_SFLOAT_S8_UINT,
	vk.FORMAT_D24_UNORM_S8_UINT,
}

// FindDepthFormat returns the first depth format usable as an optimal-tiling
// depth attachment.
func FindDepthFormat(physicalDevice PhysicalDevice) (vk.Format, error) {
	for _, format := range depthCandidates {
		props := physicalDevice.GetFormatProperties(format)
		if props.OptimalTilingFeatures&vk.FORMAT_FEATURE_DEPTH_STENCIL_ATTACHMENT_BIT != 0 {
			return format, nil
		}
	}
	return vk.FORMAT_UNDEFINED, ErrNoDepthFormat
}
