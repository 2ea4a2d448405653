// errors.go
package swapchain

import "github.com/pkg/errors"

var (
	ErrNoSurfaceFormats = errors.New("swapchain: surface reports no formats")
	ErrNoPresentModes   = errors.New("swapchain: surface reports no present modes")
	ErrNoDepthFormat    = errors.New("swapchain: no supported depth format")
	ErrNoMemoryType     = errors.New("swapchain: no device-local memory type for attachment")
	ErrNoImages         = errors.New("swapchain: driver returned no images")
	ErrFormatChanged    = errors.New("swapchain: color or depth format changed across recreation")
	ErrImageIndex       = errors.New("swapchain: image index out of range")
)
