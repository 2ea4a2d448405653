// window.go
package main

import (
	sdl "github.com/NOT-REAL-GAMES/sdl3go"
	"github.com/NOT-REAL-GAMES/vkframegen/swapchain"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
)

type surfaceQuery interface {
	GetSurfaceCapabilitiesKHR(surface vk.SurfaceKHR) (vk.SurfaceCapabilitiesKHR, error)
}

// surfaceWindow reports the drawable size the surface advertises, which is
// zero while the window is minimized. Surfaces that leave the extent to the
// application get the window's pixel size.
type surfaceWindow struct {
	physical surfaceQuery
	surface  vk.SurfaceKHR
	size     func() vk.Extent2D

	last    vk.Extent2D
	resized bool
	quit    bool

	// pump handles pending window events; it returns false on quit.
	pump func() bool
}

func newSurfaceWindow(physical surfaceQuery, surface vk.SurfaceKHR, size func() vk.Extent2D) *surfaceWindow {
	w := &surfaceWindow{physical: physical, surface: surface, size: size, pump: pollEvents}
	w.last = w.Extent()
	return w
}

func (w *surfaceWindow) Extent() vk.Extent2D {
	caps, err := w.physical.GetSurfaceCapabilitiesKHR(w.surface)
	if err != nil {
		return w.last
	}
	if caps.CurrentExtent.Width != 0xFFFFFFFF {
		return caps.CurrentExtent
	}
	size := w.size()
	if size.Width == 0 || size.Height == 0 {
		return size
	}
	return swapchain.ChooseExtent(caps, size)
}

// pixelSize is the drawable size of window in pixels.
func pixelSize(window *sdl.Window) vk.Extent2D {
	width, height, err := window.GetSizeInPixels()
	if err != nil {
		logger.Debugf("window size: %v", err)
		return vk.Extent2D{}
	}
	return vk.Extent2D{Width: uint32(width), Height: uint32(height)}
}

// Poll drains events and notes a size change since the last poll.
func (w *surfaceWindow) Poll() bool {
	if !w.pump() {
		w.quit = true
	}
	extent := w.Extent()
	if extent != w.last {
		w.resized = true
		w.last = extent
	}
	return !w.quit
}

// WaitEvents blocks briefly while the window has no drawable area.
func (w *surfaceWindow) WaitEvents() {
	if !w.pump() {
		w.quit = true
	}
	sdl.Delay(5)
}

func (w *surfaceWindow) WasResized() bool { return w.resized }

func (w *surfaceWindow) ResetResized() { w.resized = false }

func pollEvents() bool {
	running := true
	for event, ok := sdl.PollEvent(); ok; event, ok = sdl.PollEvent() {
		switch event.Type {
		case sdl.EVENT_QUIT:
			running = false
		}
	}
	return running
}
