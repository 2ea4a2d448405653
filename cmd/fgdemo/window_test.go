// window_test.go
package main

import (
	"testing"

	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeSurface struct {
	extent vk.Extent2D
	err    error
}

func (s *fakeSurface) GetSurfaceCapabilitiesKHR(vk.SurfaceKHR) (vk.SurfaceCapabilitiesKHR, error) {
	return vk.SurfaceCapabilitiesKHR{
		CurrentExtent:  s.extent,
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}, s.err
}

func newTestWindow(surface *fakeSurface) *surfaceWindow {
	return newSizedWindow(surface, &vk.Extent2D{Width: 1280, Height: 720})
}

func newSizedWindow(surface *fakeSurface, size *vk.Extent2D) *surfaceWindow {
	w := newSurfaceWindow(surface, 1, func() vk.Extent2D { return *size })
	w.pump = func() bool { return true }
	return w
}

func TestSurfaceWindowExtent(t *testing.T) {
	surface := &fakeSurface{extent: vk.Extent2D{Width: 800, Height: 600}}
	w := newTestWindow(surface)
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, w.Extent())

	// the surface leaves the size to the application
	surface.extent = vk.Extent2D{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF}
	assert.Equal(t, vk.Extent2D{Width: 1280, Height: 720}, w.Extent())

	surface.extent = vk.Extent2D{}
	assert.Equal(t, vk.Extent2D{}, w.Extent())
}

func TestSurfaceWindowQueryFailureKeepsLastExtent(t *testing.T) {
	surface := &fakeSurface{extent: vk.Extent2D{Width: 800, Height: 600}}
	w := newTestWindow(surface)

	surface.err = errors.New("surface lost")
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, w.Extent())
}

func TestSurfaceWindowDetectsResize(t *testing.T) {
	surface := &fakeSurface{extent: vk.Extent2D{Width: 800, Height: 600}}
	w := newTestWindow(surface)

	assert.True(t, w.Poll())
	assert.False(t, w.WasResized())

	surface.extent = vk.Extent2D{Width: 1024, Height: 768}
	assert.True(t, w.Poll())
	assert.True(t, w.WasResized())

	// stays raised until the orchestrator consumes it
	assert.True(t, w.Poll())
	assert.True(t, w.WasResized())

	w.ResetResized()
	assert.False(t, w.WasResized())
}

func TestSurfaceWindowQuit(t *testing.T) {
	w := newTestWindow(&fakeSurface{extent: vk.Extent2D{Width: 800, Height: 600}})
	w.pump = func() bool { return false }

	assert.False(t, w.Poll())

	// quit is sticky
	w.pump = func() bool { return true }
	assert.False(t, w.Poll())
}

func TestSurfaceWindowFollowsWindowSizeOnSentinelSurface(t *testing.T) {
	surface := &fakeSurface{extent: vk.Extent2D{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF}}
	size := vk.Extent2D{Width: 800, Height: 600}
	w := newSizedWindow(surface, &size)
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, w.Extent())

	size = vk.Extent2D{Width: 1024, Height: 768}
	assert.True(t, w.Poll())
	assert.True(t, w.WasResized())
	assert.Equal(t, vk.Extent2D{Width: 1024, Height: 768}, w.Extent())

	// clamped to the surface limits
	size = vk.Extent2D{Width: 8000, Height: 600}
	assert.Equal(t, vk.Extent2D{Width: 4096, Height: 600}, w.Extent())

	// minimized
	size = vk.Extent2D{}
	assert.Equal(t, vk.Extent2D{}, w.Extent())
}
