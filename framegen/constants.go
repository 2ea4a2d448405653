// constants.go
package framegen

import (
	"math"

	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot is the engine state the constants of one frame are built from.
// Previous matrices must be captured before the camera moves.
type Snapshot struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	PrevView       mgl32.Mat4
	PrevProjection mgl32.Mat4

	RenderExtent  vk.Extent2D
	DisplayExtent vk.Extent2D

	Near          float32
	Far           float32
	DepthInverted bool

	// Zero means motion vectors are already in normalized screen space.
	MotionVectorScale mgl32.Vec2
	Jitter            mgl32.Vec2
}

// ClipToPrevClip maps current clip space to the previous frame's clip space:
// prevProjection * prevView * inverse(view) * inverse(projection).
func ClipToPrevClip(s Snapshot) mgl32.Mat4 {
	return s.PrevProjection.Mul4(s.PrevView).Mul4(s.View.Inv()).Mul4(s.Projection.Inv())
}

// BuildConstants derives the accelerator constants for one frame.
func BuildConstants(s Snapshot, reset bool) Constants {
	viewToWorld := s.View.Inv()
	clipToPrevClip := ClipToPrevClip(s)

	scale := s.MotionVectorScale
	if scale == (mgl32.Vec2{}) {
		scale = mgl32.Vec2{1, 1}
	}

	fov, aspect := projectionParams(s.Projection)
	if s.RenderExtent.Width > 0 && s.RenderExtent.Height > 0 {
		aspect = float32(s.RenderExtent.Width) / float32(s.RenderExtent.Height)
	}

	return Constants{
		CameraViewToClip: s.Projection,
		ClipToCameraView: s.Projection.Inv(),
		ClipToPrevClip:   clipToPrevClip,
		PrevClipToClip:   clipToPrevClip.Inv(),

		JitterOffset:      s.Jitter,
		MotionVectorScale: scale,

		CameraPos:     viewToWorld.Col(3).Vec3(),
		CameraRight:   viewToWorld.Col(0).Vec3(),
		CameraUp:      viewToWorld.Col(1).Vec3(),
		CameraForward: viewToWorld.Col(2).Vec3().Mul(-1),

		CameraNear:        s.Near,
		CameraFar:         s.Far,
		CameraFOV:         fov,
		CameraAspectRatio: aspect,

		DepthInverted:        s.DepthInverted,
		CameraMotionIncluded: true,
		Reset:                reset,
	}
}

// projectionParams recovers vertical field of view and aspect ratio from a
// perspective matrix, ignoring the sign of a flipped Y axis.
func projectionParams(proj mgl32.Mat4) (fov, aspect float32) {
	sy := float32(math.Abs(float64(proj.At(1, 1))))
	sx := float32(math.Abs(float64(proj.At(0, 0))))
	if sy == 0 || sx == 0 {
		return 0, 0
	}
	return 2 * float32(math.Atan(float64(1/sy))), sy / sx
}

// vulkanClip converts OpenGL clip space to Vulkan's: Y down, depth 0..1.
var vulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Perspective returns a right-handed projection into Vulkan clip space.
// fovy is in radians.
func Perspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	return vulkanClip.Mul4(mgl32.Perspective(fovy, aspect, near, far))
}

// Camera keeps the current and previous view and projection.
type Camera struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	PrevView       mgl32.Mat4
	PrevProjection mgl32.Mat4

	primed bool
}

func NewCamera() *Camera {
	return &Camera{
		View:           mgl32.Ident4(),
		Projection:     mgl32.Ident4(),
		PrevView:       mgl32.Ident4(),
		PrevProjection: mgl32.Ident4(),
	}
}

// Advance moves the camera to a new frame. The outgoing matrices become the
// previous ones; on the first call previous equals current.
func (c *Camera) Advance(view, projection mgl32.Mat4) {
	if c.primed {
		c.PrevView, c.PrevProjection = c.View, c.Projection
	} else {
		c.PrevView, c.PrevProjection = view, projection
		c.primed = true
	}
	c.View, c.Projection = view, projection
}

// Reset drops history so the next Advance has no motion.
func (c *Camera) Reset() {
	c.primed = false
}

func (c *Camera) Snapshot(near, far float32) Snapshot {
	return Snapshot{
		View:           c.View,
		Projection:     c.Projection,
		PrevView:       c.PrevView,
		PrevProjection: c.PrevProjection,
		Near:           near,
		Far:            far,
	}
}
