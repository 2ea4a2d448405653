// accelerator.go
package framegen

import (
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/go-gl/mathgl/mgl32"
)

// Feature identifiers share their values with the Streamline SDK.
type Feature uint32

const (
	FeatureReflex Feature = 3
	FeaturePCL    Feature = 4
	FeatureDLSSG  Feature = 1000
)

// Mode is the DLSS-G operating mode.
type Mode uint32

const (
	ModeOff Mode = iota
	ModeOn
	ModeAuto
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOn:
		return "on"
	case ModeAuto:
		return "auto"
	}
	return "unknown"
}

// Marker is a latency marker.
type Marker uint32

const (
	SimulationStart Marker = iota
	SimulationEnd
	RenderSubmitStart
	RenderSubmitEnd
	PresentStart
	PresentEnd
)

func (m Marker) String() string {
	switch m {
	case SimulationStart:
		return "simulation-start"
	case SimulationEnd:
		return "simulation-end"
	case RenderSubmitStart:
		return "render-submit-start"
	case RenderSubmitEnd:
		return "render-submit-end"
	case PresentStart:
		return "present-start"
	case PresentEnd:
		return "present-end"
	}
	return "unknown"
}

// Token is the accelerator's opaque per-frame identifier.
type Token uintptr

type Preferences struct {
	ShowConsole   bool
	EngineVersion string
	ProjectID     string
	Features      []Feature
}

type VulkanInfo struct {
	Instance       uintptr
	PhysicalDevice uintptr
	Device         uintptr

	GraphicsQueueFamily    uint32
	GraphicsQueueIndex     uint32
	ComputeQueueFamily     uint32
	ComputeQueueIndex      uint32
	OpticalFlowQueueFamily uint32
	OpticalFlowQueueIndex  uint32
	UseNativeOpticalFlow   bool
}

type Options struct {
	Mode             Mode
	FramesToGenerate uint32
}

// Constants are the per-frame camera constants. Matrices are column-major.
type Constants struct {
	CameraViewToClip mgl32.Mat4
	ClipToCameraView mgl32.Mat4
	ClipToPrevClip   mgl32.Mat4
	PrevClipToClip   mgl32.Mat4

	JitterOffset      mgl32.Vec2
	MotionVectorScale mgl32.Vec2

	CameraPos     mgl32.Vec3
	CameraUp      mgl32.Vec3
	CameraRight   mgl32.Vec3
	CameraForward mgl32.Vec3

	CameraNear        float32
	CameraFar         float32
	CameraFOV         float32
	CameraAspectRatio float32

	DepthInverted        bool
	CameraMotionIncluded bool
	Reset                bool
}

// Buffer is the role a tagged resource plays.
type Buffer uint32

const (
	BufferDepth         Buffer = 0
	BufferMotionVectors Buffer = 1
	BufferHUDLessColor  Buffer = 2
)

func (b Buffer) String() string {
	switch b {
	case BufferDepth:
		return "depth"
	case BufferMotionVectors:
		return "motion-vectors"
	case BufferHUDLessColor:
		return "hudless-color"
	}
	return "unknown"
}

type Lifecycle uint32

const (
	OnlyValidNow Lifecycle = iota
	ValidUntilPresent
)

// Resource describes one image handed to the accelerator.
type Resource struct {
	Image  vk.Image
	View   vk.ImageView
	Memory vk.DeviceMemory
	Format vk.Format
	Extent vk.Extent2D
	Layout vk.ImageLayout
	Usage  vk.ImageUsageFlags
}

type ResourceTag struct {
	Buffer    Buffer
	Resource  Resource
	Lifecycle Lifecycle
	Extent    vk.Extent2D
}

// State is what the accelerator reports back about frame generation.
type State struct {
	Status                     uint32
	EstimatedVRAMUsage         uint64
	MinWidthOrHeight           uint32
	NumFramesActuallyPresented uint32
	NumFramesToGenerateMax     uint32
}

// Accelerator is the external frame interpolation engine. Only the Bridge
// calls it, and only from the render thread.
type Accelerator interface {
	Init(prefs Preferences) error
	SetVulkanInfo(info VulkanInfo) error
	IsFeatureSupported(feature Feature) error
	SetFeatureLoaded(feature Feature, loaded bool) error
	SetOptions(opts Options) error
	NewFrameToken(frameIndex uint32) (Token, error)
	SetConstants(token Token, consts Constants) error
	SetTags(token Token, cmd uintptr, tags []ResourceTag) error
	SetMarker(token Token, marker Marker) error
	GetState() (State, error)
	Shutdown() error
}
