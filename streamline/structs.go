// structs.go
package streamline

import (
	"math"
	"unsafe"

	"github.com/NOT-REAL-GAMES/vkframegen/framegen"
	"github.com/go-gl/mathgl/mgl32"
)

// structType is the 16 byte GUID heading every SDK structure.
type structType struct {
	data1 uint32
	data2 uint16
	data3 uint16
	data4 [8]byte
}

// baseStructure mirrors sl::BaseStructure.
type baseStructure struct {
	next          unsafe.Pointer
	structType    structType
	structVersion uintptr
}

// Every struct is declared at version 1; the SDK ignores fields added by
// later versions.
const structVersion1 = 1

func header(t structType) baseStructure {
	return baseStructure{structType: t, structVersion: structVersion1}
}

var (
	typePreferences    = structType{0x1ca10965, 0xbf8e, 0x432b, [8]byte{0x8d, 0xa1, 0x67, 0x16, 0xd8, 0x79, 0xfb, 0x14}}
	typeVulkanInfo     = structType{0x0eed6e2e, 0x9e6a, 0x4e2a, [8]byte{0x8c, 0x73, 0x51, 0x3b, 0x3e, 0x57, 0x8d, 0x2a}}
	typeAdapterInfo    = structType{0x0677315f, 0xa746, 0x4492, [8]byte{0x9f, 0x42, 0xcb, 0x61, 0x42, 0xc9, 0xc3, 0xd4}}
	typeViewportHandle = structType{0x171b6435, 0x9b3c, 0x4fc8, [8]byte{0x99, 0x94, 0xfb, 0xe5, 0x25, 0x69, 0xaa, 0xa4}}
	typeConstants      = structType{0xdcd35ad7, 0x4e4a, 0x4bad, [8]byte{0xa9, 0x0c, 0xe0, 0xc4, 0x9e, 0xb2, 0x3a, 0xfe}}
	typeResource       = structType{0x3a9d70cf, 0x2418, 0x4b72, [8]byte{0x83, 0x91, 0x13, 0xf8, 0x72, 0x1c, 0x72, 0x61}}
	typeResourceTag    = structType{0x4c6a5aad, 0xb445, 0x496c, [8]byte{0x87, 0xff, 0x1a, 0xf3, 0x84, 0x5b, 0xe6, 0x53}}
	typeDLSSGOptions   = structType{0xfac5f1cb, 0x2dfd, 0x4f36, [8]byte{0xa1, 0xe6, 0x3a, 0x9e, 0x86, 0x5a, 0x3c, 0x7c}}
	typeDLSSGState     = structType{0xcc8ac8e1, 0xa179, 0x44f5, [8]byte{0x97, 0xfa, 0xe7, 0x41, 0x12, 0xf0, 0xbf, 0xd1}}
)

// SDKVersion is the sl::kSDKVersion value passed to slInit, 2.7.30.
const SDKVersion uint64 = 2<<48 | 7<<32 | 30<<16 | 0xfedc

const (
	logLevelDefault = 1
	engineCustom    = 0
	renderAPIVulkan = 2

	preferDisableCLStateTracking = 1 << 0
	preferAllowOTA               = 1 << 3

	resourceTex2D = 0
)

// invalidFloat marks motion vector texels the SDK should ignore.
const invalidFloat = math.MaxFloat32

type preferences struct {
	base               baseStructure
	showConsole        bool
	logLevel           uint32
	pathsToPlugins     unsafe.Pointer
	numPathsToPlugins  uint32
	pathToLogsAndData  unsafe.Pointer
	allocateCallback   uintptr
	releaseCallback    uintptr
	logMessageCallback uintptr
	flags              uint64
	featuresToLoad     unsafe.Pointer
	numFeaturesToLoad  uint32
	applicationID      uint32
	engine             uint32
	engineVersion      *byte
	projectID          *byte
	renderAPI          uint32
}

// preferencesData keeps everything the preferences point at alive.
type preferencesData struct {
	prefs         preferences
	features      []uint32
	engineVersion []byte
	projectID     []byte
}

func newPreferences(p framegen.Preferences) *preferencesData {
	data := &preferencesData{
		engineVersion: cstring(p.EngineVersion),
		projectID:     cstring(p.ProjectID),
	}
	for _, f := range p.Features {
		data.features = append(data.features, uint32(f))
	}

	data.prefs = preferences{
		base:              header(typePreferences),
		showConsole:       p.ShowConsole,
		logLevel:          logLevelDefault,
		flags:             preferDisableCLStateTracking | preferAllowOTA,
		numFeaturesToLoad: uint32(len(data.features)),
		engine:            engineCustom,
		engineVersion:     &data.engineVersion[0],
		projectID:         &data.projectID[0],
		renderAPI:         renderAPIVulkan,
	}
	if len(data.features) > 0 {
		data.prefs.featuresToLoad = unsafe.Pointer(&data.features[0])
	}
	return data
}

type vulkanInfo struct {
	base                        baseStructure
	device                      uintptr
	instance                    uintptr
	physicalDevice              uintptr
	computeQueueIndex           uint32
	computeQueueFamily          uint32
	graphicsQueueIndex          uint32
	graphicsQueueFamily         uint32
	opticalFlowQueueIndex       uint32
	opticalFlowQueueFamily      uint32
	useNativeOpticalFlowMode    bool
	computeQueueCreateFlags     uint32
	graphicsQueueCreateFlags    uint32
	opticalFlowQueueCreateFlags uint32
}

func newVulkanInfo(info framegen.VulkanInfo) *vulkanInfo {
	return &vulkanInfo{
		base:                     header(typeVulkanInfo),
		device:                   info.Device,
		instance:                 info.Instance,
		physicalDevice:           info.PhysicalDevice,
		computeQueueIndex:        info.ComputeQueueIndex,
		computeQueueFamily:       info.ComputeQueueFamily,
		graphicsQueueIndex:       info.GraphicsQueueIndex,
		graphicsQueueFamily:      info.GraphicsQueueFamily,
		opticalFlowQueueIndex:    info.OpticalFlowQueueIndex,
		opticalFlowQueueFamily:   info.OpticalFlowQueueFamily,
		useNativeOpticalFlowMode: info.UseNativeOpticalFlow,
	}
}

type adapterInfo struct {
	base                  baseStructure
	deviceLUID            unsafe.Pointer
	deviceLUIDSizeInBytes uint32
	vkPhysicalDevice      uintptr
}

type viewportHandle struct {
	base  baseStructure
	value uint32
}

func newViewport(id uint32) *viewportHandle {
	return &viewportHandle{base: header(typeViewportHandle), value: id}
}

// float4x4 is four rows of four floats.
type float4x4 [4][4]float32

// toFloat4x4 converts a column-major matrix to the SDK's row layout.
func toFloat4x4(m mgl32.Mat4) float4x4 {
	var out float4x4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row][col] = m.At(row, col)
		}
	}
	return out
}

const (
	boolFalse uint8 = 0
	boolTrue  uint8 = 1
)

func slBoolean(b bool) uint8 {
	if b {
		return boolTrue
	}
	return boolFalse
}

type constants struct {
	base                      baseStructure
	cameraViewToClip          float4x4
	clipToCameraView          float4x4
	clipToLensClip            float4x4
	clipToPrevClip            float4x4
	prevClipToClip            float4x4
	jitterOffset              [2]float32
	mvecScale                 [2]float32
	cameraPinholeOffset       [2]float32
	cameraPos                 [3]float32
	cameraUp                  [3]float32
	cameraRight               [3]float32
	cameraFwd                 [3]float32
	cameraNear                float32
	cameraFar                 float32
	cameraFOV                 float32
	cameraAspectRatio         float32
	motionVectorsInvalidValue float32
	depthInverted             uint8
	cameraMotionIncluded      uint8
	motionVectors3D           uint8
	reset                     uint8
	orthographicProjection    uint8
	motionVectorsDilated      uint8
	motionVectorsJittered     uint8
}

func newConstants(c framegen.Constants) *constants {
	return &constants{
		base:                      header(typeConstants),
		cameraViewToClip:          toFloat4x4(c.CameraViewToClip),
		clipToCameraView:          toFloat4x4(c.ClipToCameraView),
		clipToLensClip:            toFloat4x4(mgl32.Ident4()),
		clipToPrevClip:            toFloat4x4(c.ClipToPrevClip),
		prevClipToClip:            toFloat4x4(c.PrevClipToClip),
		jitterOffset:              c.JitterOffset,
		mvecScale:                 c.MotionVectorScale,
		cameraPos:                 c.CameraPos,
		cameraUp:                  c.CameraUp,
		cameraRight:               c.CameraRight,
		cameraFwd:                 c.CameraForward,
		cameraNear:                c.CameraNear,
		cameraFar:                 c.CameraFar,
		cameraFOV:                 c.CameraFOV,
		cameraAspectRatio:         c.CameraAspectRatio,
		motionVectorsInvalidValue: invalidFloat,
		depthInverted:             slBoolean(c.DepthInverted),
		cameraMotionIncluded:      slBoolean(c.CameraMotionIncluded),
		reset:                     slBoolean(c.Reset),
	}
}

type resource struct {
	base              baseStructure
	resourceType      uint32
	native            uintptr
	mem               uintptr
	view              uintptr
	state             uint32
	width             uint32
	height            uint32
	nativeFormat      uint32
	mipLevels         uint32
	arrayLayers       uint32
	gpuVirtualAddress uint64
	flags             uint32
	usage             uint32
	reserved          uint32
}

type extent struct {
	top    uint32
	left   uint32
	width  uint32
	height uint32
}

type resourceTag struct {
	base      baseStructure
	resource  *resource
	tagType   uint32
	lifecycle uint32
	extent    *extent
}

// tagData keeps the resources and extents the tags point at alive.
type tagData struct {
	tags      []resourceTag
	resources []resource
	extents   []extent
}

func newTags(tags []framegen.ResourceTag) *tagData {
	data := &tagData{
		tags:      make([]resourceTag, len(tags)),
		resources: make([]resource, len(tags)),
		extents:   make([]extent, len(tags)),
	}

	for i, t := range tags {
		r := t.Resource
		data.resources[i] = resource{
			base:         header(typeResource),
			resourceType: resourceTex2D,
			native:       uintptr(r.Image),
			mem:          uintptr(r.Memory),
			view:         uintptr(r.View),
			state:        uint32(r.Layout),
			width:        r.Extent.Width,
			height:       r.Extent.Height,
			nativeFormat: uint32(r.Format),
			mipLevels:    1,
			arrayLayers:  1,
			usage:        uint32(r.Usage),
		}
		data.extents[i] = extent{width: t.Extent.Width, height: t.Extent.Height}
		data.tags[i] = resourceTag{
			base:      header(typeResourceTag),
			resource:  &data.resources[i],
			tagType:   uint32(t.Buffer),
			lifecycle: uint32(t.Lifecycle),
			extent:    &data.extents[i],
		}
	}
	return data
}

type dlssgOptions struct {
	base                baseStructure
	mode                uint32
	numFramesToGenerate uint32
	flags               uint32
	dynamicResWidth     uint32
	dynamicResHeight    uint32
	numBackBuffers      uint32
	mvecDepthWidth      uint32
	mvecDepthHeight     uint32
	colorWidth          uint32
	colorHeight         uint32
	colorBufferFormat   uint32
	mvecBufferFormat    uint32
	depthBufferFormat   uint32
	hudLessBufferFormat uint32
	uiBufferFormat      uint32
}

func newDLSSGOptions(opts framegen.Options) *dlssgOptions {
	frames := opts.FramesToGenerate
	if frames == 0 {
		frames = 1
	}
	return &dlssgOptions{
		base:                header(typeDLSSGOptions),
		mode:                uint32(opts.Mode),
		numFramesToGenerate: frames,
	}
}

type dlssgState struct {
	base                       baseStructure
	estimatedVRAMUsageInBytes  uint64
	status                     uint32
	minWidthOrHeight           uint32
	numFramesActuallyPresented uint32
	numFramesToGenerateMax     uint32
}

func (s *dlssgState) state() framegen.State {
	return framegen.State{
		Status:                     s.status,
		EstimatedVRAMUsage:         s.estimatedVRAMUsageInBytes,
		MinWidthOrHeight:           s.minWidthOrHeight,
		NumFramesActuallyPresented: s.numFramesActuallyPresented,
		NumFramesToGenerateMax:     s.numFramesToGenerateMax,
	}
}

func cstring(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
