// types.go
package vk

import (
	"fmt"
	"math"
)

type Result int32

const (
	SUCCESS                Result = 0
	NOT_READY              Result = 1
	TIMEOUT                Result = 2
	EVENT_SET              Result = 3
	EVENT_RESET            Result = 4
	INCOMPLETE             Result = 5
	OUT_OF_HOST_MEMORY     Result = -1
	OUT_OF_DEVICE_MEMORY   Result = -2
	INITIALIZATION_FAILED  Result = -3
	DEVICE_LOST            Result = -4
	MEMORY_MAP_FAILED      Result = -5
	LAYER_NOT_PRESENT      Result = -6
	EXTENSION_NOT_PRESENT  Result = -7
	FEATURE_NOT_PRESENT    Result = -8
	INCOMPATIBLE_DRIVER    Result = -9
	TOO_MANY_OBJECTS       Result = -10
	FORMAT_NOT_SUPPORTED   Result = -11
	FRAGMENTED_POOL        Result = -12
	UNKNOWN                Result = -13
	OUT_OF_POOL_MEMORY     Result = -1000069000
	SURFACE_LOST           Result = -1000000000
	NATIVE_WINDOW_IN_USE   Result = -1000000001
	SUBOPTIMAL             Result = 1000001003
	OUT_OF_DATE            Result = -1000001004
	INCOMPATIBLE_DISPLAY   Result = -1000003001
	VALIDATION_FAILED      Result = -1000011001
	FULL_SCREEN_LOST       Result = -1000255000
	ERROR_INVALID_EXTERNAL Result = -1000072003
)

func (r Result) Error() string {
	switch r {
	case SUCCESS:
		return "SUCCESS"
	case NOT_READY:
		return "NOT READY"
	case TIMEOUT:
		return "TIMEOUT"
	case EVENT_SET:
		return "EVENT SET"
	case EVENT_RESET:
		return "EVENT RESET"
	case INCOMPLETE:
		return "INCOMPLETE"
	case OUT_OF_HOST_MEMORY:
		return "OUT OF HOST MEMORY"
	case OUT_OF_DEVICE_MEMORY:
		return "OUT OF DEVICE MEMORY"
	case INITIALIZATION_FAILED:
		return "INITIALIZATION FAILED"
	case DEVICE_LOST:
		return "DEVICE LOST"
	case MEMORY_MAP_FAILED:
		return "MEMORY MAP FAILED"
	case LAYER_NOT_PRESENT:
		return "LAYER NOT PRESENT"
	case EXTENSION_NOT_PRESENT:
		return "EXTENSION NOT PRESENT"
	case FEATURE_NOT_PRESENT:
		return "FEATURE NOT PRESENT"
	case INCOMPATIBLE_DRIVER:
		return "INCOMPATIBLE DRIVER"
	case TOO_MANY_OBJECTS:
		return "TOO MANY OBJECTS"
	case FORMAT_NOT_SUPPORTED:
		return "FORMAT NOT SUPPORTED"
	case FRAGMENTED_POOL:
		return "FRAGMENTED POOL"
	case UNKNOWN:
		return "UNKNOWN"
	case OUT_OF_POOL_MEMORY:
		return "OUT OF POOL MEMORY"
	case SURFACE_LOST:
		return "SURFACE LOST"
	case NATIVE_WINDOW_IN_USE:
		return "NATIVE WINDOW IN USE"
	case SUBOPTIMAL:
		return "SUBOPTIMAL"
	case OUT_OF_DATE:
		return "OUT OF DATE"
	case INCOMPATIBLE_DISPLAY:
		return "INCOMPATIBLE DISPLAY"
	case VALIDATION_FAILED:
		return "VALIDATION FAILED"
	case FULL_SCREEN_LOST:
		return "FULL SCREEN EXCLUSIVE MODE LOST"
	case ERROR_INVALID_EXTERNAL:
		return "INVALID EXTERNAL HANDLE"
	default:
		return fmt.Sprintf("VkResult(%d)", int32(r))
	}
}

// Handle types. Non-dispatchable handles are 64-bit on every platform.
type (
	SurfaceKHR   uint64
	SwapchainKHR uint64
	Image        uint64
	ImageView    uint64
	DeviceMemory uint64
	RenderPass   uint64
	Framebuffer  uint64
	Semaphore    uint64
	Fence        uint64
	CommandPool  uint64
)

const NULL_HANDLE = 0

type StructureType int32

const (
	APPLICATION_INFO             StructureType = 0
	INSTANCE_CREATE_INFO         StructureType = 1
	DEVICE_QUEUE_CREATE_INFO     StructureType = 2
	DEVICE_CREATE_INFO           StructureType = 3
	SUBMIT_INFO                  StructureType = 4
	MEMORY_ALLOCATE_INFO         StructureType = 5
	FENCE_CREATE_INFO            StructureType = 8
	SEMAPHORE_CREATE_INFO        StructureType = 9
	IMAGE_CREATE_INFO            StructureType = 14
	IMAGE_VIEW_CREATE_INFO       StructureType = 15
	FRAMEBUFFER_CREATE_INFO      StructureType = 37
	RENDER_PASS_CREATE_INFO      StructureType = 38
	COMMAND_POOL_CREATE_INFO     StructureType = 39
	COMMAND_BUFFER_ALLOCATE_INFO StructureType = 40
	COMMAND_BUFFER_BEGIN_INFO    StructureType = 42
	RENDER_PASS_BEGIN_INFO       StructureType = 43
	SWAPCHAIN_CREATE_INFO_KHR    StructureType = 1000001000
	PRESENT_INFO_KHR             StructureType = 1000001001
)

type Format int32

const (
	FORMAT_UNDEFINED                Format = 0
	FORMAT_R8G8B8A8_UNORM           Format = 37
	FORMAT_R8G8B8A8_SRGB            Format = 43
	FORMAT_B8G8R8A8_UNORM           Format = 44
	FORMAT_B8G8R8A8_SRGB            Format = 50
	FORMAT_A2B10G10R10_UNORM_PACK32 Format = 64
	FORMAT_R16G16_SFLOAT            Format = 83
	FORMAT_R16G16B16A16_SFLOAT      Format = 97
	FORMAT_D16_UNORM                Format = 124
	FORMAT_D32_SFLOAT               Format = 126
	FORMAT_D24_UNORM_S8_UINT        Format = 129
	FORMAT_D32_SFLOAT_S8_UINT       Format = 130
)

func (f Format) String() string {
	switch f {
	case FORMAT_UNDEFINED:
		return "UNDEFINED"
	case FORMAT_R8G8B8A8_UNORM:
		return "R8G8B8A8_UNORM"
	case FORMAT_R8G8B8A8_SRGB:
		return "R8G8B8A8_SRGB"
	case FORMAT_B8G8R8A8_UNORM:
		return "B8G8R8A8_UNORM"
	case FORMAT_B8G8R8A8_SRGB:
		return "B8G8R8A8_SRGB"
	case FORMAT_A2B10G10R10_UNORM_PACK32:
		return "A2B10G10R10_UNORM_PACK32"
	case FORMAT_R16G16_SFLOAT:
		return "R16G16_SFLOAT"
	case FORMAT_R16G16B16A16_SFLOAT:
		return "R16G16B16A16_SFLOAT"
	case FORMAT_D16_UNORM:
		return "D16_UNORM"
	case FORMAT_D32_SFLOAT:
		return "D32_SFLOAT"
	case FORMAT_D24_UNORM_S8_UINT:
		return "D24_UNORM_S8_UINT"
	case FORMAT_D32_SFLOAT_S8_UINT:
		return "D32_SFLOAT_S8_UINT"
	default:
		return fmt.Sprintf("VkFormat(%d)", int32(f))
	}
}

type ColorSpaceKHR int32

const (
	COLOR_SPACE_SRGB_NONLINEAR_KHR ColorSpaceKHR = 0
)

type PresentModeKHR int32

const (
	PRESENT_MODE_IMMEDIATE_KHR    PresentModeKHR = 0
	PRESENT_MODE_MAILBOX_KHR      PresentModeKHR = 1
	PRESENT_MODE_FIFO_KHR         PresentModeKHR = 2
	PRESENT_MODE_FIFO_RELAXED_KHR PresentModeKHR = 3
)

func (m PresentModeKHR) String() string {
	switch m {
	case PRESENT_MODE_IMMEDIATE_KHR:
		return "IMMEDIATE"
	case PRESENT_MODE_MAILBOX_KHR:
		return "MAILBOX"
	case PRESENT_MODE_FIFO_KHR:
		return "FIFO"
	case PRESENT_MODE_FIFO_RELAXED_KHR:
		return "FIFO_RELAXED"
	default:
		return fmt.Sprintf("VkPresentModeKHR(%d)", int32(m))
	}
}

type ImageUsageFlags uint32

const (
	IMAGE_USAGE_TRANSFER_SRC_BIT             ImageUsageFlags = 0x01
	IMAGE_USAGE_TRANSFER_DST_BIT             ImageUsageFlags = 0x02
	IMAGE_USAGE_SAMPLED_BIT                  ImageUsageFlags = 0x04
	IMAGE_USAGE_STORAGE_BIT                  ImageUsageFlags = 0x08
	IMAGE_USAGE_COLOR_ATTACHMENT_BIT         ImageUsageFlags = 0x10
	IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT ImageUsageFlags = 0x20
)

type SharingMode int32

const (
	SHARING_MODE_EXCLUSIVE  SharingMode = 0
	SHARING_MODE_CONCURRENT SharingMode = 1
)

type SurfaceTransformFlagsKHR uint32

const (
	SURFACE_TRANSFORM_IDENTITY_BIT_KHR SurfaceTransformFlagsKHR = 0x01
)

type CompositeAlphaFlagsKHR uint32

const (
	COMPOSITE_ALPHA_OPAQUE_BIT_KHR CompositeAlphaFlagsKHR = 0x01
)

type ImageType int32

const (
	IMAGE_TYPE_2D ImageType = 1
)

type ImageTiling int32

const (
	IMAGE_TILING_OPTIMAL ImageTiling = 0
	IMAGE_TILING_LINEAR  ImageTiling = 1
)

type SampleCountFlags uint32

const (
	SAMPLE_COUNT_1_BIT SampleCountFlags = 0x01
)

type ImageLayout int32

const (
	IMAGE_LAYOUT_UNDEFINED                        ImageLayout = 0
	IMAGE_LAYOUT_GENERAL                          ImageLayout = 1
	IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL         ImageLayout = 2
	IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL ImageLayout = 3
	IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL         ImageLayout = 5
	IMAGE_LAYOUT_PRESENT_SRC_KHR                  ImageLayout = 1000001002
)

type MemoryPropertyFlags uint32

const (
	MEMORY_PROPERTY_DEVICE_LOCAL_BIT  MemoryPropertyFlags = 0x01
	MEMORY_PROPERTY_HOST_VISIBLE_BIT  MemoryPropertyFlags = 0x02
	MEMORY_PROPERTY_HOST_COHERENT_BIT MemoryPropertyFlags = 0x04
)

type FormatFeatureFlags uint32

const (
	FORMAT_FEATURE_SAMPLED_IMAGE_BIT            FormatFeatureFlags = 0x0001
	FORMAT_FEATURE_COLOR_ATTACHMENT_BIT         FormatFeatureFlags = 0x0080
	FORMAT_FEATURE_DEPTH_STENCIL_ATTACHMENT_BIT FormatFeatureFlags = 0x0200
)

type ImageViewType int32

const (
	IMAGE_VIEW_TYPE_2D ImageViewType = 1
)

type ComponentSwizzle int32

const (
	COMPONENT_SWIZZLE_IDENTITY ComponentSwizzle = 0
)

type ImageAspectFlags uint32

const (
	IMAGE_ASPECT_COLOR_BIT   ImageAspectFlags = 0x01
	IMAGE_ASPECT_DEPTH_BIT   ImageAspectFlags = 0x02
	IMAGE_ASPECT_STENCIL_BIT ImageAspectFlags = 0x04
)

type AttachmentLoadOp int32
type AttachmentStoreOp int32

const (
	ATTACHMENT_LOAD_OP_LOAD      AttachmentLoadOp = 0
	ATTACHMENT_LOAD_OP_CLEAR     AttachmentLoadOp = 1
	ATTACHMENT_LOAD_OP_DONT_CARE AttachmentLoadOp = 2

	ATTACHMENT_STORE_OP_STORE     AttachmentStoreOp = 0
	ATTACHMENT_STORE_OP_DONT_CARE AttachmentStoreOp = 1
)

type PipelineBindPoint int32

const (
	PIPELINE_BIND_POINT_GRAPHICS PipelineBindPoint = 0
	PIPELINE_BIND_POINT_COMPUTE  PipelineBindPoint = 1
)

type AccessFlags uint32

const (
	ACCESS_NONE                               AccessFlags = 0
	ACCESS_COLOR_ATTACHMENT_WRITE_BIT         AccessFlags = 0x0100
	ACCESS_DEPTH_STENCIL_ATTACHMENT_WRITE_BIT AccessFlags = 0x0400
)

type PipelineStageFlags uint32

const (
	PIPELINE_STAGE_TOP_OF_PIPE_BIT             PipelineStageFlags = 0x0001
	PIPELINE_STAGE_EARLY_FRAGMENT_TESTS_BIT    PipelineStageFlags = 0x0100
	PIPELINE_STAGE_LATE_FRAGMENT_TESTS_BIT     PipelineStageFlags = 0x0200
	PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT PipelineStageFlags = 0x0400
	PIPELINE_STAGE_BOTTOM_OF_PIPE_BIT          PipelineStageFlags = 0x2000
)

const SUBPASS_EXTERNAL = ^uint32(0)

type FenceCreateFlags uint32

const (
	FENCE_CREATE_SIGNALED_BIT FenceCreateFlags = 0x01
)

type CommandPoolCreateFlags uint32

const (
	COMMAND_POOL_CREATE_TRANSIENT_BIT            CommandPoolCreateFlags = 0x01
	COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT CommandPoolCreateFlags = 0x02
)

type CommandBufferLevel int32

const (
	COMMAND_BUFFER_LEVEL_PRIMARY   CommandBufferLevel = 0
	COMMAND_BUFFER_LEVEL_SECONDARY CommandBufferLevel = 1
)

type CommandBufferUsageFlags uint32

const (
	COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT CommandBufferUsageFlags = 0x01
)

type SubpassContents int32

const (
	SUBPASS_CONTENTS_INLINE SubpassContents = 0
)

type QueueFlags uint32

const (
	QUEUE_GRAPHICS_BIT QueueFlags = 0x01
	QUEUE_COMPUTE_BIT  QueueFlags = 0x02
	QUEUE_TRANSFER_BIT QueueFlags = 0x04
)

type PhysicalDeviceType int32

const (
	PHYSICAL_DEVICE_TYPE_OTHER          PhysicalDeviceType = 0
	PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU PhysicalDeviceType = 1
	PHYSICAL_DEVICE_TYPE_DISCRETE_GPU   PhysicalDeviceType = 2
	PHYSICAL_DEVICE_TYPE_VIRTUAL_GPU    PhysicalDeviceType = 3
	PHYSICAL_DEVICE_TYPE_CPU            PhysicalDeviceType = 4
)

func MakeApiVersion(variant, major, minor, patch uint32) uint32 {
	return variant<<29 | major<<22 | minor<<12 | patch
}

func ApiVersionMajor(version uint32) uint32 { return (version >> 22) & 0x7F }
func ApiVersionMinor(version uint32) uint32 { return (version >> 12) & 0x3FF }
func ApiVersionPatch(version uint32) uint32 { return version & 0xFFF }

var (
	ApiVersion_1_2 = MakeApiVersion(0, 1, 2, 0)
	ApiVersion_1_3 = MakeApiVersion(0, 1, 3, 0)
)

const KHR_SWAPCHAIN_EXTENSION_NAME = "VK_KHR_swapchain"

// Plain structs share their C layout and are passed to the driver as-is.

type Extent2D struct {
	Width  uint32
	Height uint32
}

type Extent3D struct {
	Width  uint32
	Height uint32
	Depth  uint32
}

type Offset2D struct {
	X int32
	Y int32
}

type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

type Viewport struct {
	X        float32
	Y        float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type SurfaceCapabilitiesKHR struct {
	MinImageCount           uint32
	MaxImageCount           uint32
	CurrentExtent           Extent2D
	MinImageExtent          Extent2D
	MaxImageExtent          Extent2D
	MaxImageArrayLayers     uint32
	SupportedTransforms     SurfaceTransformFlagsKHR
	CurrentTransform        SurfaceTransformFlagsKHR
	SupportedCompositeAlpha CompositeAlphaFlagsKHR
	SupportedUsageFlags     ImageUsageFlags
}

type SurfaceFormatKHR struct {
	Format     Format
	ColorSpace ColorSpaceKHR
}

type QueueFamilyProperties struct {
	QueueFlags                  QueueFlags
	QueueCount                  uint32
	TimestampValidBits          uint32
	MinImageTransferGranularity Extent3D
}

type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
	HeapIndex     uint32
}

type MemoryHeap struct {
	Size  uint64
	Flags uint32
}

type PhysicalDeviceMemoryProperties struct {
	MemoryTypeCount uint32
	MemoryTypes     [32]MemoryType
	MemoryHeapCount uint32
	MemoryHeaps     [16]MemoryHeap
}

type MemoryRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

type FormatProperties struct {
	LinearTilingFeatures  FormatFeatureFlags
	OptimalTilingFeatures FormatFeatureFlags
	BufferFeatures        FormatFeatureFlags
}

type PhysicalDeviceProperties struct {
	APIVersion    uint32
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
	DeviceType    PhysicalDeviceType
	DeviceName    string
}

type ComponentMapping struct {
	R ComponentSwizzle
	G ComponentSwizzle
	B ComponentSwizzle
	A ComponentSwizzle
}

type ImageSubresourceRange struct {
	AspectMask     ImageAspectFlags
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// ClearValue mirrors the VkClearValue union.
type ClearValue struct {
	raw [4]uint32
}

func ClearColor(r, g, b, a float32) ClearValue {
	var v ClearValue
	for i, c := range [4]float32{r, g, b, a} {
		v.raw[i] = math.Float32bits(c)
	}
	return v
}

func ClearDepthStencil(depth float32, stencil uint32) ClearValue {
	return ClearValue{raw: [4]uint32{math.Float32bits(depth), stencil}}
}

func (v ClearValue) Color() [4]float32 {
	var c [4]float32
	for i := range c {
		c[i] = math.Float32frombits(v.raw[i])
	}
	return c
}

func (v ClearValue) DepthStencil() (float32, uint32) {
	return math.Float32frombits(v.raw[0]), v.raw[1]
}
