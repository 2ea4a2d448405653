// renderpass.go
package vk

import (
	"runtime"
	"unsafe"
)

// AttachmentDescription, AttachmentReference and SubpassDependency share
// their C layout.
type AttachmentDescription struct {
	Flags          uint32
	Format         Format
	Samples        SampleCountFlags
	LoadOp         AttachmentLoadOp
	StoreOp        AttachmentStoreOp
	StencilLoadOp  AttachmentLoadOp
	StencilStoreOp AttachmentStoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

type AttachmentReference struct {
	Attachment uint32
	Layout     ImageLayout
}

type SubpassDependency struct {
	SrcSubpass      uint32
	DstSubpass      uint32
	SrcStageMask    PipelineStageFlags
	DstStageMask    PipelineStageFlags
	SrcAccessMask   AccessFlags
	DstAccessMask   AccessFlags
	DependencyFlags uint32
}

type SubpassDescription struct {
	PipelineBindPoint      PipelineBindPoint
	ColorAttachments       []AttachmentReference
	DepthStencilAttachment *AttachmentReference
}

type RenderPassCreateInfo struct {
	Attachments  []AttachmentDescription
	Subpasses    []SubpassDescription
	Dependencies []SubpassDependency
}

type vkSubpassDescription struct {
	flags                   uint32
	pipelineBindPoint       PipelineBindPoint
	inputAttachmentCount    uint32
	pInputAttachments       unsafe.Pointer
	colorAttachmentCount    uint32
	pColorAttachments       unsafe.Pointer
	pResolveAttachments     unsafe.Pointer
	pDepthStencilAttachment unsafe.Pointer
	preserveAttachmentCount uint32
	pPreserveAttachments    unsafe.Pointer
}

type vkRenderPassCreateInfo struct {
	sType           StructureType
	pNext           unsafe.Pointer
	flags           uint32
	attachmentCount uint32
	pAttachments    unsafe.Pointer
	subpassCount    uint32
	pSubpasses      unsafe.Pointer
	dependencyCount uint32
	pDependencies   unsafe.Pointer
}

type renderPassCreateData struct {
	cInfo     vkRenderPassCreateInfo
	subpasses []vkSubpassDescription
	colorRefs [][]AttachmentReference
	depthRefs []*AttachmentReference
}

func (info *RenderPassCreateInfo) vulkanize() *renderPassCreateData {
	data := &renderPassCreateData{
		subpasses: make([]vkSubpassDescription, len(info.Subpasses)),
		colorRefs: make([][]AttachmentReference, len(info.Subpasses)),
		depthRefs: make([]*AttachmentReference, len(info.Subpasses)),
	}

	for i, subpass := range info.Subpasses {
		data.colorRefs[i] = append([]AttachmentReference(nil), subpass.ColorAttachments...)
		data.subpasses[i] = vkSubpassDescription{
			pipelineBindPoint:    subpass.PipelineBindPoint,
			colorAttachmentCount: uint32(len(data.colorRefs[i])),
			pColorAttachments:    first(data.colorRefs[i]),
		}
		if subpass.DepthStencilAttachment != nil {
			ref := *subpass.DepthStencilAttachment
			data.depthRefs[i] = &ref
			data.subpasses[i].pDepthStencilAttachment = unsafe.Pointer(data.depthRefs[i])
		}
	}

	data.cInfo = vkRenderPassCreateInfo{
		sType:           RENDER_PASS_CREATE_INFO,
		attachmentCount: uint32(len(info.Attachments)),
		pAttachments:    first(info.Attachments),
		subpassCount:    uint32(len(data.subpasses)),
		pSubpasses:      first(data.subpasses),
		dependencyCount: uint32(len(info.Dependencies)),
		pDependencies:   first(info.Dependencies),
	}

	return data
}

func (device Device) CreateRenderPass(createInfo *RenderPassCreateInfo) (RenderPass, error) {
	data := createInfo.vulkanize()
	defer runtime.KeepAlive(data)
	defer runtime.KeepAlive(createInfo)

	var renderPass RenderPass
	result := call(device.cmds.createRenderPass, device.handle, uintptr(unsafe.Pointer(&data.cInfo)), 0, uintptr(unsafe.Pointer(&renderPass)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return renderPass, nil
}

func (device Device) DestroyRenderPass(renderPass RenderPass) {
	callVoid(device.cmds.destroyRenderPass, device.handle, uintptr(renderPass), 0)
}

type FramebufferCreateInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Width       uint32
	Height      uint32
	Layers      uint32
}

type vkFramebufferCreateInfo struct {
	sType           StructureType
	pNext           unsafe.Pointer
	flags           uint32
	renderPass      RenderPass
	attachmentCount uint32
	pAttachments    unsafe.Pointer
	width           uint32
	height          uint32
	layers          uint32
}

func (device Device) CreateFramebuffer(createInfo *FramebufferCreateInfo) (Framebuffer, error) {
	cInfo := &vkFramebufferCreateInfo{
		sType:           FRAMEBUFFER_CREATE_INFO,
		renderPass:      createInfo.RenderPass,
		attachmentCount: uint32(len(createInfo.Attachments)),
		pAttachments:    first(createInfo.Attachments),
		width:           createInfo.Width,
		height:          createInfo.Height,
		layers:          createInfo.Layers,
	}
	defer runtime.KeepAlive(createInfo)

	var framebuffer Framebuffer
	result := call(device.cmds.createFramebuffer, device.handle, uintptr(unsafe.Pointer(cInfo)), 0, uintptr(unsafe.Pointer(&framebuffer)))

	if result != SUCCESS {
		return NULL_HANDLE, result
	}

	return framebuffer, nil
}

func (device Device) DestroyFramebuffer(framebuffer Framebuffer) {
	callVoid(device.cmds.destroyFramebuffer, device.handle, uintptr(framebuffer), 0)
}

type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  Rect2D
	ClearValues []ClearValue
}

type vkRenderPassBeginInfo struct {
	sType           StructureType
	pNext           unsafe.Pointer
	renderPass      RenderPass
	framebuffer     Framebuffer
	renderArea      Rect2D
	clearValueCount uint32
	pClearValues    unsafe.Pointer
}

func (cmd CommandBuffer) BeginRenderPass(beginInfo *RenderPassBeginInfo, contents SubpassContents) {
	cInfo := &vkRenderPassBeginInfo{
		sType:           RENDER_PASS_BEGIN_INFO,
		renderPass:      beginInfo.RenderPass,
		framebuffer:     beginInfo.Framebuffer,
		renderArea:      beginInfo.RenderArea,
		clearValueCount: uint32(len(beginInfo.ClearValues)),
		pClearValues:    first(beginInfo.ClearValues),
	}
	defer runtime.KeepAlive(beginInfo)

	callVoid(cmd.cmds.cmdBeginRenderPass, cmd.handle, uintptr(unsafe.Pointer(cInfo)), uintptr(contents))
}

func (cmd CommandBuffer) EndRenderPass() {
	callVoid(cmd.cmds.cmdEndRenderPass, cmd.handle)
}
