// conversions.go
package vk

import "unsafe"

// C layouts of the instance-level create infos.

type vkApplicationInfo struct {
	sType              StructureType
	pNext              unsafe.Pointer
	pApplicationName   unsafe.Pointer
	applicationVersion uint32
	pEngineName        unsafe.Pointer
	engineVersion      uint32
	apiVersion         uint32
}

type vkInstanceCreateInfo struct {
	sType                   StructureType
	pNext                   unsafe.Pointer
	flags                   uint32
	pApplicationInfo        unsafe.Pointer
	enabledLayerCount       uint32
	ppEnabledLayerNames     unsafe.Pointer
	enabledExtensionCount   uint32
	ppEnabledExtensionNames unsafe.Pointer
}

type ApplicationInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	ApiVersion         uint32
}

type InstanceCreateInfo struct {
	Flags                 uint32
	ApplicationInfo       *ApplicationInfo
	EnabledLayerNames     []string
	EnabledExtensionNames []string
}

type applicationInfoData struct {
	cInfo      vkApplicationInfo
	appName    *byte
	engineName *byte
}

func (info *ApplicationInfo) vulkanize() *applicationInfoData {
	data := &applicationInfoData{}
	data.cInfo.sType = APPLICATION_INFO

	if info.ApplicationName != "" {
		data.appName = cstring(info.ApplicationName)
		data.cInfo.pApplicationName = unsafe.Pointer(data.appName)
	}
	data.cInfo.applicationVersion = info.ApplicationVersion

	if info.EngineName != "" {
		data.engineName = cstring(info.EngineName)
		data.cInfo.pEngineName = unsafe.Pointer(data.engineName)
	}
	data.cInfo.engineVersion = info.EngineVersion
	data.cInfo.apiVersion = info.ApiVersion

	return data
}

type instanceCreateData struct {
	cInfo      vkInstanceCreateInfo
	app        *applicationInfoData
	layers     []*byte
	layerPtrs  []unsafe.Pointer
	extensions []*byte
	extPtrs    []unsafe.Pointer
}

func (info *InstanceCreateInfo) vulkanize() *instanceCreateData {
	data := &instanceCreateData{}
	data.cInfo.sType = INSTANCE_CREATE_INFO
	data.cInfo.flags = info.Flags

	if info.ApplicationInfo != nil {
		data.app = info.ApplicationInfo.vulkanize()
		data.cInfo.pApplicationInfo = unsafe.Pointer(&data.app.cInfo)
	}

	data.layers, data.layerPtrs = cstrings(info.EnabledLayerNames)
	data.cInfo.enabledLayerCount = uint32(len(data.layerPtrs))
	data.cInfo.ppEnabledLayerNames = first(data.layerPtrs)

	data.extensions, data.extPtrs = cstrings(info.EnabledExtensionNames)
	data.cInfo.enabledExtensionCount = uint32(len(data.extPtrs))
	data.cInfo.ppEnabledExtensionNames = first(data.extPtrs)

	return data
}
