// result.go
package streamline

import (
	"fmt"

	"github.com/NOT-REAL-GAMES/vkframegen/framegen"
)

// Result is an sl::Result code.
type Result uint32

const (
	Ok Result = iota
	ErrorIO
	ErrorDriverOutOfDate
	ErrorOSOutOfDate
	ErrorOSDisabledHWS
	ErrorDeviceNotCreated
	ErrorNoSupportedAdapterFound
	ErrorAdapterNotSupported
	ErrorNoPlugins
	ErrorVulkanAPI
	ErrorDXGIAPI
	ErrorD3DAPI
	ErrorNRDAPI
	ErrorNVAPI
	ErrorReflexAPI
	ErrorNGXFailed
	ErrorJSONParsing
	ErrorMissingProxy
	ErrorMissingResourceState
	ErrorInvalidIntegration
	ErrorMissingInputParameter
	ErrorNotInitialized
	ErrorComputeFailed
	ErrorInitNotCalled
	ErrorExceptionHandler
	ErrorInvalidParameter
	ErrorMissingConstants
	ErrorDuplicatedConstants
	ErrorMissingOrInvalidAPI
	ErrorCommonConstantsMissing
	ErrorUnsupportedInterface
	ErrorFeatureMissing
	ErrorFeatureNotSupported
	ErrorFeatureMissingHooks
	ErrorFeatureFailedToLoad
	ErrorFeatureWrongPriority
	ErrorFeatureMissingDependency
	ErrorFeatureManagerInvalidState
	ErrorInvalidState
	WarnOutOfVRAM
)

var resultNames = [...]string{
	Ok:                              "ok",
	ErrorIO:                         "io error",
	ErrorDriverOutOfDate:            "driver out of date",
	ErrorOSOutOfDate:                "OS out of date",
	ErrorOSDisabledHWS:              "hardware scheduling disabled",
	ErrorDeviceNotCreated:           "device not created",
	ErrorNoSupportedAdapterFound:    "no supported adapter found",
	ErrorAdapterNotSupported:        "adapter not supported",
	ErrorNoPlugins:                  "no plugins",
	ErrorVulkanAPI:                  "vulkan API error",
	ErrorDXGIAPI:                    "DXGI API error",
	ErrorD3DAPI:                     "D3D API error",
	ErrorNRDAPI:                     "NRD API error",
	ErrorNVAPI:                      "NVAPI error",
	ErrorReflexAPI:                  "reflex API error",
	ErrorNGXFailed:                  "NGX failed",
	ErrorJSONParsing:                "JSON parsing failed",
	ErrorMissingProxy:               "missing proxy",
	ErrorMissingResourceState:       "missing resource state",
	ErrorInvalidIntegration:         "invalid integration",
	ErrorMissingInputParameter:      "missing input parameter",
	ErrorNotInitialized:             "not initialized",
	ErrorComputeFailed:              "compute failed",
	ErrorInitNotCalled:              "init not called",
	ErrorExceptionHandler:           "exception handler",
	ErrorInvalidParameter:           "invalid parameter",
	ErrorMissingConstants:           "missing constants",
	ErrorDuplicatedConstants:        "duplicated constants",
	ErrorMissingOrInvalidAPI:        "missing or invalid API",
	ErrorCommonConstantsMissing:     "common constants missing",
	ErrorUnsupportedInterface:       "unsupported interface",
	ErrorFeatureMissing:             "feature missing",
	ErrorFeatureNotSupported:        "feature not supported",
	ErrorFeatureMissingHooks:        "feature missing hooks",
	ErrorFeatureFailedToLoad:        "feature failed to load",
	ErrorFeatureWrongPriority:       "feature wrong priority",
	ErrorFeatureMissingDependency:   "feature missing dependency",
	ErrorFeatureManagerInvalidState: "feature manager invalid state",
	ErrorInvalidState:               "invalid state",
	WarnOutOfVRAM:                   "out of VRAM",
}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("result %d", uint32(r))
}

func (r Result) Error() string {
	return fmt.Sprintf("streamline: %s (%d)", r.String(), uint32(r))
}

// Is lets callers match codes against the framegen sentinels.
func (r Result) Is(target error) bool {
	switch target {
	case framegen.ErrDriverOutOfDate:
		return r == ErrorDriverOutOfDate
	case framegen.ErrOSOutOfDate:
		return r == ErrorOSOutOfDate
	case framegen.ErrFeatureNotSupported:
		return r == ErrorFeatureNotSupported || r == ErrorAdapterNotSupported || r == ErrorNoSupportedAdapterFound
	}
	return false
}

func check(r Result) error {
	if r == Ok {
		return nil
	}
	return r
}
