// sdk.go
package streamline

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/NOT-REAL-GAMES/vkframegen/framegen"
	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/pkg/errors"
)

// DefaultPath is the interposer shipped next to the executable.
const DefaultPath = "sl.interposer.dll"

// ErrUnavailable means the SDK could not be loaded. Callers run without
// frame generation.
var ErrUnavailable = errors.New("streamline: SDK unavailable")

type coreProcs struct {
	init               uintptr
	shutdown           uintptr
	setVulkanInfo      uintptr
	isFeatureSupported uintptr
	setFeatureLoaded   uintptr
	getFeatureFunction uintptr
	getNewFrameToken   uintptr
	setTag             uintptr
	setConstants       uintptr
}

type featureProcs struct {
	dlssgSetOptions uintptr
	dlssgGetState   uintptr
	pclSetMarker    uintptr
}

// SDK binds the Streamline core exports. It implements framegen.Accelerator.
type SDK struct {
	lib    *library
	core   coreProcs
	logger log.Logger

	once     sync.Once
	features featureProcs

	physicalDevice uintptr
	viewport       *viewportHandle
	prefs          *preferencesData
}

var _ framegen.Accelerator = (*SDK)(nil)

// Load opens the interposer at path and resolves the core exports.
func Load(path string, logger log.Logger) (*SDK, error) {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = log.New("streamline")
	}

	lib, err := openLibrary(path)
	if err != nil {
		return nil, err
	}

	sdk := &SDK{lib: lib, logger: logger, viewport: newViewport(0)}
	symbols := []struct {
		name string
		addr *uintptr
	}{
		{"slInit", &sdk.core.init},
		{"slShutdown", &sdk.core.shutdown},
		{"slSetVulkanInfo", &sdk.core.setVulkanInfo},
		{"slIsFeatureSupported", &sdk.core.isFeatureSupported},
		{"slSetFeatureLoaded", &sdk.core.setFeatureLoaded},
		{"slGetFeatureFunction", &sdk.core.getFeatureFunction},
		{"slGetNewFrameToken", &sdk.core.getNewFrameToken},
		{"slSetTag", &sdk.core.setTag},
		{"slSetConstants", &sdk.core.setConstants},
	}
	for _, s := range symbols {
		*s.addr = lib.symbol(s.name)
		if *s.addr == 0 {
			lib.close()
			return nil, errors.Wrapf(ErrUnavailable, "missing export %s", s.name)
		}
	}

	logger.Infof("loaded %s", path)
	return sdk, nil
}

func (s *SDK) Init(prefs framegen.Preferences) error {
	s.prefs = newPreferences(prefs)
	r := call(s.core.init, uintptr(unsafe.Pointer(&s.prefs.prefs)), uintptr(SDKVersion))
	runtime.KeepAlive(s.prefs)
	return check(r)
}

func (s *SDK) SetVulkanInfo(info framegen.VulkanInfo) error {
	s.physicalDevice = info.PhysicalDevice
	cInfo := newVulkanInfo(info)
	return check(call(s.core.setVulkanInfo, uintptr(unsafe.Pointer(cInfo))))
}

func (s *SDK) IsFeatureSupported(feature framegen.Feature) error {
	adapter := &adapterInfo{base: header(typeAdapterInfo), vkPhysicalDevice: s.physicalDevice}
	return check(call(s.core.isFeatureSupported, uintptr(feature), uintptr(unsafe.Pointer(adapter))))
}

func (s *SDK) SetFeatureLoaded(feature framegen.Feature, loaded bool) error {
	return check(call(s.core.setFeatureLoaded, uintptr(feature), slBool(loaded)))
}

// featureFunction asks the SDK for a feature entry point. It is only
// valid once the device exists.
func (s *SDK) featureFunction(feature framegen.Feature, name string) uintptr {
	fname := cstring(name)
	var fn uintptr
	r := call(s.core.getFeatureFunction, uintptr(feature), uintptr(unsafe.Pointer(&fname[0])), uintptr(unsafe.Pointer(&fn)))
	if r != Ok {
		s.logger.Warningf("%s unavailable: %v", name, r)
		return 0
	}
	return fn
}

func (s *SDK) loadFeatures() {
	s.once.Do(func() {
		s.features.dlssgSetOptions = s.featureFunction(framegen.FeatureDLSSG, "slDLSSGSetOptions")
		s.features.dlssgGetState = s.featureFunction(framegen.FeatureDLSSG, "slDLSSGGetState")
		s.features.pclSetMarker = s.featureFunction(framegen.FeaturePCL, "slPCLSetMarker")
	})
}

func (s *SDK) SetOptions(opts framegen.Options) error {
	s.loadFeatures()
	cOpts := newDLSSGOptions(opts)
	return check(call(s.features.dlssgSetOptions, uintptr(unsafe.Pointer(s.viewport)), uintptr(unsafe.Pointer(cOpts))))
}

func (s *SDK) NewFrameToken(frameIndex uint32) (framegen.Token, error) {
	var token uintptr
	index := frameIndex
	r := call(s.core.getNewFrameToken, uintptr(unsafe.Pointer(&token)), uintptr(unsafe.Pointer(&index)))
	if err := check(r); err != nil {
		return 0, err
	}
	return framegen.Token(token), nil
}

func (s *SDK) SetConstants(token framegen.Token, consts framegen.Constants) error {
	cConsts := newConstants(consts)
	return check(call(s.core.setConstants, uintptr(unsafe.Pointer(cConsts)), uintptr(token), uintptr(unsafe.Pointer(s.viewport))))
}

func (s *SDK) SetTags(token framegen.Token, cmd uintptr, tags []framegen.ResourceTag) error {
	if len(tags) == 0 {
		return nil
	}
	data := newTags(tags)
	r := call(s.core.setTag, uintptr(unsafe.Pointer(s.viewport)), uintptr(unsafe.Pointer(&data.tags[0])), uintptr(len(data.tags)), cmd)
	runtime.KeepAlive(data)
	return check(r)
}

func (s *SDK) SetMarker(token framegen.Token, marker framegen.Marker) error {
	s.loadFeatures()
	return check(call(s.features.pclSetMarker, uintptr(marker), uintptr(token)))
}

func (s *SDK) GetState() (framegen.State, error) {
	s.loadFeatures()
	state := &dlssgState{base: header(typeDLSSGState)}
	r := call(s.features.dlssgGetState, uintptr(unsafe.Pointer(s.viewport)), uintptr(unsafe.Pointer(state)), 0)
	if err := check(r); err != nil {
		return framegen.State{}, err
	}
	return state.state(), nil
}

func (s *SDK) Shutdown() error {
	err := check(call(s.core.shutdown))
	if err != nil {
		return errors.Wrapf(err, "slShutdown failed with code %d", uint32(err.(Result)))
	}
	return nil
}
