// router.go
package router

import (
	"runtime"
	"strings"

	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

// DefaultModule is the Streamline interposer shipped next to the executable.
const DefaultModule = "sl.interposer.dll"

type Mode int

const (
	// Presentation calls go straight to the driver.
	Direct Mode = iota
	// Presentation calls go through the interposing module.
	Interposed
)

func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Interposed:
		return "interposed"
	}
	return "unknown"
}

var (
	ErrDisabled            = errors.New("router: interposer disabled")
	ErrUnsupportedPlatform = errors.New("router: interposer is only available on windows")
	ErrMissingProcAddr     = errors.New("router: module does not export vkGetInstanceProcAddr and vkGetDeviceProcAddr")
)

// Router selects where the presentation entry points dispatch to.
type Router interface {
	Mode() Mode

	// InstanceProcAddr returns the interposer's vkGetInstanceProcAddr, or 0
	// when presentation is direct.
	InstanceProcAddr() uintptr

	// Resolve installs the presentation table on device. Any missing entry
	// point switches the router to direct presentation for good.
	Resolve(instance vk.Instance, device vk.Device) vk.Device

	// Reason explains why the router is direct, if it is.
	Reason() error
}

// Module is a loaded interposing library.
type Module interface {
	Symbol(name string) uintptr
	InstanceProc(instance uintptr, name string) uintptr
	DeviceProc(device uintptr, name string) uintptr
}

// Opener loads a Module from the given path.
type Opener func(path string) (Module, error)

type Options struct {
	Enabled bool
	Path    string

	// Open defaults to the system library loader. The system loader only
	// works on windows.
	Open Opener

	Logger log.Logger
}

// New attempts to load the interposing module and returns a direct router
// if that fails for any reason.
func New(opts Options) Router {
	logger := opts.Logger
	if logger == nil {
		logger = log.New("router")
	}

	path := opts.Path
	if path == "" {
		path = DefaultModule
	}

	if !opts.Enabled {
		return &direct{reason: ErrDisabled}
	}

	open := opts.Open
	if open == nil {
		if runtime.GOOS != "windows" {
			logger.Infof("interposer unavailable on %s; presenting directly", runtime.GOOS)
			return &direct{reason: ErrUnsupportedPlatform}
		}
		open = OpenModule
	}

	mod, err := open(path)
	if err != nil {
		logger.Warningf("failed to load %s: %v; presenting directly", path, err)
		return &direct{reason: errors.Wrapf(err, "router: load %s", path)}
	}

	instanceProc := mod.Symbol("vkGetInstanceProcAddr")
	if instanceProc == 0 || mod.Symbol("vkGetDeviceProcAddr") == 0 {
		logger.Warningf("%s: %v; presenting directly", path, ErrMissingProcAddr)
		return &direct{reason: ErrMissingProcAddr}
	}

	logger.Infof("loaded interposer %s", path)
	return &interposed{
		mod:          mod,
		path:         path,
		instanceProc: instanceProc,
		logger:       logger,
	}
}

// NewDirect returns a router that always presents through the driver.
func NewDirect() Router {
	return &direct{reason: ErrDisabled}
}

type direct struct {
	reason error
}

func (r *direct) Mode() Mode                { return Direct }
func (r *direct) InstanceProcAddr() uintptr { return 0 }
func (r *direct) Reason() error             { return r.reason }

func (r *direct) Resolve(_ vk.Instance, device vk.Device) vk.Device {
	return device.WithSwapchainCommands(device.DirectSwapchainCommands())
}

type interposed struct {
	mod          Module
	path         string
	instanceProc uintptr
	logger       log.Logger

	// set once a resolve falls back
	fallback *direct
}

func (r *interposed) Mode() Mode {
	if r.fallback != nil {
		return r.fallback.Mode()
	}
	return Interposed
}

func (r *interposed) InstanceProcAddr() uintptr {
	if r.fallback != nil {
		return 0
	}
	return r.instanceProc
}

func (r *interposed) Reason() error {
	if r.fallback != nil {
		return r.fallback.reason
	}
	return nil
}

func (r *interposed) Resolve(instance vk.Instance, device vk.Device) vk.Device {
	if r.fallback != nil {
		return r.fallback.Resolve(instance, device)
	}

	cmds := vk.ResolveSwapchainCommands(func(name string) uintptr {
		return r.mod.DeviceProc(device.Handle(), name)
	})

	missing := cmds.Missing()
	for _, name := range []string{"vkCreateDevice", "vkCreateInstance"} {
		if r.mod.InstanceProc(instance.RawHandle(), name) == 0 {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		reason := errors.Errorf("router: %s is missing %s", r.path, strings.Join(missing, ", "))
		r.logger.Warningf("%v; presenting directly", reason)
		if !vk.DriverBound() {
			r.logger.Warningf("system loader unavailable; direct entry points still resolve through %s", r.path)
		}
		r.fallback = &direct{reason: reason}
		return r.fallback.Resolve(instance, device)
	}

	r.logger.Debugf("presentation entry points resolved through %s", r.path)
	return device.WithSwapchainCommands(cmds)
}
