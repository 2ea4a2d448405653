// router_test.go
package router

import (
	"fmt"
	"testing"

	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	symbols  map[string]uintptr
	instance map[string]uintptr
	device   map[string]uintptr
}

func newFakeModule() *fakeModule {
	m := &fakeModule{
		symbols: map[string]uintptr{
			"vkGetInstanceProcAddr": 0x10,
			"vkGetDeviceProcAddr":   0x20,
		},
		instance: map[string]uintptr{
			"vkCreateDevice":   0x30,
			"vkCreateInstance": 0x31,
		},
		device: map[string]uintptr{},
	}
	for i, name := range vk.SwapchainCommandNames() {
		m.device[name] = uintptr(0x100 + i)
	}
	return m
}

func (m *fakeModule) Symbol(name string) uintptr { return m.symbols[name] }

func (m *fakeModule) InstanceProc(_ uintptr, name string) uintptr { return m.instance[name] }

func (m *fakeModule) DeviceProc(_ uintptr, name string) uintptr { return m.device[name] }

func opener(m *fakeModule) Opener {
	return func(string) (Module, error) { return m, nil }
}

func TestDisabledRouterIsDirect(t *testing.T) {
	r := New(Options{Enabled: false, Open: opener(newFakeModule())})

	assert.Equal(t, Direct, r.Mode())
	assert.Zero(t, r.InstanceProcAddr())
	assert.ErrorIs(t, r.Reason(), ErrDisabled)
}

func TestLoadFailureFallsBack(t *testing.T) {
	r := New(Options{
		Enabled: true,
		Open:    func(string) (Module, error) { return nil, fmt.Errorf("not found") },
	})

	assert.Equal(t, Direct, r.Mode())
	require.Error(t, r.Reason())
	assert.Contains(t, r.Reason().Error(), DefaultModule)
}

func TestMissingProcAddrFallsBack(t *testing.T) {
	m := newFakeModule()
	delete(m.symbols, "vkGetDeviceProcAddr")

	r := New(Options{Enabled: true, Open: opener(m)})

	assert.Equal(t, Direct, r.Mode())
	assert.ErrorIs(t, r.Reason(), ErrMissingProcAddr)
}

func TestResolveInstallsInterposedTable(t *testing.T) {
	m := newFakeModule()
	r := New(Options{Enabled: true, Open: opener(m)})
	require.Equal(t, Interposed, r.Mode())
	assert.Equal(t, uintptr(0x10), r.InstanceProcAddr())

	device := r.Resolve(vk.Instance{}, vk.Device{})
	cmds := device.SwapchainCommands()

	assert.Empty(t, cmds.Missing())
	assert.Equal(t, m.device["vkQueuePresentKHR"], cmds.QueuePresentKHR)
	assert.Equal(t, m.device["vkGetDeviceQueue"], cmds.GetDeviceQueue)
	assert.Equal(t, Interposed, r.Mode())
	assert.NoError(t, r.Reason())
}

func TestAnyMissingEntryPointFallsBackTotally(t *testing.T) {
	for _, name := range append(vk.SwapchainCommandNames(), "vkCreateDevice") {
		t.Run(name, func(t *testing.T) {
			m := newFakeModule()
			delete(m.device, name)
			delete(m.instance, name)

			r := New(Options{Enabled: true, Open: opener(m)})
			device := r.Resolve(vk.Instance{}, vk.Device{})

			// No entry point is redirected, not even the ones that resolved.
			cmds := device.SwapchainCommands()
			assert.Equal(t, vk.SwapchainCommands{}, cmds)
			assert.Equal(t, Direct, r.Mode())
			assert.Zero(t, r.InstanceProcAddr())
			require.Error(t, r.Reason())
			assert.Contains(t, r.Reason().Error(), name)

			// The fallback is permanent.
			m.device[name] = 0x999
			m.instance[name] = 0x999
			r.Resolve(vk.Instance{}, vk.Device{})
			assert.Equal(t, Direct, r.Mode())
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "direct", Direct.String())
	assert.Equal(t, "interposed", Interposed.String())
}
