// fake_test.go
package framegen

import (
	"fmt"

	"github.com/pkg/errors"
)

type fakeAccelerator struct {
	calls []string

	failOn map[string]error

	prefs     Preferences
	info      VulkanInfo
	options   []Options
	constants []Constants
	tags      [][]ResourceTag
	markers   []Marker
	state     State
	nextToken Token
	shutdowns int
}

func newFakeAccelerator() *fakeAccelerator {
	return &fakeAccelerator{failOn: map[string]error{}, nextToken: 100}
}

func (a *fakeAccelerator) call(name string) error {
	a.calls = append(a.calls, name)
	return a.failOn[name]
}

func (a *fakeAccelerator) Init(prefs Preferences) error {
	a.prefs = prefs
	return a.call("init")
}

func (a *fakeAccelerator) SetVulkanInfo(info VulkanInfo) error {
	a.info = info
	return a.call("vulkan-info")
}

func (a *fakeAccelerator) IsFeatureSupported(feature Feature) error {
	return a.call(fmt.Sprintf("supported:%d", feature))
}

func (a *fakeAccelerator) SetFeatureLoaded(feature Feature, loaded bool) error {
	return a.call(fmt.Sprintf("loaded:%d:%t", feature, loaded))
}

func (a *fakeAccelerator) SetOptions(opts Options) error {
	if err := a.call("options:" + opts.Mode.String()); err != nil {
		return err
	}
	a.options = append(a.options, opts)
	return nil
}

func (a *fakeAccelerator) NewFrameToken(frameIndex uint32) (Token, error) {
	if err := a.call(fmt.Sprintf("token:%d", frameIndex)); err != nil {
		return 0, err
	}
	a.nextToken++
	return a.nextToken, nil
}

func (a *fakeAccelerator) SetConstants(token Token, consts Constants) error {
	if err := a.call("constants"); err != nil {
		return err
	}
	a.constants = append(a.constants, consts)
	return nil
}

func (a *fakeAccelerator) SetTags(token Token, cmd uintptr, tags []ResourceTag) error {
	if err := a.call("tags"); err != nil {
		return err
	}
	a.tags = append(a.tags, tags)
	return nil
}

func (a *fakeAccelerator) SetMarker(token Token, marker Marker) error {
	if err := a.call("marker:" + marker.String()); err != nil {
		return err
	}
	a.markers = append(a.markers, marker)
	return nil
}

func (a *fakeAccelerator) GetState() (State, error) {
	return a.state, a.call("state")
}

func (a *fakeAccelerator) Shutdown() error {
	a.shutdowns++
	return a.call("shutdown")
}

func (a *fakeAccelerator) reset() {
	a.calls = nil
}

var errFake = errors.New("fake accelerator failure")
