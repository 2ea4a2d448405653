// bridge.go
package framegen

import (
	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/pkg/errors"
)

const (
	// ProjectID identifies this engine to the accelerator.
	ProjectID     = "a0f57b54-1daf-4934-90ae-c4035c19df04"
	EngineVersion = "1.0.0"

	DefaultResetFrames = 2
)

type BridgeOptions struct {
	ShowConsole bool

	// Frames the reset flag stays raised after a discontinuity, 1 or 2.
	ResetFrames int

	// Generated frames per rendered frame. Zero means one.
	FramesToGenerate uint32

	Logger log.Logger
}

// FrameStats summarizes presentation since startup.
type FrameStats struct {
	// Frames the display received, generated ones included when the
	// accelerator reports them.
	TotalPresentedFrameCount uint64
	IsFrameGenerationEnabled bool

	EnginePresentedFrames uint64
	DegradedFrames        uint64
	Resets                uint64
}

// FrameResources are the attachments tagged at the end of a frame.
type FrameResources struct {
	Depth         Resource
	MotionVectors Resource
	Color         Resource
	Extent        vk.Extent2D
}

// Bridge owns the accelerator session and drives it once per frame.
// It is not safe for concurrent use.
type Bridge struct {
	acc    Accelerator
	logger log.Logger

	resetFrames      int
	framesToGenerate uint32

	initialized bool
	closed      bool
	enabled     bool

	frameIndex    uint32
	token         Token
	hasToken      bool
	simulationEnd bool
	tags          []ResourceTag

	resetCountdown int
	presented      uint64
	displayed      uint64
	degraded       uint64
	resets         uint64
}

// New starts the accelerator. It must run before the graphics instance is
// created so the accelerator can observe instance and device creation.
func New(acc Accelerator, opts BridgeOptions) (*Bridge, error) {
	if acc == nil {
		return nil, ErrNoAccelerator
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New("framegen")
	}

	b := &Bridge{
		acc:              acc,
		logger:           logger,
		resetFrames:      opts.ResetFrames,
		framesToGenerate: opts.FramesToGenerate,
	}
	if b.resetFrames <= 0 {
		b.resetFrames = DefaultResetFrames
	}
	if b.framesToGenerate == 0 {
		b.framesToGenerate = 1
	}

	err := acc.Init(Preferences{
		ShowConsole:   opts.ShowConsole,
		EngineVersion: EngineVersion,
		ProjectID:     ProjectID,
		Features:      []Feature{FeatureDLSSG, FeatureReflex},
	})
	if err != nil {
		return nil, initError(err)
	}

	return b, nil
}

func initError(err error) error {
	switch {
	case errors.Is(err, ErrDriverOutOfDate):
		return errors.Wrap(err, "framegen: initialization failed: driver is out of date")
	case errors.Is(err, ErrOSOutOfDate):
		return errors.Wrap(err, "framegen: initialization failed: OS is out of date")
	}
	return errors.Wrap(err, "framegen: initialization failed")
}

// Initialize binds the session to the created device and turns DLSS-G on.
// Any failure is fatal: the feature was already requested at startup.
func (b *Bridge) Initialize(info VulkanInfo) error {
	if b.closed {
		return ErrShutdown
	}

	if err := b.acc.SetVulkanInfo(info); err != nil {
		return errors.Wrap(err, "framegen: set vulkan info")
	}

	if err := b.acc.IsFeatureSupported(FeatureDLSSG); err != nil {
		return errors.Wrap(err, "framegen: DLSS-G is not supported on this device")
	}

	if err := b.acc.SetFeatureLoaded(FeatureDLSSG, true); err != nil {
		return errors.Wrap(err, "framegen: load DLSS-G")
	}

	if err := b.acc.SetOptions(b.options(ModeOn)); err != nil {
		return errors.Wrap(err, "framegen: set DLSS-G options")
	}

	b.initialized = true
	b.enabled = true
	b.logger.Noticef("frame generation enabled (%d generated frame(s) per frame)", b.framesToGenerate)
	return nil
}

func (b *Bridge) options(mode Mode) Options {
	return Options{Mode: mode, FramesToGenerate: b.framesToGenerate}
}

func (b *Bridge) active() bool {
	return b.initialized && b.enabled && !b.closed
}

func (b *Bridge) Enabled() bool {
	return b.active()
}

// degrade abandons interpolation for the current frame.
func (b *Bridge) degrade(what string, err error) {
	b.degraded++
	b.logger.Warningf("%s failed for frame %d: %v; skipping frame generation this frame", what, b.frameIndex, err)
	b.hasToken = false
	b.tags = nil
}

// NewFrame issues the token every accelerator call of this frame refers to.
func (b *Bridge) NewFrame(frameIndex uint32) {
	b.frameIndex = frameIndex

	b.hasToken = false
	b.simulationEnd = false
	b.tags = nil

	if !b.active() {
		return
	}

	token, err := b.acc.NewFrameToken(frameIndex)
	if err != nil {
		b.degrade("frame token", err)
		return
	}
	b.token = token
	b.hasToken = true

	b.mark(SimulationStart)
}

// Token returns the current frame token, if one was issued.
func (b *Bridge) Token() (Token, bool) {
	return b.token, b.hasToken
}

func (b *Bridge) mark(marker Marker) {
	if !b.active() || !b.hasToken {
		return
	}
	if err := b.acc.SetMarker(b.token, marker); err != nil {
		b.degrade("marker "+marker.String(), err)
	}
}

func (b *Bridge) endSimulation() {
	if !b.simulationEnd {
		b.simulationEnd = true
		b.mark(SimulationEnd)
	}
}

// SetCommonConstants pushes the frame's camera constants. The reset flag is
// raised while a reset countdown is running.
func (b *Bridge) SetCommonConstants(s Snapshot) {
	if !b.active() || !b.hasToken {
		return
	}

	reset := b.resetCountdown > 0
	if reset {
		b.resetCountdown--
	}

	if err := b.acc.SetConstants(b.token, BuildConstants(s, reset)); err != nil {
		b.degrade("constants", err)
		return
	}
	b.endSimulation()
}

// TagResources declares this frame's depth, motion vectors and pre-UI color.
// It must run before the command buffer is closed.
func (b *Bridge) TagResources(cmd uintptr, res FrameResources) {
	if !b.active() || !b.hasToken {
		return
	}
	b.endSimulation()
	if !b.hasToken {
		return
	}

	tags := []ResourceTag{
		{Buffer: BufferDepth, Resource: res.Depth, Lifecycle: ValidUntilPresent, Extent: res.Extent},
		{Buffer: BufferMotionVectors, Resource: res.MotionVectors, Lifecycle: ValidUntilPresent, Extent: res.Extent},
		{Buffer: BufferHUDLessColor, Resource: res.Color, Lifecycle: ValidUntilPresent, Extent: res.Extent},
	}

	if err := b.acc.SetTags(b.token, cmd, tags); err != nil {
		b.degrade("resource tags", err)
		return
	}
	b.tags = tags
}

// Tags returns the resources tagged for the frame in flight.
func (b *Bridge) Tags() []ResourceTag {
	return b.tags
}

// TriggerReset raises the reset flag for the next frames constants.
func (b *Bridge) TriggerReset(frames int) {
	if frames <= 0 {
		frames = b.resetFrames
	}
	if frames > b.resetCountdown {
		b.resetCountdown = frames
	}
	b.resets++
}

// ResetPending reports whether the next constants carry the reset flag.
func (b *Bridge) ResetPending() bool {
	return b.resetCountdown > 0
}

func (b *Bridge) SubmitStart() { b.mark(RenderSubmitStart) }

func (b *Bridge) SubmitEnd() { b.mark(RenderSubmitEnd) }

func (b *Bridge) PresentStart() { b.mark(PresentStart) }

// PresentEnd closes the frame: tags are dropped once the image is handed
// to presentation.
func (b *Bridge) PresentEnd(presented bool) {
	b.mark(PresentEnd)
	if presented {
		b.MarkPresented()
	}

	b.hasToken = false
	b.tags = nil

	displayed := uint64(b.refreshState())
	if displayed == 0 && presented {
		displayed = 1
	}
	b.displayed += displayed
}

// MarkPresented counts one frame presented by the engine.
func (b *Bridge) MarkPresented() {
	b.presented++
}

// refreshState returns the frames the accelerator displayed since the
// previous query, generated ones included, or 0 when it cannot tell.
func (b *Bridge) refreshState() uint32 {
	if !b.active() {
		return 0
	}
	state, err := b.acc.GetState()
	if err != nil {
		b.logger.Debugf("state query failed: %v", err)
		return 0
	}
	return state.NumFramesActuallyPresented
}

// SetEnabled toggles frame generation at runtime. Disabling drops the
// frame's token and tags; enabling again arms a reset.
func (b *Bridge) SetEnabled(on bool) {
	if !b.initialized || b.closed || on == b.enabled {
		return
	}

	mode := ModeOff
	if on {
		mode = ModeOn
	}
	if err := b.acc.SetOptions(b.options(mode)); err != nil {
		b.logger.Warningf("switching frame generation %s failed: %v", mode, err)
		return
	}

	b.enabled = on
	b.hasToken = false
	b.tags = nil
	if on {
		b.TriggerReset(b.resetFrames)
	}
	b.logger.Noticef("frame generation %s", mode)
}

func (b *Bridge) Degraded() uint64 {
	return b.degraded
}

func (b *Bridge) Stats() FrameStats {
	stats := FrameStats{
		TotalPresentedFrameCount: b.displayed,
		IsFrameGenerationEnabled: b.active(),
		EnginePresentedFrames:    b.presented,
		DegradedFrames:           b.degraded,
		Resets:                   b.resets,
	}
	return stats
}

// Shutdown ends the session. Only the first call reaches the accelerator.
// The device must be idle and still alive.
func (b *Bridge) Shutdown() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.hasToken = false
	b.tags = nil

	if err := b.acc.Shutdown(); err != nil {
		return errors.Wrap(err, "framegen: shutdown failed")
	}
	b.logger.Info("frame generation shut down")
	return nil
}
