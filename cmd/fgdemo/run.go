// run.go
package main

import (
	"context"
	"math"

	sdl "github.com/NOT-REAL-GAMES/sdl3go"
	"github.com/NOT-REAL-GAMES/vkframegen/config"
	"github.com/NOT-REAL-GAMES/vkframegen/frame"
	"github.com/NOT-REAL-GAMES/vkframegen/framegen"
	"github.com/NOT-REAL-GAMES/vkframegen/router"
	"github.com/NOT-REAL-GAMES/vkframegen/streamline"
	"github.com/NOT-REAL-GAMES/vkframegen/swapchain"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	nearPlane = 0.1
	farPlane  = 100.0
	orbitRate = 0.01
)

// Run renders until the window closes or the frame limit is reached.
func Run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)
	if ctx.Bool("no-framegen") {
		cfg.Framegen.Enabled = false
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "init SDL")
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, sdl.WINDOW_VULKAN)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer window.Destroy()

	// Streamline must be initialized before the instance exists.
	bridge, err := newBridge(cfg)
	if err != nil {
		return err
	}

	rt := router.New(router.Options{
		Enabled: bridge != nil,
		Path:    cfg.Framegen.Interposer,
		Logger:  logger,
	})
	if addr := rt.InstanceProcAddr(); addr != 0 {
		err = vk.InitWithProcAddr(addr)
	} else {
		err = vk.Init()
	}
	if err != nil {
		return errors.Wrap(err, "load vulkan")
	}

	exts, err := sdl.VulkanGetInstanceExtensions()
	if err != nil {
		return errors.Wrap(err, "query instance extensions")
	}

	g := &gpu{}
	defer g.destroy()
	if bridge != nil {
		// no-op once the orchestrator has closed
		defer func() { _ = bridge.Shutdown() }()
	}

	if g.instance, err = createInstance(cfg.Window.Title, exts); err != nil {
		return err
	}

	surfHandle, err := window.VulkanCreateSurface(g.instance.Handle())
	if err != nil {
		return errors.Wrap(err, "create surface")
	}
	g.surface = vk.NewSurfaceKHR(surfHandle)

	if g.physical, g.family, err = pickDevice(g.instance, g.surface); err != nil {
		return err
	}
	device, err := createDevice(g.physical, g.family)
	if err != nil {
		return err
	}
	g.device = rt.Resolve(g.instance, device)
	g.queue = g.device.GetQueue(g.family, 0)
	logger.Infof("presentation: %s", rt.Mode())

	if bridge != nil {
		err := bridge.Initialize(framegen.VulkanInfo{
			Instance:               g.instance.RawHandle(),
			PhysicalDevice:         g.physical.Handle(),
			Device:                 g.device.Handle(),
			GraphicsQueueFamily:    g.family,
			ComputeQueueFamily:     g.family,
			OpticalFlowQueueFamily: g.family,
		})
		if err != nil {
			return err
		}
		if !cfg.Framegen.Enabled {
			bridge.SetEnabled(false)
		}
	}

	if g.pool, err = createCommandPool(g.device, g.family); err != nil {
		return err
	}

	win := newSurfaceWindow(g.physical, g.surface, func() vk.Extent2D {
		return pixelSize(window)
	})

	orch, err := frame.New(frame.Options{
		Device:   g.device,
		Window:   win,
		Commands: frame.NewCommandPool(g.device, g.pool),
		NewChain: frame.SwapChainFactory(swapchain.Options{
			Device:         g.device,
			PhysicalDevice: g.physical,
			Surface:        g.surface,
			GraphicsQueue:  g.queue,
			GraphicsFamily: g.family,
			PresentFamily:  g.family,
			FramesInFlight: cfg.Swapchain.FramesInFlight,
			PresentPolicy:  cfg.PresentPolicy(),
		}),
		Bridge: bridge,
	})
	if err != nil {
		return err
	}

	toggle := config.NewToggle(cfg.Framegen.Enabled)
	if path := ctx.GlobalString("config"); path != "" {
		watchCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			err := config.Watch(watchCtx, path, func(c config.Config) {
				toggle.Set(c.Framegen.Enabled)
			})
			if err != nil {
				logger.Warningf("%v", err)
			}
		}()
	}

	timer := &frameTimer{}
	loopErr := renderLoop(orch, win, bridge, toggle, ctx.Int("frames"), timer)

	// Close waits for the device before anything it used is destroyed.
	if err := orch.Close(); err != nil && loopErr == nil {
		loopErr = err
	}

	times := timer.Summary()
	times.Recreate = orch.Recreations()
	if bridge != nil {
		stats := bridge.Stats()
		displayFrameStats(times, &stats)
	} else {
		displayFrameStats(times, nil)
	}
	return loopErr
}

// newBridge returns nil when frame generation is off or the SDK cannot be
// loaded.
func newBridge(cfg config.Config) (*framegen.Bridge, error) {
	if !cfg.Framegen.Enabled {
		return nil, nil
	}

	sdk, err := streamline.Load(cfg.Framegen.Interposer, nil)
	if err != nil {
		logger.Warningf("frame generation unavailable: %v", err)
		return nil, nil
	}

	return framegen.New(sdk, framegen.BridgeOptions{
		ShowConsole:      cfg.Framegen.ShowConsole,
		ResetFrames:      cfg.Framegen.ResetFrames,
		FramesToGenerate: uint32(cfg.Framegen.FramesToGenerate),
	})
}

func renderLoop(orch *frame.Orchestrator, win *surfaceWindow, bridge *framegen.Bridge, toggle *config.Toggle, limit int, timer *frameTimer) error {
	camera := framegen.NewCamera()
	var angle float64

	for frames := 0; limit == 0 || frames < limit; {
		if !win.Poll() {
			return nil
		}
		if on, changed := toggle.Changed(); changed && bridge != nil {
			logger.Noticef("frame generation: %t", on)
			bridge.SetEnabled(on)
		}

		timer.Begin()
		f, err := orch.BeginFrame()
		if err != nil {
			return err
		}
		if f == nil {
			// chain was recreated
			camera.Reset()
			continue
		}

		angle += orbitRate
		eye := mgl32.Vec3{float32(5 * math.Cos(angle)), 2, float32(5 * math.Sin(angle))}
		camera.Advance(
			mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
			framegen.Perspective(mgl32.DegToRad(60), orch.AspectRatio(), nearPlane, farPlane),
		)
		orch.SetCommonConstants(camera, nearPlane, farPlane)

		orch.BeginRenderPass(f)
		orch.EndRenderPass(f)

		if err := orch.EndFrame(); err != nil {
			return err
		}
		timer.End()
		frames++
	}
	return nil
}
