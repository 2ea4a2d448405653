// formats.go
package main

import (
	"bytes"
	"fmt"
	"io"

	sdl "github.com/NOT-REAL-GAMES/sdl3go"
	"github.com/NOT-REAL-GAMES/vkframegen/swapchain"
	"github.com/NOT-REAL-GAMES/vkframegen/vk"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Formats lists what the surface supports and what the swapchain would pick.
func Formats(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "init SDL")
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, sdl.WINDOW_VULKAN)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer window.Destroy()

	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "load vulkan")
	}

	exts, err := sdl.VulkanGetInstanceExtensions()
	if err != nil {
		return errors.Wrap(err, "query instance extensions")
	}

	g := &gpu{}
	defer g.destroy()

	if g.instance, err = createInstance(cfg.Window.Title, exts); err != nil {
		return err
	}
	surfHandle, err := window.VulkanCreateSurface(g.instance.Handle())
	if err != nil {
		return errors.Wrap(err, "create surface")
	}
	g.surface = vk.NewSurfaceKHR(surfHandle)

	if g.physical, _, err = pickDevice(g.instance, g.surface); err != nil {
		return err
	}

	support, err := swapchain.QuerySupport(g.physical, g.surface)
	if err != nil {
		return errors.Wrap(err, "query surface support")
	}

	requested := pixelSize(window)
	var buf bytes.Buffer
	if err := writeSupport(&buf, support, cfg.PresentPolicy(), requested); err != nil {
		return err
	}
	logger.Noticef("surface support\n%s", buf.String())
	return nil
}

func writeSupport(w io.Writer, support swapchain.Support, policy swapchain.PresentPolicy, requested vk.Extent2D) error {
	chosen, err := swapchain.ChooseSurfaceFormat(support.Formats)
	if err != nil {
		return err
	}
	mode := swapchain.ChoosePresentMode(support.PresentModes, policy)

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Kind", "Value", "Chosen"})
	for _, f := range support.Formats {
		table.Append([]string{
			"format",
			fmt.Sprintf("%s / colorspace %d", f.Format, f.ColorSpace),
			mark(f == chosen),
		})
	}
	for _, m := range support.PresentModes {
		table.Append([]string{"present mode", m.String(), mark(m == mode)})
	}

	extent := swapchain.ChooseExtent(support.Capabilities, requested)
	table.Append([]string{"extent", fmt.Sprintf("%dx%d", extent.Width, extent.Height), mark(true)})
	table.Append([]string{"images", fmt.Sprintf("%d", swapchain.ChooseImageCount(support.Capabilities)), mark(true)})
	table.SetFooter([]string{"policy", policy.String(), ""})

	table.Render()
	return nil
}

func mark(chosen bool) string {
	if chosen {
		return "*"
	}
	return ""
}
