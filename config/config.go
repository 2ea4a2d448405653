// config.go
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/NOT-REAL-GAMES/vkframegen/streamline"
	"github.com/NOT-REAL-GAMES/vkframegen/swapchain"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window    Window    `yaml:"window" toml:"window"`
	Swapchain Swapchain `yaml:"swapchain" toml:"swapchain"`
	Framegen  Framegen  `yaml:"framegen" toml:"framegen"`
	Log       Log       `yaml:"log" toml:"log"`
}

type Window struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

type Swapchain struct {
	FramesInFlight int `yaml:"frames_in_flight" toml:"frames_in_flight"`

	// low-latency or vsync
	PresentMode string `yaml:"present_mode" toml:"present_mode"`
}

type Framegen struct {
	Enabled          bool   `yaml:"enabled" toml:"enabled"`
	Interposer       string `yaml:"interposer" toml:"interposer"`
	ResetFrames      int    `yaml:"reset_frames" toml:"reset_frames"`
	FramesToGenerate int    `yaml:"frames_to_generate" toml:"frames_to_generate"`
	ShowConsole      bool   `yaml:"show_console" toml:"show_console"`
}

type Log struct {
	Level string `yaml:"level" toml:"level"`

	// auto, always or never
	Color string `yaml:"color" toml:"color"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "vkframegen",
			Width:  1280,
			Height: 720,
		},
		Swapchain: Swapchain{
			FramesInFlight: swapchain.DefaultFramesInFlight,
			PresentMode:    swapchain.LowLatency.String(),
		},
		Framegen: Framegen{
			Enabled:          true,
			Interposer:       streamline.DefaultPath,
			ResetFrames:      2,
			FramesToGenerate: 1,
		},
		Log: Log{
			Level: "info",
			Color: "auto",
		},
	}
}

// Load reads path on top of the defaults. The format follows the
// extension: .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: read")
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext on top of the defaults.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		err := yaml.Unmarshal(data, &cfg)
		if err != nil {
			return Config{}, errors.Wrap(err, "config: parse yaml")
		}
	case "toml":
		err := toml.Unmarshal(data, &cfg)
		if err != nil {
			return Config{}, errors.Wrap(err, "config: parse toml")
		}
	default:
		return Config{}, errors.Errorf("config: unsupported format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Swapchain.FramesInFlight < 1 || c.Swapchain.FramesInFlight > 3 {
		return errors.Errorf("config: frames_in_flight %d outside 1..3", c.Swapchain.FramesInFlight)
	}
	if _, err := swapchain.ParsePresentPolicy(c.Swapchain.PresentMode); err != nil {
		return errors.Wrap(err, "config")
	}
	if c.Framegen.ResetFrames < 1 || c.Framegen.ResetFrames > 2 {
		return errors.Errorf("config: reset_frames %d outside 1..2", c.Framegen.ResetFrames)
	}
	if c.Framegen.FramesToGenerate < 1 || c.Framegen.FramesToGenerate > 3 {
		return errors.Errorf("config: frames_to_generate %d outside 1..3", c.Framegen.FramesToGenerate)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "config")
	}
	if _, err := log.ParseColor(c.Log.Color, io.Discard); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}

// PresentPolicy returns the validated present policy.
func (c Config) PresentPolicy() swapchain.PresentPolicy {
	policy, _ := swapchain.ParsePresentPolicy(c.Swapchain.PresentMode)
	return policy
}
