// logging.go
package main

import (
	"os"

	"github.com/NOT-REAL-GAMES/vkframegen/config"
	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var logger = log.New("fgdemo")

func loadConfig(ctx *cli.Context) (config.Config, error) {
	path := ctx.GlobalString("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

func setupLogging(ctx *cli.Context, cfg config.Config) {
	color, _ := log.ParseColor(cfg.Log.Color, os.Stdout)
	log.SetSink(os.Stdout, color)

	level, _ := log.ParseLevel(cfg.Log.Level)
	log.SetLevel(level)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
