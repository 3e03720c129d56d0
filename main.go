/*
Builds the crown described by a TOML file, draws it on the headless
renderer and exports it.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/crown/engine"
	"github.com/spaghettifunk/crown/engine/assets/exporters"
	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/testbed"
)

func main() {
	config := testbed.DefaultApplicationConfig()

	formats := flag.String("formats", "obj,glb", "comma separated export formats: obj, glb, bin, uv")
	logLevel := flag.String("log-level", "info", "debug, info, warn, error")
	frames := flag.Uint("frames", uint(config.Frames), "headless frames drawn after each build")
	flag.StringVar(&config.ConfigPath, "config", config.ConfigPath, "crown description (TOML); empty builds the default crown")
	flag.StringVar(&config.OutputDir, "out", config.OutputDir, "output directory")
	flag.BoolVar(&config.Watch, "watch", false, "rebuild whenever the config file changes")
	flag.IntVar(&config.UVImageSize, "uv-size", config.UVImageSize, "edge length of UV layout images")
	flag.Parse()

	config.LogLevel = core.ParseLogLevel(*logLevel)
	config.Frames = uint32(*frames)
	parsed, err := exporters.ParseFormats(*formats)
	if err != nil {
		core.LogFatal("%s", err)
	}
	config.Formats = parsed

	tb, err := testbed.NewTestGame(config)
	if err != nil {
		core.LogFatal("%s", err)
	}

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Boot(); err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	// Create a channel to receive signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	ctx, cancel := context.WithCancel(context.Background())
	// Start a goroutine that cancels the run when a signal arrives
	go func() {
		<-sigCh
		cancel()
	}()

	runErr := e.Run(ctx)
	cancel()
	if err := e.Shutdown(); err != nil {
		core.LogError("%s", err)
	}
	if runErr != nil {
		core.LogError("%s", runErr)
		os.Exit(1)
	}
}
