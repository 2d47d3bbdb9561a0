package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rengine/common"
	"github.com/milk9111/rengine/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configPath  string
	debug       bool
	profileMode string
	baseMonitor bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config (embedded defaults when empty)")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging and the stats overlay")
	flag.StringVar(&opts.profileMode, "profile", "", "write a cpu or mem profile to the working directory")
	flag.BoolVar(&opts.baseMonitor, "m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger, err := newLogger(opts.debug)
	if err != nil {
		log.Fatal(err)
	}

	// Fatal exits; run has already flushed the profile and closed the game.
	if err := run(opts, logger); err != nil {
		logger.Fatal("rengine stopped", zap.Error(err))
	}
	_ = logger.Sync()
}

func run(opts options, logger *zap.Logger) error {
	stopProfile, err := common.StartProfile(opts.profileMode, ".")
	if err != nil {
		return err
	}
	defer stopProfile()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game, err := NewGame(ctx, cfg, logger, opts.debug)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("frame loop: %w", err)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	return cfg.Build()
}
