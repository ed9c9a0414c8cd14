package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lorcanasim/lorcana-engine/internal/config"
	"github.com/lorcanasim/lorcana-engine/internal/game/replay"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	deckOne    = flag.String("deck1", "amber-steel", "deck of the first player")
	deckTwo    = flag.String("deck2", "ruby-amethyst", "deck of the second player")
	seed       = flag.Uint64("seed", 1, "shuffle seed")
	maxSteps   = flag.Int("max-steps", 20000, "stop after this many messages")
	quiet      = flag.Bool("quiet", false, "print only the result")
	replayDir  = flag.String("replay-dir", "", "write a replay of the game to this directory")
	gauntlet   = flag.Bool("tournament", false, "play every deck against every other deck")
	games      = flag.Int("games", 2, "games per tournament match")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting lorcana simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("catalog", cfg.Catalog.Source),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *gauntlet {
		if err := runGauntlet(ctx, cfg, *games, *seed, *maxSteps, os.Stdout, logger); err != nil {
			logger.Fatal("tournament failed", zap.Error(err))
		}
		return
	}

	sim, err := newSimulation(ctx, cfg, *deckOne, *deckTwo, *seed, logger)
	if err != nil {
		logger.Fatal("failed to set up game", zap.Error(err))
	}

	out := os.Stdout
	view := newRenderer(sim.engine.Game())
	if *quiet {
		view = nil
	}
	var rec *replay.Recorder
	if *replayDir != "" {
		rec = replay.NewRecorder(sim.engine.Game(), logger.Named("replay"))
	}
	result, err := sim.run(ctx, newAutoPlayer(*seed, sim.engine.Game()), view, rec, out, *maxSteps)
	if rec != nil {
		if serr := rec.Save(*replayDir); serr != nil {
			logger.Error("failed to save replay", zap.Error(serr))
		}
	}
	if err != nil {
		logger.Error("simulation stopped", zap.Error(err))
		os.Exit(1)
	}
	fmt.Fprintln(out, newRenderer(sim.engine.Game()).summary(result))
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
