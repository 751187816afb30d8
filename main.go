package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"menagerie/config"
	"menagerie/sim"
	"menagerie/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", 0, "Run N frames (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config; -1 = time-based)")
	population := flag.Int("population", 0, "Agent count (0 = use config)")
	chaosEnabled := flag.Bool("chaos", false, "Enable fault injection")
	logPath := flag.String("log", "", "Frame log path (.zst = compressed; empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in frames (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// CLI overrides
	if *frames > 0 {
		cfg.Simulation.Frames = *frames
	}
	if *seed == -1 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	} else if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *population > 0 {
		cfg.Population.Count = *population
	}
	if *chaosEnabled {
		cfg.Chaos.Enabled = true
	}
	if *logPath != "" {
		cfg.Log.Path = *logPath
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	engine, err := sim.NewEngine(cfg)
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	slog.Info("starting simulation",
		"seed", cfg.Simulation.Seed,
		"population", cfg.Population.Count,
		"frames", cfg.Simulation.Frames,
		"chaos", cfg.Chaos.Enabled,
	)

	window := cfg.Telemetry.StatsWindow
	if window < 1 {
		window = 1
	}

	for i := 0; i < cfg.Simulation.Frames; i++ {
		if err := engine.Step(); err != nil {
			var verr *sim.ValidationError
			if errors.As(err, &verr) {
				slog.Error("validation failed",
					"frame", verr.Frame,
					"agent", verr.Agent,
					"field", verr.Field,
					"reason", verr.Reason,
					"value", verr.Value,
				)
			} else {
				slog.Error("simulation error", "error", err)
			}
			os.Exit(1)
		}

		if engine.Frame()%uint64(window) == 0 {
			stats := telemetry.Collect(engine.Store(), engine.Frame(), cfg.Physics.DT)
			perf := engine.Perf().Stats()

			if *logStats {
				stats.LogStats()
				perf.LogStats()
			}
			if err := output.WriteStats(stats); err != nil {
				slog.Error("failed to write stats", "error", err)
				os.Exit(1)
			}
			if err := output.WritePerf(perf, engine.Frame()); err != nil {
				slog.Error("failed to write perf", "error", err)
				os.Exit(1)
			}
		}
	}

	final := telemetry.Collect(engine.Store(), engine.Frame(), cfg.Physics.DT)
	slog.Info("simulation complete",
		"frames", engine.Frame(),
		"alive", final.Alive,
		"dead", final.Dead,
		"hunger_mean", final.HungerMean,
		"energy_mean", final.EnergyMean,
	)
}
