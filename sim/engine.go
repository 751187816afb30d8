// Package sim assembles the per-frame pipeline and runs it: spatial grid
// rebuild, perception, decision, kinematics, drives, optional fault
// injection, validation, frame logging.
package sim

import (
	"fmt"
	"log/slog"

	"menagerie/components"
	"menagerie/config"
	"menagerie/framelog"
	"menagerie/systems"
	"menagerie/telemetry"
	"menagerie/world"
)

// Engine owns the store and the stages and steps them in a fixed order.
// Single-threaded: stage results are only well-defined when each stage sees
// the complete output of the previous one.
type Engine struct {
	cfg   *config.Config
	store *world.Store

	grid       *systems.Grid
	perception *systems.Perception
	decision   *systems.Decision
	kinematics *systems.Kinematics
	drives     *systems.Drives
	chaos      *Chaos

	perf *telemetry.PerfCollector
	logw *framelog.Writer

	frame   uint64
	records []framelog.Record
}

// NewEngine builds an engine from config: populates the store, sizes the
// grid, and opens the frame log if one is configured.
func NewEngine(cfg *config.Config) (*Engine, error) {
	store := world.NewStore()
	store.Populate(cfg.Population.Count, cfg.Simulation.Seed, world.PopulateOpts{
		WorldSize:       cfg.Derived.WorldSize,
		ViewRangeBase:   cfg.Derived.ViewRange,
		ViewRangeSpread: cfg.Perception.ViewRangeSpread,
		ViewAngle:       cfg.Derived.ViewAngle,
	})

	grid := systems.NewGrid(cfg.World.GridSize, cfg.Derived.CellSize)

	e := &Engine{
		cfg:        cfg,
		store:      store,
		grid:       grid,
		perception: systems.NewPerception(grid),
		decision:   &systems.Decision{Seed: cfg.Simulation.Seed},
		kinematics: &systems.Kinematics{
			MaxSpeed:     cfg.Derived.MaxSpeed,
			Acceleration: cfg.Derived.Accel,
			WorldSize:    cfg.Derived.WorldSize,
		},
		drives: &systems.Drives{Seed: cfg.Simulation.Seed},
		chaos: &Chaos{
			Seed:        cfg.Simulation.Seed,
			Probability: float32(cfg.Chaos.Probability),
			Enabled:     cfg.Chaos.Enabled,
		},
		perf:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		records: make([]framelog.Record, 0, cfg.Population.Count),
	}

	if cfg.Log.Path != "" {
		w, err := framelog.Create(cfg.Log.Path)
		if err != nil {
			return nil, fmt.Errorf("opening frame log: %w", err)
		}
		e.logw = w
		slog.Info("frame log enabled", "path", cfg.Log.Path)
	}

	return e, nil
}

// Store returns the entity store.
func (e *Engine) Store() *world.Store { return e.store }

// Frame returns the number of completed frames.
func (e *Engine) Frame() uint64 { return e.frame }

// Perf returns the frame-timing collector.
func (e *Engine) Perf() *telemetry.PerfCollector { return e.perf }

// Step runs one frame through every stage. A validation failure aborts the
// frame and is returned; the engine must not be stepped again after that.
func (e *Engine) Step() error {
	dt := e.cfg.Derived.DT32

	e.perf.StartFrame()
	defer e.perf.EndFrame()

	e.perf.StartPhase(telemetry.PhaseSpatialGrid)
	e.grid.Rebuild(e.store)

	e.perf.StartPhase(telemetry.PhasePerception)
	e.perception.Run(e.store)

	e.perf.StartPhase(telemetry.PhaseDecision)
	e.decision.Run(e.store, e.frame)

	e.perf.StartPhase(telemetry.PhaseKinematics)
	e.kinematics.Run(e.store, dt)

	e.perf.StartPhase(telemetry.PhaseDrives)
	e.drives.Run(e.store, dt, e.frame)

	e.perf.StartPhase(telemetry.PhaseChaos)
	e.chaos.MaybeCorrupt(e.store, e.cfg.Derived.WorldSize, e.frame)

	e.perf.StartPhase(telemetry.PhaseValidation)
	if err := Validate(e.store, e.cfg.Derived.WorldSize, e.frame); err != nil {
		return err
	}

	if e.logw != nil {
		e.perf.StartPhase(telemetry.PhaseFrameLog)
		if err := e.logw.WriteFrame(e.collectRecords()); err != nil {
			return fmt.Errorf("frame %d: %w", e.frame, err)
		}
	}

	e.frame++
	return nil
}

// Run steps the engine for the given number of frames.
func (e *Engine) Run(frames int) error {
	for i := 0; i < frames; i++ {
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// collectRecords snapshots every agent, dead ones included, in index order.
// The log is a full-population record per frame; readers rely on the count
// being constant across frames.
func (e *Engine) collectRecords() []framelog.Record {
	e.records = e.records[:0]
	n := uint32(e.store.Count())
	for i := uint32(0); i < n; i++ {
		pos := e.store.Pos(i)
		needs := e.store.Needs(i)
		kind := e.store.Act(i).Kind
		if !e.store.Alive(i) {
			kind = components.ActionIdle
		}
		e.records = append(e.records, framelog.Record{
			X:      pos.X,
			Y:      pos.Y,
			Action: kind,
			Hunger: needs.Hunger,
			Energy: needs.Energy,
		})
	}
	return e.records
}

// Close releases the frame log, if any.
func (e *Engine) Close() error {
	if e.logw != nil {
		return e.logw.Close()
	}
	return nil
}
