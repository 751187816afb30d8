package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseSpatialGrid = "spatial_grid"
	PhasePerception  = "perception"
	PhaseDecision    = "decision"
	PhaseKinematics  = "kinematics"
	PhaseDrives      = "drives"
	PhaseChaos       = "chaos"
	PhaseValidation  = "validation"
	PhaseFrameLog    = "framelog"
	PhaseTelemetry   = "telemetry"
)

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new simulation frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Frame timing
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total frame time
	PhasePct map[string]float64

	// Throughput
	FramesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalFrame time.Duration
	var minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalFrame += s.FrameDuration

		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgFrame := totalFrame / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgFrame > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgFrame) * 100
		}
	}

	// Calculate throughput
	var framesPerSec float64
	if avgFrame > 0 {
		framesPerSec = float64(time.Second) / float64(avgFrame)
	}

	return PerfStats{
		AvgFrameDuration: avgFrame,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FramesPerSecond:  framesPerSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}

	// Add phase breakdowns
	phases := []string{
		PhaseSpatialGrid, PhasePerception, PhaseDecision,
		PhaseKinematics, PhaseDrives, PhaseChaos,
		PhaseValidation, PhaseFrameLog, PhaseTelemetry,
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgFrameUS     int64   `csv:"avg_frame_us"`
	MinFrameUS     int64   `csv:"min_frame_us"`
	MaxFrameUS     int64   `csv:"max_frame_us"`
	FramesPerSec   float64 `csv:"frames_per_sec"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	PerceptionPct  float64 `csv:"perception_pct"`
	DecisionPct    float64 `csv:"decision_pct"`
	KinematicsPct  float64 `csv:"kinematics_pct"`
	DrivesPct      float64 `csv:"drives_pct"`
	ChaosPct       float64 `csv:"chaos_pct"`
	ValidationPct  float64 `csv:"validation_pct"`
	FrameLogPct    float64 `csv:"framelog_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      int64(windowEnd),
		AvgFrameUS:     s.AvgFrameDuration.Microseconds(),
		MinFrameUS:     s.MinFrameDuration.Microseconds(),
		MaxFrameUS:     s.MaxFrameDuration.Microseconds(),
		FramesPerSec:   s.FramesPerSecond,
		SpatialGridPct: s.PhasePct[PhaseSpatialGrid],
		PerceptionPct:  s.PhasePct[PhasePerception],
		DecisionPct:    s.PhasePct[PhaseDecision],
		KinematicsPct:  s.PhasePct[PhaseKinematics],
		DrivesPct:      s.PhasePct[PhaseDrives],
		ChaosPct:       s.PhasePct[PhaseChaos],
		ValidationPct:  s.PhasePct[PhaseValidation],
		FrameLogPct:    s.PhasePct[PhaseFrameLog],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
