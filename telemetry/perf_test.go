package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorWindow(t *testing.T) {
	p := NewPerfCollector(4)

	for i := 0; i < 6; i++ {
		p.StartFrame()
		p.StartPhase(PhasePerception)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseKinematics)
		p.EndFrame()
	}

	stats := p.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Errorf("avg frame duration = %v, want > 0", stats.AvgFrameDuration)
	}
	if stats.MinFrameDuration > stats.MaxFrameDuration {
		t.Errorf("min %v > max %v", stats.MinFrameDuration, stats.MaxFrameDuration)
	}
	if stats.FramesPerSecond <= 0 {
		t.Errorf("frames per second = %v, want > 0", stats.FramesPerSecond)
	}

	if _, ok := stats.PhaseAvg[PhasePerception]; !ok {
		t.Error("perception phase missing from averages")
	}
	if pct := stats.PhasePct[PhasePerception]; pct <= 0 || pct > 100 {
		t.Errorf("perception pct = %v, want in (0, 100]", pct)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(4)
	stats := p.Stats()

	if stats.AvgFrameDuration != 0 {
		t.Errorf("avg frame duration = %v, want 0 with no samples", stats.AvgFrameDuration)
	}
	if len(stats.PhasePct) != 0 {
		t.Errorf("phase pct = %v, want empty", stats.PhasePct)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	p := NewPerfCollector(2)
	p.StartFrame()
	p.StartPhase(PhaseSpatialGrid)
	p.EndFrame()

	row := p.Stats().ToCSV(60)
	if row.WindowEnd != 60 {
		t.Errorf("window end = %d, want 60", row.WindowEnd)
	}
	if row.SpatialGridPct <= 0 {
		t.Errorf("spatial grid pct = %v, want > 0", row.SpatialGridPct)
	}
}
