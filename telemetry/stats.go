// Package telemetry aggregates simulation statistics and frame timings over
// rolling windows and exports them as structured logs and CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"menagerie/components"
	"menagerie/world"
)

// WindowStats holds aggregated statistics sampled at the end of a window.
type WindowStats struct {
	WindowEndFrame uint64  `csv:"window_end"`
	SimTimeSec     float64 `csv:"sim_time"`

	// Population at window end
	Alive int `csv:"alive"`
	Dead  int `csv:"dead"`

	// Action distribution at window end
	Idle    int `csv:"idle"`
	Moving  int `csv:"moving"`
	Eating  int `csv:"eating"`
	Sleep   int `csv:"sleeping"`
	Fleeing int `csv:"fleeing"`
	Attack  int `csv:"attacking"`
	Explore int `csv:"exploring"`

	// Needs distribution across live agents
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	SafetyMean    float64 `csv:"safety_mean"`
	CuriosityMean float64 `csv:"curiosity_mean"`

	// Perception load
	VisibleMean float64 `csv:"visible_mean"`
	VisibleMax  int     `csv:"visible_max"`
}

// Collect samples the store at the end of a window.
func Collect(s *world.Store, windowEnd uint64, dt float64) WindowStats {
	ws := WindowStats{
		WindowEndFrame: windowEnd,
		SimTimeSec:     float64(windowEnd) * dt,
	}

	n := uint32(s.Count())
	hunger := make([]float64, 0, n)
	energy := make([]float64, 0, n)

	var safetySum, curiositySum, visibleSum float64

	for i := uint32(0); i < n; i++ {
		if !s.Alive(i) {
			ws.Dead++
			continue
		}
		ws.Alive++

		switch s.Act(i).Kind {
		case components.ActionIdle:
			ws.Idle++
		case components.ActionMoveToTarget:
			ws.Moving++
		case components.ActionEat:
			ws.Eating++
		case components.ActionSleep:
			ws.Sleep++
		case components.ActionFlee:
			ws.Fleeing++
		case components.ActionAttack:
			ws.Attack++
		case components.ActionExplore:
			ws.Explore++
		}

		needs := s.Needs(i)
		hunger = append(hunger, float64(needs.Hunger))
		energy = append(energy, float64(needs.Energy))
		safetySum += float64(needs.Safety)
		curiositySum += float64(needs.Curiosity)

		vc := int(s.Per(i).VisibleCount)
		visibleSum += float64(vc)
		if vc > ws.VisibleMax {
			ws.VisibleMax = vc
		}
	}

	if ws.Alive > 0 {
		ws.HungerMean, ws.HungerStd, ws.HungerP50, ws.HungerP90 = distStats(hunger)
		ws.EnergyMean, ws.EnergyStd, ws.EnergyP50, ws.EnergyP90 = distStats(energy)
		ws.SafetyMean = safetySum / float64(ws.Alive)
		ws.CuriosityMean = curiositySum / float64(ws.Alive)
		ws.VisibleMean = visibleSum / float64(ws.Alive)
	}

	return ws
}

// distStats computes mean, standard deviation and the 50th/90th percentiles.
// Sorts values in place.
func distStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	std = stat.StdDev(values, nil)
	sort.Float64s(values)
	p50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, values, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("alive", s.Alive),
		slog.Int("dead", s.Dead),
		slog.Int("idle", s.Idle),
		slog.Int("moving", s.Moving),
		slog.Int("eating", s.Eating),
		slog.Int("sleeping", s.Sleep),
		slog.Int("fleeing", s.Fleeing),
		slog.Int("attacking", s.Attack),
		slog.Int("exploring", s.Explore),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_std", s.HungerStd),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("hunger_p90", s.HungerP90),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("safety_mean", s.SafetyMean),
		slog.Float64("curiosity_mean", s.CuriosityMean),
		slog.Float64("visible_mean", s.VisibleMean),
		slog.Int("visible_max", s.VisibleMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"alive", s.Alive,
		"dead", s.Dead,
		"idle", s.Idle,
		"moving", s.Moving,
		"eating", s.Eating,
		"sleeping", s.Sleep,
		"fleeing", s.Fleeing,
		"attacking", s.Attack,
		"exploring", s.Explore,
		"hunger_mean", s.HungerMean,
		"hunger_p50", s.HungerP50,
		"hunger_p90", s.HungerP90,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"safety_mean", s.SafetyMean,
		"curiosity_mean", s.CuriosityMean,
		"visible_mean", s.VisibleMean,
		"visible_max", s.VisibleMax,
	)
}
