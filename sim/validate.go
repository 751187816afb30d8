package sim

import (
	"fmt"
	"math"

	"menagerie/world"
)

// ValidationError reports the first invariant violation found in a frame.
// The simulation stops on the first one; a corrupt frame makes every later
// frame meaningless.
type ValidationError struct {
	Frame  uint64
	Agent  uint32
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("frame %d agent %d: %s %s (value %g)",
		e.Frame, e.Agent, e.Field, e.Reason, e.Value)
}

// Validate checks structural and numeric invariants after a frame has been
// fully stepped. Dead agents are skipped: their state is frozen at death and
// may hold stale values (visible counts in particular).
func Validate(s *world.Store, worldSize float32, frame uint64) error {
	if got, want := s.VisibleBuffers(), s.Count(); got != want {
		return &ValidationError{
			Frame: frame, Agent: 0,
			Field:  "visible_buffers",
			Value:  float64(got),
			Reason: fmt.Sprintf("length mismatch, want %d", want),
		}
	}

	n := uint32(s.Count())
	for i := uint32(0); i < n; i++ {
		if !s.Alive(i) {
			continue
		}

		pos := s.Pos(i)
		if err := checkFinite(frame, i, "position.x", pos.X); err != nil {
			return err
		}
		if err := checkFinite(frame, i, "position.y", pos.Y); err != nil {
			return err
		}
		if err := checkRange(frame, i, "position.x", pos.X, 0, worldSize); err != nil {
			return err
		}
		if err := checkRange(frame, i, "position.y", pos.Y, 0, worldSize); err != nil {
			return err
		}

		needs := s.Needs(i)
		for _, f := range [...]struct {
			name string
			v    float32
		}{
			{"needs.hunger", needs.Hunger},
			{"needs.energy", needs.Energy},
			{"needs.safety", needs.Safety},
			{"needs.curiosity", needs.Curiosity},
		} {
			if err := checkFinite(frame, i, f.name, f.v); err != nil {
				return err
			}
			if err := checkRange(frame, i, f.name, f.v, 0, 1); err != nil {
				return err
			}
		}

		if got, want := s.Per(i).VisibleCount, uint32(len(s.Visible(i))); got != want {
			return &ValidationError{
				Frame: frame, Agent: i,
				Field:  "perception.visible_count",
				Value:  float64(got),
				Reason: fmt.Sprintf("disagrees with visible set length %d", want),
			}
		}
	}
	return nil
}

func checkFinite(frame uint64, agent uint32, field string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) {
		return &ValidationError{Frame: frame, Agent: agent, Field: field, Value: f, Reason: "is NaN"}
	}
	if math.IsInf(f, 0) {
		return &ValidationError{Frame: frame, Agent: agent, Field: field, Value: f, Reason: "is Inf"}
	}
	return nil
}

func checkRange(frame uint64, agent uint32, field string, v, lo, hi float32) error {
	if v < lo || v > hi {
		return &ValidationError{
			Frame: frame, Agent: agent, Field: field, Value: float64(v),
			Reason: fmt.Sprintf("out of range [%g, %g]", lo, hi),
		}
	}
	return nil
}
