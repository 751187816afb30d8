package sim

import (
	"math"
	"strings"
	"testing"

	"menagerie/world"
)

func newValidStore(t *testing.T) *world.Store {
	t.Helper()
	s := world.NewStore()
	s.Populate(10, 42, world.PopulateOpts{
		WorldSize: 1000, ViewRangeBase: 50, ViewRangeSpread: 50, ViewAngle: 1.57,
	})
	return s
}

func TestValidatePasses(t *testing.T) {
	s := newValidStore(t)
	if err := Validate(s, 1000, 0); err != nil {
		t.Fatalf("Validate on a fresh store = %v, want nil", err)
	}
}

func TestValidateDetectsNaNPosition(t *testing.T) {
	s := newValidStore(t)
	s.Pos(3).X = float32(math.NaN())

	err := Validate(s, 1000, 17)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Validate = %v, want *ValidationError", err)
	}
	if verr.Frame != 17 || verr.Agent != 3 {
		t.Errorf("error locates frame %d agent %d, want 17/3", verr.Frame, verr.Agent)
	}
	if verr.Field != "position.x" {
		t.Errorf("field = %q, want position.x", verr.Field)
	}
	if !strings.Contains(verr.Error(), "NaN") {
		t.Errorf("Error() = %q, want NaN mentioned", verr.Error())
	}
}

func TestValidateDetectsOutOfBoundsPosition(t *testing.T) {
	s := newValidStore(t)
	s.Pos(5).Y = 1000.5

	err := Validate(s, 1000, 0)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Validate = %v, want *ValidationError", err)
	}
	if verr.Agent != 5 || verr.Field != "position.y" {
		t.Errorf("error = %v, want agent 5 position.y", verr)
	}
}

func TestValidateDetectsNeedOutOfRange(t *testing.T) {
	s := newValidStore(t)
	s.Needs(2).Hunger = 1.2

	err := Validate(s, 1000, 0)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Validate = %v, want *ValidationError", err)
	}
	if verr.Field != "needs.hunger" {
		t.Errorf("field = %q, want needs.hunger", verr.Field)
	}
}

func TestValidateDetectsVisibleCountMismatch(t *testing.T) {
	s := newValidStore(t)
	s.Per(4).VisibleCount = 9 // no visible set backs this up

	err := Validate(s, 1000, 0)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Validate = %v, want *ValidationError", err)
	}
	if verr.Agent != 4 || verr.Field != "perception.visible_count" {
		t.Errorf("error = %v, want agent 4 visible count mismatch", verr)
	}
}

func TestValidateIgnoresDeadAgents(t *testing.T) {
	s := newValidStore(t)

	// A dead agent may carry arbitrary stale state.
	s.HP(6).Alive = false
	s.Pos(6).X = float32(math.Inf(1))
	s.Needs(6).Energy = -5
	s.Per(6).VisibleCount = 99

	if err := Validate(s, 1000, 0); err != nil {
		t.Fatalf("Validate = %v, want nil: dead agents are exempt", err)
	}
}
