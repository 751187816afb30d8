package sim

import (
	"log/slog"

	"menagerie/world"
)

// Chaos injects rare faults into live agents so the validator and the rest
// of the pipeline get exercised against hostile state. Each agent rolls an
// independent per-frame RNG, so injections are reproducible for a given seed
// and independent of iteration order.
type Chaos struct {
	Seed        int64
	Probability float32
	Enabled     bool
}

// Fault kinds, chosen uniformly once an agent is selected.
const (
	faultKill = iota
	faultTeleport
	faultScramble
	faultCount
)

// MaybeCorrupt rolls every live agent and applies at most one fault each.
// Teleports stay inside the world bounds and scrambled needs stay in [0,1]:
// chaos stresses the pipeline, it does not violate the state invariants the
// validator enforces.
func (c *Chaos) MaybeCorrupt(s *world.Store, worldSize float32, frame uint64) {
	if !c.Enabled || c.Probability <= 0 {
		return
	}

	n := uint32(s.Count())
	for i := uint32(0); i < n; i++ {
		if !s.Alive(i) {
			continue
		}

		rng := world.FrameRand(c.Seed, frame, i, world.StreamChaos)
		if rng.Float32() >= c.Probability {
			continue
		}

		switch rng.IntN(faultCount) {
		case faultKill:
			hp := s.HP(i)
			hp.HP = 0
			hp.Alive = false
			slog.Info("chaos fault", "kind", "kill", "frame", frame, "agent", i)

		case faultTeleport:
			pos := s.Pos(i)
			pos.X = rng.Float32() * worldSize
			pos.Y = rng.Float32() * worldSize
			slog.Info("chaos fault", "kind", "teleport", "frame", frame, "agent", i,
				"x", pos.X, "y", pos.Y)

		case faultScramble:
			needs := s.Needs(i)
			needs.Hunger = rng.Float32()
			needs.Energy = rng.Float32()
			needs.Safety = rng.Float32()
			needs.Curiosity = rng.Float32()
			slog.Info("chaos fault", "kind", "scramble", "frame", frame, "agent", i)
		}
	}
}
