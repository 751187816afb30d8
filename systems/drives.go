package systems

import (
	"menagerie/components"
	"menagerie/world"
)

// Need aging rates, per second.
const (
	hungerRate    = 0.01
	energyDrain   = 0.02
	sleepRecovery = 0.1
	eatRate       = 0.15
	safetyDrain   = 0.05
	safetyRecover = 0.03
	curiosityWalk = 0.1 // full width of the symmetric random perturbation

	// More visible agents than this counts as a crowd and erodes safety.
	crowdThreshold = 3
)

// Drives ages every live agent's needs. Each agent is independent; the only
// cross-agent input is the visible count from this frame's perception.
type Drives struct {
	Seed int64
}

// Run applies the aging rules. Every mutation clamps at the point of write,
// so needs stay in [0,1] no matter what dt is.
func (d *Drives) Run(s *world.Store, dt float32, frame uint64) {
	n := uint32(s.Count())
	for i := uint32(0); i < n; i++ {
		if !s.Alive(i) {
			continue
		}

		act := s.Act(i).Kind
		needs := s.Needs(i)

		needs.Hunger = clamp32(needs.Hunger+hungerRate*dt, 0, 1)

		if act == components.ActionSleep {
			needs.Energy = clamp32(needs.Energy+sleepRecovery*dt, 0, 1)
		} else {
			needs.Energy = clamp32(needs.Energy-energyDrain*dt, 0, 1)
		}

		if act == components.ActionEat {
			needs.Hunger = clamp32(needs.Hunger-eatRate*dt, 0, 1)
		}

		if s.Per(i).VisibleCount > crowdThreshold {
			needs.Safety = clamp32(needs.Safety-safetyDrain*dt, 0, 1)
		} else {
			needs.Safety = clamp32(needs.Safety+safetyRecover*dt, 0, 1)
		}

		rng := world.FrameRand(d.Seed, frame, i, world.StreamCuriosity)
		needs.Curiosity = clamp32(needs.Curiosity+(rng.Float32()-0.5)*curiosityWalk*dt, 0, 1)
	}
}
