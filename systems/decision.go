package systems

import (
	"menagerie/components"
	"menagerie/world"
)

// ExploreOffset is the half-range of the random explore target offset, in
// world units per axis.
const ExploreOffset = 10.0

// Decision selects one action per live agent from utility scores over the
// agent's needs and visible set. Seed is the run seed; the explore target
// randomness is keyed to (seed, frame, agent) so replays reproduce exactly.
type Decision struct {
	Seed int64
}

// Utilities holds one score per candidate action. Idle is the implicit
// baseline with score zero.
type Utilities [components.ActionCount]float32

// Score computes all candidate scores for one agent. Attack is forced to
// zero when nothing is visible: there is no one to attack.
func Score(needs *components.Needs, visibleCount int) Utilities {
	var u Utilities

	fatigue := 1 - needs.Energy
	danger := 1 - needs.Safety

	u[components.ActionEat] = needs.Hunger * needs.Hunger * needs.Hunger
	u[components.ActionSleep] = fatigue * fatigue * fatigue
	u[components.ActionFlee] = danger * danger * danger * 1.5
	u[components.ActionExplore] = needs.Curiosity * needs.Energy
	if visibleCount > 0 {
		u[components.ActionAttack] = needs.Hunger * needs.Energy * 0.8
	}

	return u
}

// Select applies the strictly-greater-than-max rule over the declared
// priority order. Equal scores keep the earlier action; an all-non-positive
// score set leaves the agent idle.
func Select(u Utilities) (components.ActionKind, float32) {
	best := components.ActionIdle
	max := float32(0)

	for _, kind := range components.TiePriority {
		if u[kind] > max {
			max = u[kind]
			best = kind
		}
	}
	return best, max
}

// Run scores and selects an action for every live agent, then applies the
// action's side effects on the target fields.
func (d *Decision) Run(s *world.Store, frame uint64) {
	n := uint32(s.Count())
	for i := uint32(0); i < n; i++ {
		if !s.Alive(i) {
			continue
		}

		visible := s.Visible(i)
		kind, score := Select(Score(s.Needs(i), len(visible)))

		act := s.Act(i)
		act.Kind = kind
		act.Utility = score

		switch {
		case kind == components.ActionAttack && len(visible) > 0:
			// Snapshot the victim's position now; kinematics runs later
			// this frame and the snapshot is deliberately not tracked.
			target := visible[0]
			tpos := s.Pos(target)
			act.TargetAgent = target
			act.TargetX = tpos.X
			act.TargetY = tpos.Y

		case kind == components.ActionExplore:
			rng := world.FrameRand(d.Seed, frame, i, world.StreamExplore)
			pos := s.Pos(i)
			act.TargetX = pos.X + (rng.Float32()*2-1)*ExploreOffset
			act.TargetY = pos.Y + (rng.Float32()*2-1)*ExploreOffset
		}
	}
}
