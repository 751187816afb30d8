package systems

import (
	"math"

	"menagerie/components"
	"menagerie/world"
)

// targetDeadZone is the distance below which steering gives up rather than
// normalize a near-zero vector.
const targetDeadZone = 0.1

// idleDamping is applied to velocity once per call for sleeping and idle
// agents. It is per-frame, not time-normalized, so results depend on the
// frame rate; kept as-is for replay fidelity.
const idleDamping = 0.9

// Kinematics integrates motion from the frame's finalized actions.
type Kinematics struct {
	MaxSpeed     float32
	Acceleration float32
	WorldSize    float32
}

// Run updates velocity, orientation and position for every live agent:
// steer toward the action target (or away from the first visible agent when
// fleeing), clamp speed, forward-Euler integrate, hard-clamp to the world
// bounds. The position clamp is a wall; only the spatial index wraps.
func (k *Kinematics) Run(s *world.Store, dt float32) {
	n := uint32(s.Count())
	for i := uint32(0); i < n; i++ {
		if !s.Alive(i) {
			continue
		}

		act := s.Act(i)
		pos := s.Pos(i)
		vel := s.Vel(i)

		switch act.Kind {
		case components.ActionMoveToTarget, components.ActionAttack, components.ActionExplore:
			dx := act.TargetX - pos.X
			dy := act.TargetY - pos.Y
			dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))

			if dist > targetDeadZone {
				vel.X += dx / dist * k.Acceleration * dt
				vel.Y += dy / dist * k.Acceleration * dt
				s.Rot(i).Heading = float32(math.Atan2(float64(dy), float64(dx)))
			}

		case components.ActionFlee:
			visible := s.Visible(i)
			if len(visible) > 0 {
				threat := s.Pos(visible[0])
				dx := pos.X - threat.X
				dy := pos.Y - threat.Y
				dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))

				if dist > targetDeadZone {
					// Fleeing outruns normal acceleration.
					vel.X += dx / dist * k.Acceleration * 1.5 * dt
					vel.Y += dy / dist * k.Acceleration * 1.5 * dt
				}
			}

		case components.ActionSleep, components.ActionIdle:
			vel.X *= idleDamping
			vel.Y *= idleDamping
		}

		// Clamp speed, preserving direction.
		speedSq := vel.X*vel.X + vel.Y*vel.Y
		if speedSq > k.MaxSpeed*k.MaxSpeed {
			speed := float32(math.Sqrt(float64(speedSq)))
			vel.X = vel.X / speed * k.MaxSpeed
			vel.Y = vel.Y / speed * k.MaxSpeed
		}

		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		pos.X = clamp32(pos.X, 0, k.WorldSize)
		pos.Y = clamp32(pos.Y, 0, k.WorldSize)
	}
}
