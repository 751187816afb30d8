package systems

import (
	"math"

	"menagerie/world"
)

// Perception derives each live agent's visible set from the spatial grid.
// Candidates come from the 3x3 cell neighborhood; survivors pass a squared
// range check and a field-of-view check. The visible set keeps grid
// traversal order (cell order, then within-cell ascending agent index).
type Perception struct {
	grid    *Grid
	scratch []uint32
}

// NewPerception creates the stage bound to a grid.
func NewPerception(grid *Grid) *Perception {
	return &Perception{
		grid:    grid,
		scratch: make([]uint32, 0, 64),
	}
}

// Run assumes the grid was rebuilt for this frame. It resets every visible
// set, then fills them for live agents and writes VisibleCount. Dead agents
// keep an empty set and their stale count.
func (p *Perception) Run(s *world.Store) {
	s.ResetVisible()

	n := uint32(s.Count())
	for observer := uint32(0); observer < n; observer++ {
		if !s.Alive(observer) {
			continue
		}

		pos := s.Pos(observer)
		heading := s.Rot(observer).Heading
		per := s.Per(observer)
		rangeSq := per.ViewRange * per.ViewRange
		halfAngle := per.ViewAngle / 2

		p.scratch = p.grid.AppendNeighborhood(p.scratch[:0], pos.X, pos.Y)

		for _, target := range p.scratch {
			if target == observer || !s.Alive(target) {
				continue
			}

			tpos := s.Pos(target)
			dx := tpos.X - pos.X
			dy := tpos.Y - pos.Y

			distSq := dx*dx + dy*dy
			if distSq > rangeSq {
				continue
			}

			bearing := float32(math.Atan2(float64(dy), float64(dx)))
			diff := absf(bearing - heading)
			diff = normalizeAngle(diff)

			if absf(diff) <= halfAngle {
				s.AppendVisible(observer, target)
			}
		}

		per.VisibleCount = uint32(len(s.Visible(observer)))
	}
}

// normalizeAngle wraps an angle into [-pi, pi] by repeated 2*pi steps.
func normalizeAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
