// Package world owns the agent store: an arena of fixed-index agents whose
// attributes live in an ECS world, plus the per-frame visible-set buffers.
package world

import (
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"menagerie/components"
)

// Store holds every agent's attributes. Agents are addressed by a dense,
// stable index assigned at creation; indices are never reused or renumbered.
// A dead agent keeps its slot and its last attribute values (tombstone), so
// cross-frame references such as attack targets and log records stay valid.
type Store struct {
	world *ecs.World

	mapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Perception,
		components.Needs,
		components.Action,
		components.Health,
	]
	filter *ecs.Filter7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Perception,
		components.Needs,
		components.Action,
		components.Health,
	]

	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	rotMap   *ecs.Map1[components.Rotation]
	perMap   *ecs.Map1[components.Perception]
	needsMap *ecs.Map1[components.Needs]
	actMap   *ecs.Map1[components.Action]
	hpMap    *ecs.Map1[components.Health]

	agents  []ecs.Entity // dense index -> entity
	visible [][]uint32   // per-agent visible set, rebuilt every frame
}

// NewStore creates an empty store.
func NewStore() *Store {
	world := ecs.NewWorld()

	return &Store{
		world: world,
		mapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Perception,
			components.Needs,
			components.Action,
			components.Health,
		](world),
		filter: ecs.NewFilter7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Perception,
			components.Needs,
			components.Action,
			components.Health,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		rotMap:   ecs.NewMap1[components.Rotation](world),
		perMap:   ecs.NewMap1[components.Perception](world),
		needsMap: ecs.NewMap1[components.Needs](world),
		actMap:   ecs.NewMap1[components.Action](world),
		hpMap:    ecs.NewMap1[components.Health](world),
	}
}

// Count returns the number of agents ever created, dead ones included.
func (s *Store) Count() int {
	return len(s.agents)
}

// AddAgent appends one agent with default attributes (idle, no target,
// alive) and returns its index. All components are created in a single
// entity insert, so the store is never left with a partial row.
func (s *Store) AddAgent() uint32 {
	id := uint32(len(s.agents))

	pos := components.Position{}
	vel := components.Velocity{}
	rot := components.Rotation{}
	per := components.Perception{}
	needs := components.Needs{}
	act := components.Action{Kind: components.ActionIdle, TargetAgent: components.NoTarget}
	hp := components.Health{HP: 100, MaxHP: 100, Alive: true}

	e := s.mapper.NewEntity(&pos, &vel, &rot, &per, &needs, &act, &hp)
	s.agents = append(s.agents, e)
	s.visible = append(s.visible, make([]uint32, 0, 8))

	return id
}

// PopulateOpts controls the seeded initial randomization.
type PopulateOpts struct {
	WorldSize       float32
	ViewRangeBase   float32 // view range = base + index mod spread
	ViewRangeSpread int
	ViewAngle       float32
}

// Populate creates count agents with deterministic seeded randomization of
// position, orientation and needs. Population size is fixed afterwards as
// far as the simulation loop is concerned.
func (s *Store) Populate(count int, seed int64, opts PopulateOpts) {
	rng := rand.New(rand.NewPCG(mix64(uint64(seed)), mix64(uint64(seed)+1)))

	for i := 0; i < count; i++ {
		id := s.AddAgent()

		pos := s.Pos(id)
		pos.X = rng.Float32() * opts.WorldSize
		pos.Y = rng.Float32() * opts.WorldSize

		s.Rot(id).Heading = rng.Float32() * 2 * math.Pi

		per := s.Per(id)
		per.ViewRange = opts.ViewRangeBase
		if opts.ViewRangeSpread > 0 {
			per.ViewRange += float32(i % opts.ViewRangeSpread)
		}
		per.ViewAngle = opts.ViewAngle

		needs := s.Needs(id)
		needs.Hunger = rng.Float32()
		needs.Energy = rng.Float32()
		needs.Safety = rng.Float32()
		needs.Curiosity = rng.Float32()

		s.HP(id).Armor = int32(i % 3)
	}
}

// Entity returns the ECS entity backing an agent index.
func (s *Store) Entity(i uint32) ecs.Entity {
	return s.agents[i]
}

// Pos returns the position of agent i.
func (s *Store) Pos(i uint32) *components.Position {
	return s.posMap.Get(s.agents[i])
}

// Vel returns the velocity of agent i.
func (s *Store) Vel(i uint32) *components.Velocity {
	return s.velMap.Get(s.agents[i])
}

// Rot returns the rotation of agent i.
func (s *Store) Rot(i uint32) *components.Rotation {
	return s.rotMap.Get(s.agents[i])
}

// Per returns the perception state of agent i.
func (s *Store) Per(i uint32) *components.Perception {
	return s.perMap.Get(s.agents[i])
}

// Needs returns the needs of agent i.
func (s *Store) Needs(i uint32) *components.Needs {
	return s.needsMap.Get(s.agents[i])
}

// Act returns the action state of agent i.
func (s *Store) Act(i uint32) *components.Action {
	return s.actMap.Get(s.agents[i])
}

// HP returns the health of agent i.
func (s *Store) HP(i uint32) *components.Health {
	return s.hpMap.Get(s.agents[i])
}

// Alive reports whether agent i participates in the simulation.
func (s *Store) Alive(i uint32) bool {
	return s.hpMap.Get(s.agents[i]).Alive
}

// Visible returns agent i's visible set for the current frame, in
// perception traversal order.
func (s *Store) Visible(i uint32) []uint32 {
	return s.visible[i]
}

// AppendVisible adds one agent to i's visible set.
func (s *Store) AppendVisible(i, seen uint32) {
	s.visible[i] = append(s.visible[i], seen)
}

// ResetVisible empties every visible set, keeping capacity.
func (s *Store) ResetVisible() {
	for i := range s.visible {
		s.visible[i] = s.visible[i][:0]
	}
}

// VisibleBuffers returns the number of visible-set buffers. It always
// equals Count unless the store has been corrupted.
func (s *Store) VisibleBuffers() int {
	return len(s.visible)
}

// ActionCounts tallies live agents by current action.
func (s *Store) ActionCounts() [components.ActionCount]int {
	var counts [components.ActionCount]int

	query := s.filter.Query()
	for query.Next() {
		_, _, _, _, _, act, hp := query.Get()
		if !hp.Alive {
			continue
		}
		counts[act.Kind]++
	}
	return counts
}

// AliveCount returns the number of live agents.
func (s *Store) AliveCount() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		_, _, _, _, _, _, hp := query.Get()
		if hp.Alive {
			n++
		}
	}
	return n
}
