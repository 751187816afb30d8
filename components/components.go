// Package components defines ECS components for the agent simulation.
package components

// NoTarget marks an empty target slot.
const NoTarget = ^uint32(0)

// Position is an agent's world position.
type Position struct {
	X, Y, Z float32
}

// Velocity is an agent's velocity.
type Velocity struct {
	X, Y, Z float32
}

// Rotation holds the agent's facing direction in radians.
type Rotation struct {
	Heading float32
}

// Perception holds an agent's sensing parameters.
// VisibleCount is derived each frame by the perception stage.
type Perception struct {
	ViewRange    float32 // sensing radius
	ViewAngle    float32 // field of view width in radians
	VisibleCount uint32
}

// Needs are the internal drives feeding utility scoring.
// All four are kept in [0,1] by the drive stage.
type Needs struct {
	Hunger    float32 // 0 = full, 1 = starving
	Energy    float32 // 0 = exhausted, 1 = rested
	Safety    float32 // 0 = in danger, 1 = safe
	Curiosity float32 // 0 = content, 1 = restless
}

// ActionKind is the closed set of actions an agent can take.
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionMoveToTarget
	ActionEat
	ActionSleep
	ActionFlee
	ActionAttack
	ActionExplore

	ActionCount
)

// TiePriority is the declared evaluation order for action selection.
// The first strictly greater score in this order wins; equal scores
// keep the earlier action. Idle is the implicit zero-score baseline.
var TiePriority = [...]ActionKind{
	ActionEat,
	ActionSleep,
	ActionFlee,
	ActionExplore,
	ActionAttack,
}

var actionNames = [...]string{
	"idle",
	"move_to_target",
	"eat",
	"sleep",
	"flee",
	"attack",
	"explore",
}

func (a ActionKind) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Action is the agent's current decision and its target.
type Action struct {
	Kind        ActionKind
	Utility     float32 // score of the selected action
	TargetAgent uint32  // NoTarget when the action has no victim
	TargetX     float32
	TargetY     float32
	TargetZ     float32
}

// Health is cold data; only Alive gates the simulation loop.
type Health struct {
	HP    float32
	MaxHP float32
	Armor int32
	Alive bool
}
