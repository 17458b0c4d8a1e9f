package component

import (
	"time"

	"github.com/david0178418/math-game-sub000/common"
)

// EnemyType is an enemy's visual and special-behavior archetype, independent
// of its movement strategy.
type EnemyType int

const (
	EnemyBat EnemyType = iota
	EnemySpider
	EnemyFrog
)

func (t EnemyType) String() string {
	switch t {
	case EnemyBat:
		return "bat"
	case EnemySpider:
		return "spider"
	case EnemyFrog:
		return "frog"
	}
	return "unknown"
}

// BehaviorType is the movement-decision strategy assigned to an enemy.
type BehaviorType int

const (
	BehaviorChase BehaviorType = iota
	BehaviorPatrol
	BehaviorRandom
	BehaviorGuard
	// BehaviorScripted defers the step decision to a Tengo script named in
	// the tuning file. Only assigned when a script is configured.
	BehaviorScripted
)

func (b BehaviorType) String() string {
	switch b {
	case BehaviorChase:
		return "chase"
	case BehaviorPatrol:
		return "patrol"
	case BehaviorRandom:
		return "random"
	case BehaviorGuard:
		return "guard"
	case BehaviorScripted:
		return "scripted"
	}
	return "unknown"
}

// ChaseState caches a chase target and the path toward it. Lazily attached
// the first time an enemy chases; rebuilt whenever the target cell moves.
type ChaseState struct {
	Target    common.Cell
	Path      []common.Cell
	PathIndex int
}

// Enemy drives one enemy's movement decisions. NextMove gates the next
// decision on the shared clock.
type Enemy struct {
	Type     EnemyType
	Behavior BehaviorType
	NextMove time.Time

	SpawnCell common.Cell

	// Patrol loop, generated lazily from SpawnCell.
	Waypoints       []common.Cell
	CurrentWaypoint int

	// Guard anchor, captured on the first guarded decision.
	GuardCell *common.Cell

	// Chase cache, attached lazily.
	Chase *ChaseState
}

var EnemyComponent = NewKind[Enemy]()
