package component

import (
	"time"

	"github.com/david0178418/math-game-sub000/common"
)

// TonguePhase is a lashing attack's state machine phase.
type TonguePhase int

const (
	TongueIdle TonguePhase = iota
	TongueExtending
	TongueHolding
	TongueRetracting
)

func (p TonguePhase) String() string {
	switch p {
	case TongueIdle:
		return "idle"
	case TongueExtending:
		return "extending"
	case TongueHolding:
		return "holding"
	case TongueRetracting:
		return "retracting"
	}
	return "unknown"
}

// Tongue is the frog archetype's extend/hold/retract reach attack. Length is
// continuous in pixels and re-quantized each tick into Segments, the grid
// cells from the attacker outward truncated at the first obstacle or the
// board edge. Extended is true iff Phase is not idle.
type Tongue struct {
	Phase      TonguePhase
	DirX, DirY int
	Length     float64
	Segments   []common.Cell

	HoldUntil  time.Time
	LastAttack time.Time
	LastUpdate time.Time
	Extended   bool
}

var TongueComponent = NewKind[Tongue]()
