package component

import (
	"time"

	"github.com/david0178418/math-game-sub000/common"
)

// Transform holds an entity's pixel position plus any in-flight position,
// rotation, and shake animation. At most one position animation and one
// rotation animation are active per entity; starting a new one overwrites
// the old from the current interpolated value.
type Transform struct {
	X, Y float64

	// Position animation. StartX/Y are captured lazily on the first tick
	// the animation system processes the move, so a move started and
	// advanced within the same tick interpolates from where the entity
	// actually was.
	TargetX, TargetY float64
	StartX, StartY   float64
	StartTime        time.Time
	Duration         time.Duration
	Animating        bool
	StartCaptured    bool

	// Rotation animation, in degrees. Interpolates linearly in degree
	// space as given; no shortest-path correction.
	Rotation         float64
	RotTarget        float64
	RotStart         float64
	RotStartTime     time.Time
	RotDuration      time.Duration
	RotAnimating     bool
	RotStartCaptured bool

	// Transient cosmetic shake. Additive render offset only; never affects
	// the logical cell.
	ShakeOffsetX, ShakeOffsetY float64
	ShakeStartTime             time.Time
	ShakeDuration              time.Duration
	ShakeIntensity             float64
	Shaking                    bool
}

var TransformComponent = NewKind[Transform]()

// NewTransformAt returns a transform positioned at a cell.
func NewTransformAt(c common.Cell) *Transform {
	x, y := common.CellToPixel(c)
	return &Transform{X: x, Y: y}
}

// Cell returns the entity's logical grid cell. Mid-move the entity rounds to
// the nearest cell; it is only "arrived" once Animating is false.
func (t *Transform) Cell() common.Cell {
	return common.PixelToCell(t.X, t.Y)
}

// StartMove begins a position animation toward a cell, overwriting any
// in-flight move. The start point resolves on the next processed tick.
func (t *Transform) StartMove(dest common.Cell, d time.Duration, now time.Time) {
	t.TargetX, t.TargetY = common.CellToPixel(dest)
	t.StartTime = now
	t.Duration = d
	t.Animating = true
	t.StartCaptured = false
}

// StartRotation begins a rotation animation toward an absolute angle.
func (t *Transform) StartRotation(deg float64, d time.Duration, now time.Time) {
	t.RotTarget = deg
	t.RotStartTime = now
	t.RotDuration = d
	t.RotAnimating = true
	t.RotStartCaptured = false
}

// StartShake begins a transient shake.
func (t *Transform) StartShake(intensity float64, d time.Duration, now time.Time) {
	t.ShakeIntensity = intensity
	t.ShakeStartTime = now
	t.ShakeDuration = d
	t.Shaking = true
}
