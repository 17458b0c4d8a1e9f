package system

import (
	"math"
	"time"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
)

// EventMoveComplete is pushed when a position animation finishes. Nothing in
// the core listens yet; the queue is the extension point for anything that
// needs arrival notifications.
const EventMoveComplete = "move_complete"

// MoveComplete is the EventMoveComplete payload.
type MoveComplete struct {
	Entity ecs.Entity
	X, Y   float64
}

const shakeFrequency = 40.0

// AnimationSystem advances every in-flight position, rotation, and shake
// animation. Position and rotation share the same algorithm: lazy start
// capture on the first processed tick, ease-out quadratic interpolation,
// snap to target once elapsed reaches the duration.
type AnimationSystem struct {
	now Clock
}

func NewAnimationSystem(now Clock) *AnimationSystem {
	return &AnimationSystem{now: now}
}

func (s *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := s.now()

	ecs.ForEach(w, component.TransformComponent, func(e ecs.Entity, t *component.Transform) {
		s.advancePosition(w, e, t, now)
		s.advanceRotation(t, now)
		s.advanceShake(t, now)
	})
}

func (s *AnimationSystem) advancePosition(w *ecs.World, e ecs.Entity, t *component.Transform, now time.Time) {
	if !t.Animating {
		return
	}

	// The start point is wherever the entity is on the first processed
	// tick, not where it was when the move was requested. A move that
	// overwrites another therefore continues from the current
	// interpolated position instead of snapping.
	if !t.StartCaptured {
		t.StartX, t.StartY = t.X, t.Y
		t.StartCaptured = true
	}

	elapsed := now.Sub(t.StartTime)
	if t.Duration <= 0 || elapsed >= t.Duration {
		t.X, t.Y = t.TargetX, t.TargetY
		t.Animating = false
		t.StartCaptured = false
		w.Events().Push(ecs.Event{
			Type: EventMoveComplete,
			Data: MoveComplete{Entity: e, X: t.X, Y: t.Y},
		})
		return
	}

	eased := easeOutQuad(float64(elapsed) / float64(t.Duration))
	t.X = common.Lerp(t.StartX, t.TargetX, eased)
	t.Y = common.Lerp(t.StartY, t.TargetY, eased)
}

// advanceRotation mirrors the position algorithm in degree space. The angle
// interpolates linearly as given; a 350-degree turn really sweeps 350
// degrees.
func (s *AnimationSystem) advanceRotation(t *component.Transform, now time.Time) {
	if !t.RotAnimating {
		return
	}

	if !t.RotStartCaptured {
		t.RotStart = t.Rotation
		t.RotStartCaptured = true
	}

	elapsed := now.Sub(t.RotStartTime)
	if t.RotDuration <= 0 || elapsed >= t.RotDuration {
		t.Rotation = t.RotTarget
		t.RotAnimating = false
		t.RotStartCaptured = false
		return
	}

	eased := easeOutQuad(float64(elapsed) / float64(t.RotDuration))
	t.Rotation = common.Lerp(t.RotStart, t.RotTarget, eased)
}

// advanceShake decays the cosmetic offset to zero. The offset is additive at
// render time only.
func (s *AnimationSystem) advanceShake(t *component.Transform, now time.Time) {
	if !t.Shaking {
		return
	}

	elapsed := now.Sub(t.ShakeStartTime)
	if t.ShakeDuration <= 0 || elapsed >= t.ShakeDuration {
		t.ShakeOffsetX, t.ShakeOffsetY = 0, 0
		t.Shaking = false
		return
	}

	falloff := 1 - float64(elapsed)/float64(t.ShakeDuration)
	phase := elapsed.Seconds() * shakeFrequency
	t.ShakeOffsetX = math.Sin(phase) * t.ShakeIntensity * falloff
	t.ShakeOffsetY = math.Cos(phase*1.3) * t.ShakeIntensity * falloff
}

func easeOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}
