package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
)

func newAnimWorld(t *testing.T, cell common.Cell) (*ecs.World, ecs.Entity, *component.Transform) {
	t.Helper()
	w := ecs.NewWorld()
	e := w.CreateEntity()
	tr := component.NewTransformAt(cell)
	mustAdd(t, ecs.Add(w, e, component.TransformComponent, tr))
	return w, e, tr
}

func TestMoveReachesTargetRegardlessOfTickGranularity(t *testing.T) {
	const dur = 150 * time.Millisecond
	target := common.Cell{X: 4, Y: 2}

	run := func(step time.Duration) (float64, float64) {
		clock := newFakeClock()
		sys := NewAnimationSystem(clock.Now)
		w, _, tr := newAnimWorld(t, common.Cell{X: 3, Y: 2})
		tr.StartMove(target, dur, clock.Now())

		prevX := tr.X
		for elapsed := time.Duration(0); elapsed < dur+step; elapsed += step {
			sys.Update(w)
			require.GreaterOrEqual(t, tr.X, prevX, "progress must be monotonic")
			prevX = tr.X
			clock.Advance(step)
		}
		return tr.X, tr.Y
	}

	fineX, fineY := run(5 * time.Millisecond)
	coarseX, coarseY := run(dur)

	wantX, wantY := common.CellToPixel(target)
	assert.Equal(t, wantX, fineX)
	assert.Equal(t, wantY, fineY)
	assert.Equal(t, wantX, coarseX)
	assert.Equal(t, wantY, coarseY)
}

func TestMoveCompletionClearsStateAndEmitsEvent(t *testing.T) {
	clock := newFakeClock()
	sys := NewAnimationSystem(clock.Now)
	w, e, tr := newAnimWorld(t, common.Cell{X: 0, Y: 0})

	tr.StartMove(common.Cell{X: 1, Y: 0}, 100*time.Millisecond, clock.Now())
	clock.Advance(100 * time.Millisecond)
	sys.Update(w)

	assert.False(t, tr.Animating)
	wantX, wantY := common.CellToPixel(common.Cell{X: 1, Y: 0})
	assert.Equal(t, wantX, tr.X)

	evs := w.Events().Drain()
	require.Len(t, evs, 1)
	require.Equal(t, EventMoveComplete, evs[0].Type)
	payload, ok := evs[0].Data.(MoveComplete)
	require.True(t, ok)
	assert.Equal(t, e, payload.Entity)
	assert.Equal(t, wantX, payload.X)
	assert.Equal(t, wantY, payload.Y)

	// no further events once settled
	sys.Update(w)
	assert.Empty(t, w.Events().Drain())
}

func TestZeroDurationMoveCompletesImmediately(t *testing.T) {
	clock := newFakeClock()
	sys := NewAnimationSystem(clock.Now)
	w, _, tr := newAnimWorld(t, common.Cell{X: 2, Y: 2})

	tr.StartMove(common.Cell{X: 3, Y: 2}, 0, clock.Now())
	sys.Update(w)

	assert.False(t, tr.Animating)
	wantX, _ := common.CellToPixel(common.Cell{X: 3, Y: 2})
	assert.Equal(t, wantX, tr.X)
}

func TestOverwritingMoveContinuesFromInterpolatedPosition(t *testing.T) {
	const dur = 100 * time.Millisecond
	clock := newFakeClock()
	sys := NewAnimationSystem(clock.Now)
	w, _, tr := newAnimWorld(t, common.Cell{X: 0, Y: 0})

	tr.StartMove(common.Cell{X: 4, Y: 0}, dur, clock.Now())
	clock.Advance(dur / 2)
	sys.Update(w)
	midX := tr.X
	require.Greater(t, midX, 0.0)
	require.Less(t, midX, float64(4*common.CellSize))

	// Overwrite mid-flight; the new animation starts from the current
	// interpolated position, captured on its first processed tick.
	tr.StartMove(common.Cell{X: 0, Y: 0}, dur, clock.Now())
	clock.Advance(time.Millisecond)
	sys.Update(w)

	assert.InDelta(t, midX, tr.StartX, 1.0, "restart should not snap back to the original start")
	assert.Less(t, tr.X, midX+1, "position should head back, not jump")
}

func TestRotationIndependentAndLinearInDegreeSpace(t *testing.T) {
	const dur = 100 * time.Millisecond
	clock := newFakeClock()
	sys := NewAnimationSystem(clock.Now)
	w, _, tr := newAnimWorld(t, common.Cell{X: 1, Y: 1})

	// 350-degree sweep: shortest-path would go -10 degrees; this must not.
	tr.StartRotation(350, dur, clock.Now())
	clock.Advance(dur / 2)
	sys.Update(w)
	require.Greater(t, tr.Rotation, 90.0, "rotation should sweep the long way")
	require.False(t, tr.Animating, "position must not be affected")

	clock.Advance(dur)
	sys.Update(w)
	assert.Equal(t, 350.0, tr.Rotation)
	assert.False(t, tr.RotAnimating)
}

func TestShakeIsCosmeticAndDecays(t *testing.T) {
	const dur = 200 * time.Millisecond
	clock := newFakeClock()
	sys := NewAnimationSystem(clock.Now)
	w, _, tr := newAnimWorld(t, common.Cell{X: 5, Y: 5})
	baseCell := tr.Cell()

	tr.StartShake(4, dur, clock.Now())
	clock.Advance(dur / 4)
	sys.Update(w)

	offset := tr.ShakeOffsetX*tr.ShakeOffsetX + tr.ShakeOffsetY*tr.ShakeOffsetY
	assert.Greater(t, offset, 0.0, "shake should displace the render offset")
	assert.Equal(t, baseCell, tr.Cell(), "shake never affects the logical cell")

	clock.Advance(dur)
	sys.Update(w)
	assert.False(t, tr.Shaking)
	assert.Zero(t, tr.ShakeOffsetX)
	assert.Zero(t, tr.ShakeOffsetY)
}
