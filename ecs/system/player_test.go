package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
	"github.com/david0178418/math-game-sub000/prefabs"
)

func TestPlayerMoveStartsAnimationAndFacing(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewPlayerSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 3)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Left = true

	sys.Update(w)

	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	require.True(t, tr.Animating)
	assert.Equal(t, common.Cell{X: 3, Y: 4}, common.PixelToCell(tr.TargetX, tr.TargetY))
	assert.True(t, tr.RotAnimating)
	assert.Equal(t, 180.0, tr.RotTarget)
	assert.False(t, inp.Left, "intent consumed")
}

func TestPlayerCannotLeaveBoard(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewPlayerSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 0, Y: 0}, 3)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Up = true

	sys.Update(w)

	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	assert.False(t, tr.Animating, "off-board destinations are ignored")
}

func TestPlayerIgnoresInputWhileMoving(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewPlayerSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 3)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)

	inp.Right = true
	sys.Update(w)

	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	target := tr.TargetX

	inp.Left = true
	sys.Update(w)
	assert.Equal(t, target, tr.TargetX, "mid-move intents are dropped, not queued")
	assert.False(t, inp.Left)
}

func TestFrozenPlayerLosesAllIntents(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewPlayerSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 3)
	mustAdd(t, ecs.Add(w, playerEnt, component.FreezeComponent, &component.Freeze{
		Start:    clock.Now(),
		Duration: 2 * time.Second,
		Active:   true,
	}))

	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Down = true
	inp.Eat = true
	sys.Update(w)

	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	assert.False(t, tr.Animating)
	assert.False(t, inp.Down)
	assert.False(t, inp.Eat, "a trapped player cannot eat either")
}

func TestFreezeExpiryReleasesPlayerAndRemovesWeb(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewPlayerSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 3)
	web := newTestWeb(t, w, common.Cell{X: 4, Y: 4}, clock.Now(), 8*time.Second, 2*time.Second)
	mustAdd(t, ecs.Add(w, playerEnt, component.FreezeComponent, &component.Freeze{
		Start:     clock.Now(),
		Duration:  2 * time.Second,
		Active:    true,
		SourceWeb: component.EntityRef(web),
	}))

	clock.Advance(2500 * time.Millisecond)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Right = true
	sys.Update(w)

	assert.False(t, ecs.Has(w, playerEnt, component.FreezeComponent), "freeze removed on expiry")
	assert.False(t, w.IsAlive(web), "the originating web goes with it")

	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	assert.True(t, tr.Animating, "the same tick's intent already works")
}

func TestFreezeExpiryToleratesMissingWeb(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewPlayerSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 3)
	web := newTestWeb(t, w, common.Cell{X: 4, Y: 4}, clock.Now(), 8*time.Second, time.Second)
	mustAdd(t, ecs.Add(w, playerEnt, component.FreezeComponent, &component.Freeze{
		Start:     clock.Now(),
		Duration:  time.Second,
		Active:    true,
		SourceWeb: component.EntityRef(web),
	}))
	require.True(t, w.DestroyEntity(web), "web swept before the freeze expired")

	clock.Advance(2 * time.Second)
	sys.Update(w)

	assert.False(t, ecs.Has(w, playerEnt, component.FreezeComponent))
}

func TestGameOverPendingLocksControls(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewPlayerSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 0)
	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	p.GameOverPending = true

	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Up = true
	inp.Eat = true
	sys.Update(w)

	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	assert.False(t, tr.Animating)
	assert.False(t, inp.Up)
	assert.False(t, inp.Eat)
}
