package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
	"github.com/david0178418/math-game-sub000/prefabs"
)

// fakeClock drives systems deterministically.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func cfgFunc(t *prefabs.Tuning) Config {
	return func() *prefabs.Tuning { return t }
}

func newTestPlayer(t *testing.T, w *ecs.World, cell common.Cell, lives int) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	mustAdd(t, ecs.Add(w, e, component.TransformComponent, component.NewTransformAt(cell)))
	mustAdd(t, ecs.Add(w, e, component.PlayerComponent, &component.Player{Lives: lives}))
	mustAdd(t, ecs.Add(w, e, component.InputComponent, &component.Input{}))
	mustAdd(t, ecs.Add(w, e, component.HealthComponent, &component.Health{Current: lives, Max: lives}))
	return e
}

func newTestEnemy(t *testing.T, w *ecs.World, cell common.Cell, typ component.EnemyType, behavior component.BehaviorType) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	mustAdd(t, ecs.Add(w, e, component.TransformComponent, component.NewTransformAt(cell)))
	mustAdd(t, ecs.Add(w, e, component.EnemyComponent, &component.Enemy{
		Type:      typ,
		Behavior:  behavior,
		SpawnCell: cell,
	}))
	return e
}

func newTestTile(t *testing.T, w *ecs.World, cell common.Cell, value int, correct bool, difficulty int) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	mustAdd(t, ecs.Add(w, e, component.TransformComponent, component.NewTransformAt(cell)))
	mustAdd(t, ecs.Add(w, e, component.ProblemComponent, &component.Problem{
		Value:      value,
		Correct:    correct,
		Difficulty: difficulty,
	}))
	mustAdd(t, ecs.Add(w, e, component.ColliderComponent, &component.Collider{
		Width:  common.CellSize * 0.8,
		Height: common.CellSize * 0.8,
		Group:  component.GroupTile,
	}))
	return e
}

func newTestWeb(t *testing.T, w *ecs.World, cell common.Cell, created time.Time, dur, freeze time.Duration) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	mustAdd(t, ecs.Add(w, e, component.TransformComponent, component.NewTransformAt(cell)))
	mustAdd(t, ecs.Add(w, e, component.WebComponent, &component.Web{
		Created:    created,
		Duration:   dur,
		FreezeTime: freeze,
		Active:     true,
	}))
	return e
}

// settle finishes an entity's in-flight move without running the animation
// system: snap to target and clear the flag.
func settle(t *testing.T, w *ecs.World, e ecs.Entity) {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		t.Fatalf("entity %v has no transform", e)
	}
	if tr.Animating {
		tr.X, tr.Y = tr.TargetX, tr.TargetY
		tr.Animating = false
		tr.StartCaptured = false
	}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
}
