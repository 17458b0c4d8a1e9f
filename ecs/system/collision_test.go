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

func gameOverEvents(w *ecs.World) []ecs.Event {
	var out []ecs.Event
	for _, evt := range w.Events().Drain() {
		if evt.Type == EventGameOver {
			out = append(out, evt)
		}
	}
	return out
}

func TestEnemyContactCostsOneLifeAndOpensInvulnerability(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 3)
	newTestEnemy(t, w, common.Cell{X: 4, Y: 4}, component.EnemyBat, component.BehaviorRandom)

	sys.Update(w)

	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	h, _ := ecs.Get(w, playerEnt, component.HealthComponent)
	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	assert.Equal(t, 2, p.Lives)
	assert.Equal(t, 2, h.Current)
	assert.True(t, h.Invulnerable)
	assert.Equal(t, clock.Now().Add(cfg.InvulnerableSeconds.D()), h.InvulnerableUntil)
	assert.True(t, tr.Shaking, "hit feedback shake")

	// Same contact on later ticks inside the window never stacks losses.
	clock.Advance(cfg.InvulnerableSeconds.D() / 2)
	sys.Update(w)
	assert.Equal(t, 2, p.Lives)

	// Window over and the enemy still shares the cell: the next loss lands.
	clock.Advance(cfg.InvulnerableSeconds.D())
	sys.Update(w)
	assert.Equal(t, 1, p.Lives)
}

func TestTongueSegmentHitsLikeContact(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 5, Y: 4}, 3)
	newTestFrog(t, w, common.Cell{X: 2, Y: 4}, &component.Tongue{
		Phase:    component.TongueHolding,
		DirX:     1,
		Extended: true,
		Segments: []common.Cell{{X: 3, Y: 4}, {X: 4, Y: 4}, {X: 5, Y: 4}},
	})

	sys.Update(w)

	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	h, _ := ecs.Get(w, playerEnt, component.HealthComponent)
	assert.Equal(t, 2, p.Lives, "a segment on the player's cell is a hit")
	assert.True(t, h.Invulnerable)
}

func TestCorrectTileAwardsScaledScore(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 2, Y: 2}, 3)
	tile := newTestTile(t, w, common.Cell{X: 2, Y: 2}, 7, true, 3)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Eat = true

	sys.Update(w)

	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	assert.Equal(t, 21, p.Score, "value times difficulty")
	assert.Equal(t, 3, p.Lives)
	assert.False(t, inp.Eat, "intent consumed")

	prob, _ := ecs.Get(w, tile, component.ProblemComponent)
	assert.True(t, prob.Consumed)
	col, _ := ecs.Get(w, tile, component.ColliderComponent)
	assert.Zero(t, col.Width)
}

func TestIncorrectTileCostsLifeWithoutInvulnerability(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 2, Y: 2}, 3)
	tile := newTestTile(t, w, common.Cell{X: 2, Y: 2}, 5, false, 1)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Eat = true

	sys.Update(w)

	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	h, _ := ecs.Get(w, playerEnt, component.HealthComponent)
	tr, _ := ecs.Get(w, playerEnt, component.TransformComponent)
	assert.Equal(t, 2, p.Lives)
	assert.Zero(t, p.Score)
	assert.True(t, tr.Shaking)
	assert.False(t, h.Invulnerable, "bad answers never open the window")

	prob, _ := ecs.Get(w, tile, component.ProblemComponent)
	assert.True(t, prob.Consumed)
}

func TestEatIntentConsumesAtMostOneTile(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 2, Y: 2}, 3)
	a := newTestTile(t, w, common.Cell{X: 2, Y: 2}, 4, true, 1)
	b := newTestTile(t, w, common.Cell{X: 2, Y: 2}, 9, true, 1)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Eat = true

	sys.Update(w)

	pa, _ := ecs.Get(w, a, component.ProblemComponent)
	pb, _ := ecs.Get(w, b, component.ProblemComponent)
	require.NotEqual(t, pa.Consumed, pb.Consumed, "exactly one of the stacked tiles goes")

	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	first := p.Score
	assert.Contains(t, []int{4, 9}, first)

	// Re-running without a fresh eat press changes nothing.
	sys.Update(w)
	assert.Equal(t, first, p.Score)

	// A consumed tile never re-awards even with a new press.
	pa.Consumed, pb.Consumed = true, true
	inp.Eat = true
	sys.Update(w)
	assert.Equal(t, first, p.Score)
	assert.False(t, inp.Eat, "a whiffed press still clears the intent")
}

func TestWebTrapFreezesOnceAndDeactivatesWeb(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 3, Y: 3}, 3)
	web := newTestWeb(t, w, common.Cell{X: 3, Y: 3}, clock.Now(), 8*time.Second, 2500*time.Millisecond)
	other := newTestWeb(t, w, common.Cell{X: 3, Y: 3}, clock.Now(), 8*time.Second, 2500*time.Millisecond)

	sys.Update(w)

	fz, ok := ecs.Get(w, playerEnt, component.FreezeComponent)
	require.True(t, ok, "stepping on an active web attaches a freeze")
	assert.True(t, fz.Active)
	assert.Equal(t, 2500*time.Millisecond, fz.Duration)

	sprung := ecs.Entity(fz.SourceWeb)
	assert.True(t, sprung == web || sprung == other, "freeze references the sprung web")
	srcWeb, _ := ecs.Get(w, sprung, component.WebComponent)
	assert.False(t, srcWeb.Active, "a sprung web is spent immediately")

	// Only one of the stacked webs springs while the freeze is held.
	wa, _ := ecs.Get(w, web, component.WebComponent)
	wb, _ := ecs.Get(w, other, component.WebComponent)
	assert.NotEqual(t, wa.Active, wb.Active)

	sys.Update(w)
	assert.NotEqual(t, wa.Active, wb.Active, "held freeze blocks further traps")
}

func TestGameOverLatchesImmediatelyAndFiresOnceAfterDelay(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 4, Y: 4}, 1)
	enemy := newTestEnemy(t, w, common.Cell{X: 4, Y: 4}, component.EnemyBat, component.BehaviorRandom)

	sys.Update(w)

	// Move the enemy off so later ticks only exercise the deadline.
	et, _ := ecs.Get(w, enemy, component.TransformComponent)
	et.X, et.Y = common.CellToPixel(common.Cell{X: 0, Y: 0})

	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	assert.Zero(t, p.Lives)
	assert.True(t, p.GameOverPending, "controls lock the instant lives hit zero")
	assert.Equal(t, clock.Now().Add(cfg.GameOverDelaySecs.D()), p.GameOverAt)
	assert.Empty(t, gameOverEvents(w), "the transition itself is deferred")

	// Before the deadline, still nothing.
	clock.Advance(cfg.GameOverDelaySecs.D() / 2)
	sys.Update(w)
	assert.Empty(t, gameOverEvents(w))

	// Past the deadline the event fires exactly once.
	clock.Advance(cfg.GameOverDelaySecs.D())
	sys.Update(w)
	evts := gameOverEvents(w)
	require.Len(t, evts, 1)
	data, ok := evts[0].Data.(GameOver)
	require.True(t, ok)
	assert.Zero(t, data.Lives)

	sys.Update(w)
	assert.Empty(t, gameOverEvents(w), "fired flag suppresses repeats")
}

func TestInvulnerabilitySkipsTongueAndContactButNotTiles(t *testing.T) {
	clock := newFakeClock()
	cfg := prefabs.Default()
	sys := NewCollisionSystem(clock.Now, cfgFunc(cfg))

	w := ecs.NewWorld()
	playerEnt := newTestPlayer(t, w, common.Cell{X: 2, Y: 2}, 3)
	newTestEnemy(t, w, common.Cell{X: 2, Y: 2}, component.EnemyBat, component.BehaviorRandom)
	newTestTile(t, w, common.Cell{X: 2, Y: 2}, 6, true, 2)

	h, _ := ecs.Get(w, playerEnt, component.HealthComponent)
	h.Invulnerable = true
	h.InvulnerableUntil = clock.Now().Add(time.Hour)
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)
	inp.Eat = true

	sys.Update(w)

	p, _ := ecs.Get(w, playerEnt, component.PlayerComponent)
	assert.Equal(t, 3, p.Lives, "contact ignored while invulnerable")
	assert.Equal(t, 12, p.Score, "eating still works while invulnerable")
}
