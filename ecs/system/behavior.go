package system

import (
	"log"
	"math/rand"
	"time"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
	"github.com/david0178418/math-game-sub000/prefabs"
)

var cardinals = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// BehaviorSystem runs each enemy's movement state machine once per decision
// window: pick a destination cell by strategy, start the move animation, and
// reschedule. An enemy that cannot resolve a legal destination simply holds
// position and reschedules; that is never an error.
type BehaviorSystem struct {
	now Clock
	cfg Config
	rng *rand.Rand

	script     *stepScript
	scriptWarn bool
}

func NewBehaviorSystem(now Clock, cfg Config, rng *rand.Rand) *BehaviorSystem {
	return &BehaviorSystem{now: now, cfg: cfg, rng: rng}
}

func (s *BehaviorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := s.now()
	cfg := s.cfg()

	// No player, no decisions; enemies idle rather than failing.
	playerEnt, ok := w.First(component.PlayerComponent.ID())
	if !ok {
		return
	}
	pt, ok := ecs.Get(w, playerEnt, component.TransformComponent)
	if !ok {
		return
	}
	playerCell := pt.Cell()

	score := 0
	if p, ok := ecs.Get(w, playerEnt, component.PlayerComponent); ok {
		score = p.Score
	}

	enemies := w.Query(component.EnemyComponent.ID(), component.TransformComponent.ID())

	occupied := map[common.Cell]ecs.Entity{}
	for _, e := range enemies {
		if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
			occupied[t.Cell()] = e
		}
	}

	for _, e := range enemies {
		en, ok := ecs.Get(w, e, component.EnemyComponent)
		if !ok {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}

		// Never re-issue a move while one is in flight.
		if t.Animating {
			continue
		}

		if en.Type == component.EnemyFrog && s.frogAttacking(w, e, en, now, cfg) {
			continue
		}

		if now.Before(en.NextMove) {
			continue
		}

		cur := t.Cell()
		blocked := func(c common.Cell) bool {
			other, taken := occupied[c]
			return taken && other != e
		}

		dest, moved := s.chooseStep(en, cur, playerCell, blocked, cfg)
		if moved && dest != cur {
			t.StartMove(dest, cfg.MoveDuration(), now)
			t.StartRotation(facingAngle(dest.X-cur.X, dest.Y-cur.Y), cfg.RotationDuration(), now)
			// Reserve the destination so a later enemy this tick cannot
			// pick the same cell. The vacated cell stays reserved too;
			// the mover is still physically crossing it.
			occupied[dest] = e

			if en.Type == component.EnemySpider {
				s.maybeLayWeb(w, e, cur, playerCell, occupied, now, cfg)
			}
		}

		// Blocked-in-place enemies reschedule like everyone else.
		en.NextMove = now.Add(s.moveInterval(cfg, en, score))
	}
}

func (s *BehaviorSystem) chooseStep(en *component.Enemy, cur, playerCell common.Cell, blocked func(common.Cell) bool, cfg *prefabs.Tuning) (common.Cell, bool) {
	switch en.Behavior {
	case component.BehaviorChase:
		return s.stepChase(en, cur, playerCell, blocked, cfg)
	case component.BehaviorPatrol:
		return s.stepPatrol(en, cur, blocked)
	case component.BehaviorGuard:
		return s.stepGuard(en, cur, blocked, cfg)
	case component.BehaviorScripted:
		return s.stepScripted(cur, playerCell, blocked, cfg)
	default:
		return s.stepRandom(cur, blocked)
	}
}

// stepChase walks the cached path toward the player, rebuilding it whenever
// the player changes cell, and falling back to stepwise movement with
// perpendicular alternatives when the path is blocked. Outside the
// detection radius the enemy wanders instead.
func (s *BehaviorSystem) stepChase(en *component.Enemy, cur, playerCell common.Cell, blocked func(common.Cell) bool, cfg *prefabs.Tuning) (common.Cell, bool) {
	if common.Manhattan(cur, playerCell) > cfg.DetectionRadius {
		en.Chase = nil
		return s.stepRandom(cur, blocked)
	}

	if en.Chase == nil || en.Chase.Target != playerCell {
		en.Chase = &component.ChaseState{
			Target: playerCell,
			Path:   buildPath(cur, playerCell),
		}
	}

	st := en.Chase
	for st.PathIndex < len(st.Path) && st.Path[st.PathIndex] == cur {
		st.PathIndex++
	}
	if st.PathIndex < len(st.Path) {
		next := st.Path[st.PathIndex]
		if common.Manhattan(cur, next) == 1 && common.InBounds(next) && !blocked(next) {
			st.PathIndex++
			return next, true
		}
	}

	// Path exhausted or obstructed; drop the cache and sidestep.
	en.Chase = nil
	return stepToward(cur, playerCell, blocked)
}

func (s *BehaviorSystem) stepPatrol(en *component.Enemy, cur common.Cell, blocked func(common.Cell) bool) (common.Cell, bool) {
	if len(en.Waypoints) == 0 {
		en.Waypoints = patrolLoop(en.SpawnCell)
		en.CurrentWaypoint = 0
	}

	wp := en.Waypoints[en.CurrentWaypoint]
	if cur == wp {
		en.CurrentWaypoint = (en.CurrentWaypoint + 1) % len(en.Waypoints)
		wp = en.Waypoints[en.CurrentWaypoint]
	}
	return stepToward(cur, wp, blocked)
}

func (s *BehaviorSystem) stepRandom(cur common.Cell, blocked func(common.Cell) bool) (common.Cell, bool) {
	// Four cardinal steps plus "stay", chosen uniformly.
	pick := s.rng.Intn(5)
	if pick == 4 {
		return cur, false
	}
	d := cardinals[pick]
	dest := cur.Add(d[0], d[1])
	if !common.InBounds(dest) || blocked(dest) {
		return cur, false
	}
	return dest, true
}

func (s *BehaviorSystem) stepGuard(en *component.Enemy, cur common.Cell, blocked func(common.Cell) bool, cfg *prefabs.Tuning) (common.Cell, bool) {
	if en.GuardCell == nil {
		anchor := cur
		en.GuardCell = &anchor
	}
	anchor := *en.GuardCell

	if common.Manhattan(cur, anchor) > cfg.GuardRadius {
		return stepToward(cur, anchor, blocked)
	}

	if s.rng.Float64() >= cfg.GuardStepChance {
		return cur, false
	}
	d := cardinals[s.rng.Intn(4)]
	dest := cur.Add(d[0], d[1])
	if !common.InBounds(dest) || blocked(dest) || common.Manhattan(dest, anchor) > cfg.GuardRadius {
		return cur, false
	}
	return dest, true
}

func (s *BehaviorSystem) stepScripted(cur, playerCell common.Cell, blocked func(common.Cell) bool, cfg *prefabs.Tuning) (common.Cell, bool) {
	sc := s.getScript(cfg)
	if sc == nil {
		return s.stepRandom(cur, blocked)
	}

	dx, dy, err := sc.chooseMove(cur, playerCell)
	if err != nil {
		if !s.scriptWarn {
			log.Printf("behavior: script %s: %v", cfg.AIScript, err)
			s.scriptWarn = true
		}
		return s.stepRandom(cur, blocked)
	}
	if dx == 0 && dy == 0 {
		return cur, false
	}
	dest := cur.Add(dx, dy)
	if !common.InBounds(dest) || blocked(dest) {
		return cur, false
	}
	return dest, true
}

func (s *BehaviorSystem) getScript(cfg *prefabs.Tuning) *stepScript {
	if cfg.AIScript == "" {
		return nil
	}
	if s.script != nil && s.script.name == cfg.AIScript {
		return s.script
	}
	sc, err := newStepScript(cfg.AIScript)
	if err != nil {
		if !s.scriptWarn {
			log.Printf("behavior: load script %s: %v", cfg.AIScript, err)
			s.scriptWarn = true
		}
		return nil
	}
	s.script = sc
	s.scriptWarn = false
	return sc
}

// frogAttacking reports whether ordinary movement is suspended this tick:
// either the tongue is mid-attack, or an attack just started. The tongue
// component attaches lazily on the frog's first decision; the check-then-set
// keeps that idempotent.
func (s *BehaviorSystem) frogAttacking(w *ecs.World, e ecs.Entity, en *component.Enemy, now time.Time, cfg *prefabs.Tuning) bool {
	tng, ok := ecs.Get(w, e, component.TongueComponent)
	if !ok {
		tng = &component.Tongue{Phase: component.TongueIdle}
		if err := ecs.Add(w, e, component.TongueComponent, tng); err != nil {
			log.Printf("behavior: attach tongue to %v: %v", e, err)
			return false
		}
	}

	if tng.Phase != component.TongueIdle {
		return true
	}

	if now.Sub(tng.LastAttack) < cfg.TongueCooldownSecs.D() {
		return false
	}
	if s.rng.Float64() >= cfg.TongueAttackChance {
		return false
	}

	d := cardinals[s.rng.Intn(4)]
	tng.Phase = component.TongueExtending
	tng.DirX, tng.DirY = d[0], d[1]
	tng.Length = 0
	tng.Segments = nil
	tng.LastUpdate = now
	tng.Extended = true
	return true
}

// maybeLayWeb rolls the spider's web chance after a successful move. The web
// goes at the vacated cell unless the player or another enemy is there.
func (s *BehaviorSystem) maybeLayWeb(w *ecs.World, self ecs.Entity, prev, playerCell common.Cell, occupied map[common.Cell]ecs.Entity, now time.Time, cfg *prefabs.Tuning) {
	if s.rng.Float64() >= cfg.WebChance {
		return
	}
	if prev == playerCell {
		return
	}
	if other, taken := occupied[prev]; taken && other != self {
		return
	}

	web := w.CreateEntity()
	if err := ecs.Add(w, web, component.TransformComponent, component.NewTransformAt(prev)); err != nil {
		log.Printf("behavior: lay web: %v", err)
		return
	}
	_ = ecs.Add(w, web, component.WebComponent, &component.Web{
		Created:    now,
		Duration:   cfg.WebSeconds.D(),
		FreezeTime: cfg.FreezeSeconds.D(),
		Active:     true,
	})
	_ = ecs.Add(w, web, component.ColliderComponent, &component.Collider{
		Width:  common.CellSize,
		Height: common.CellSize,
		Group:  component.GroupWeb,
	})
}

// moveInterval derives the next decision delay: the base shortened by score
// up to a cap, scaled per behavior and archetype, then jittered.
func (s *BehaviorSystem) moveInterval(cfg *prefabs.Tuning, en *component.Enemy, score int) time.Duration {
	base := cfg.BaseIntervalSeconds.D()

	reduction := time.Duration(float64(score) * float64(cfg.ReductionPerPoint.D()))
	if reduction > cfg.MaxIntervalReduction.D() {
		reduction = cfg.MaxIntervalReduction.D()
	}

	iv := float64(base - reduction)
	iv *= behaviorMultiplier(cfg, en.Behavior)
	iv *= archetypeMultiplier(cfg, en.Type)
	iv *= 1 + (s.rng.Float64()*2-1)*cfg.IntervalJitter

	const floor = float64(50 * time.Millisecond)
	if iv < floor {
		iv = floor
	}
	return time.Duration(iv)
}

func behaviorMultiplier(cfg *prefabs.Tuning, b component.BehaviorType) float64 {
	m := cfg.BehaviorMultipliers
	switch b {
	case component.BehaviorChase:
		return nonZero(m.Chase)
	case component.BehaviorPatrol:
		return nonZero(m.Patrol)
	case component.BehaviorRandom:
		return nonZero(m.Random)
	case component.BehaviorGuard:
		return nonZero(m.Guard)
	case component.BehaviorScripted:
		return nonZero(m.Scripted)
	}
	return 1
}

func archetypeMultiplier(cfg *prefabs.Tuning, t component.EnemyType) float64 {
	m := cfg.ArchetypeMultipliers
	switch t {
	case component.EnemyBat:
		return nonZero(m.Bat)
	case component.EnemySpider:
		return nonZero(m.Spider)
	case component.EnemyFrog:
		return nonZero(m.Frog)
	}
	return 1
}

func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// stepToward takes one cell toward target, horizontal axis first, then
// vertical, then the perpendicular alternatives in a fixed order. Returns
// the current cell with false when everything is blocked.
func stepToward(cur, target common.Cell, blocked func(common.Cell) bool) (common.Cell, bool) {
	dx := sign(target.X - cur.X)
	dy := sign(target.Y - cur.Y)

	candidates := make([]common.Cell, 0, 4)
	if dx != 0 {
		candidates = append(candidates, cur.Add(dx, 0))
	}
	if dy != 0 {
		candidates = append(candidates, cur.Add(0, dy))
	}
	if dx != 0 {
		candidates = append(candidates, cur.Add(0, -1), cur.Add(0, 1))
	} else {
		candidates = append(candidates, cur.Add(-1, 0), cur.Add(1, 0))
	}

	for _, c := range candidates {
		if c == cur {
			continue
		}
		if common.InBounds(c) && !blocked(c) {
			return c, true
		}
	}
	return cur, false
}

// buildPath lists the cells from cur to target, horizontal leg first.
func buildPath(cur, target common.Cell) []common.Cell {
	path := make([]common.Cell, 0, common.Manhattan(cur, target))
	c := cur
	for c.X != target.X {
		c = c.Add(sign(target.X-c.X), 0)
		path = append(path, c)
	}
	for c.Y != target.Y {
		c = c.Add(0, sign(target.Y-c.Y))
		path = append(path, c)
	}
	return path
}

// patrolLoop builds a small square loop anchored at the spawn cell, clamped
// onto the board.
func patrolLoop(anchor common.Cell) []common.Cell {
	const side = 2
	corners := []common.Cell{
		anchor,
		anchor.Add(side, 0),
		anchor.Add(side, side),
		anchor.Add(0, side),
	}
	for i, c := range corners {
		corners[i] = clampCell(c)
	}
	return corners
}

func clampCell(c common.Cell) common.Cell {
	if c.X < 0 {
		c.X = 0
	}
	if c.X >= common.GridCols {
		c.X = common.GridCols - 1
	}
	if c.Y < 0 {
		c.Y = 0
	}
	if c.Y >= common.GridRows {
		c.Y = common.GridRows - 1
	}
	return c
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
