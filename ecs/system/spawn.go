package system

import (
	"log"
	"math/rand"
	"time"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
	"github.com/david0178418/math-game-sub000/prefabs"
	"github.com/david0178418/math-game-sub000/problems"
)

// EventLevelComplete fires when every correct tile on the board has been
// consumed and the board resets for the next level.
const EventLevelComplete = "level_complete"

// LevelComplete is the EventLevelComplete payload.
type LevelComplete struct {
	Level  int
	Target int
}

// cycleState tracks enemy introduction explicitly. One archetype from the
// sequence is introduced at a time; after the whole sequence is present,
// spawning pauses until the board is clear of enemies, then the cycle
// restarts.
type cycleState struct {
	sequence  []component.EnemyType
	index     int
	complete  bool
	lastSpawn time.Time
}

// SpawnSystem owns enemy introduction, tile population, level advancement,
// and the end-of-tick lifecycle sweep.
type SpawnSystem struct {
	now    Clock
	cfg    Config
	rng    *rand.Rand
	source problems.Source

	cycle      cycleState
	level      int
	emptySince time.Time
}

func NewSpawnSystem(now Clock, cfg Config, rng *rand.Rand, source problems.Source) *SpawnSystem {
	return &SpawnSystem{
		now:    now,
		cfg:    cfg,
		rng:    rng,
		source: source,
		cycle: cycleState{
			sequence: []component.EnemyType{
				component.EnemyBat,
				component.EnemySpider,
				component.EnemyFrog,
			},
		},
		level: 1,
	}
}

// Level is the current level number, read by the HUD boundary.
func (s *SpawnSystem) Level() int {
	return s.level
}

// Target is the value correct tiles carry this level.
func (s *SpawnSystem) Target() int {
	return s.cfg().BaseTarget + s.level - 1
}

func (s *SpawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := s.now()
	cfg := s.cfg()

	s.sweepWebs(w, now)
	s.checkLevelComplete(w, now, cfg)
	s.populateTiles(w, now, cfg)
	s.spawnEnemies(w, now, cfg)
	s.pruneTiles(w, cfg)
}

// sweepWebs removes sprung webs and expires untouched ones.
func (s *SpawnSystem) sweepWebs(w *ecs.World, now time.Time) {
	ecs.ForEach(w, component.WebComponent, func(e ecs.Entity, web *component.Web) {
		if !web.Active || now.Sub(web.Created) >= web.Duration {
			if !w.DestroyEntity(e) {
				log.Printf("spawn: web %v already removed", e)
			}
		}
	})
}

// checkLevelComplete advances the level once every correct tile has been
// consumed, clearing the whole board and forcing immediate repopulation.
func (s *SpawnSystem) checkLevelComplete(w *ecs.World, now time.Time, cfg *prefabs.Tuning) {
	correctTotal, correctLeft := 0, 0
	ecs.ForEach(w, component.ProblemComponent, func(_ ecs.Entity, p *component.Problem) {
		if !p.Correct {
			return
		}
		correctTotal++
		if !p.Consumed {
			correctLeft++
		}
	})
	if correctTotal == 0 || correctLeft > 0 {
		return
	}

	s.level++
	log.Printf("spawn: level complete, advancing to %d", s.level)

	// Full board reset: all tiles and enemies go.
	ecs.ForEach(w, component.ProblemComponent, func(e ecs.Entity, _ *component.Problem) {
		w.DestroyEntity(e)
	})
	ecs.ForEach(w, component.EnemyComponent, func(e ecs.Entity, _ *component.Enemy) {
		w.DestroyEntity(e)
	})

	// Reset timers so repopulation and the spawn cycle start immediately.
	s.cycle.index = 0
	s.cycle.complete = false
	s.cycle.lastSpawn = time.Time{}
	s.emptySince = now.Add(-cfg.TileRespawnDelaySecs.D())

	w.Events().Push(ecs.Event{
		Type: EventLevelComplete,
		Data: LevelComplete{Level: s.level, Target: s.Target()},
	})
}

// populateTiles fills every empty cell with a fresh board of tiles once the
// board has been bare of unconsumed tiles for the minimum delay.
func (s *SpawnSystem) populateTiles(w *ecs.World, now time.Time, cfg *prefabs.Tuning) {
	active := 0
	ecs.ForEach(w, component.ProblemComponent, func(_ ecs.Entity, p *component.Problem) {
		if !p.Consumed {
			active++
		}
	})
	if active > 0 {
		s.emptySince = time.Time{}
		return
	}

	if s.emptySince.IsZero() {
		s.emptySince = now
		return
	}
	if now.Sub(s.emptySince) < cfg.TileRespawnDelaySecs.D() {
		return
	}

	empty := s.emptyCells(w)
	if len(empty) == 0 {
		return
	}

	score := 0
	if playerEnt, ok := w.First(component.PlayerComponent.ID()); ok {
		if p, ok := ecs.Get(w, playerEnt, component.PlayerComponent); ok {
			score = p.Score
		}
	}
	difficulty := 1 + score/cfg.DifficultyScoreStep

	tiles := s.source.Generate(s.Target(), difficulty, len(empty))
	for i, cell := range empty {
		if i >= len(tiles) {
			break
		}
		s.spawnTile(w, cell, tiles[i], difficulty)
	}
	s.emptySince = time.Time{}
}

func (s *SpawnSystem) spawnTile(w *ecs.World, cell common.Cell, p problems.Problem, difficulty int) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, component.NewTransformAt(cell)); err != nil {
		log.Printf("spawn: tile transform: %v", err)
		return
	}
	_ = ecs.Add(w, e, component.ProblemComponent, &component.Problem{
		Value:      p.Value,
		Correct:    p.Correct,
		Difficulty: difficulty,
	})
	_ = ecs.Add(w, e, component.ColliderComponent, &component.Collider{
		Width:  common.CellSize * 0.8,
		Height: common.CellSize * 0.8,
		Group:  component.GroupTile,
	})
}

// emptyCells returns every board cell free for a new tile: nothing solid on
// it and no unconsumed tile already there. Consumed tiles are spent husks and
// do not reserve their cell.
func (s *SpawnSystem) emptyCells(w *ecs.World) []common.Cell {
	taken := s.blockedCells(w)
	for _, e := range w.Query(component.ProblemComponent.ID(), component.TransformComponent.ID()) {
		p, ok := ecs.Get(w, e, component.ProblemComponent)
		if !ok || p.Consumed {
			continue
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
			taken[t.Cell()] = true
		}
	}

	out := make([]common.Cell, 0, common.GridCols*common.GridRows)
	for y := 0; y < common.GridRows; y++ {
		for x := 0; x < common.GridCols; x++ {
			c := common.Cell{X: x, Y: y}
			if !taken[c] {
				out = append(out, c)
			}
		}
	}
	return out
}

// spawnEnemies introduces the next archetype in the sequence when its
// interval has elapsed, and restarts the cycle once a completed board has
// cleared out.
func (s *SpawnSystem) spawnEnemies(w *ecs.World, now time.Time, cfg *prefabs.Tuning) {
	enemyCount := len(w.Query(component.EnemyComponent.ID()))

	if s.cycle.complete {
		if enemyCount == 0 {
			s.cycle.index = 0
			s.cycle.complete = false
			s.cycle.lastSpawn = now
		}
		return
	}

	score := 0
	if playerEnt, ok := w.First(component.PlayerComponent.ID()); ok {
		if p, ok := ecs.Get(w, playerEnt, component.PlayerComponent); ok {
			score = p.Score
		}
	}

	if !s.cycle.lastSpawn.IsZero() && now.Sub(s.cycle.lastSpawn) < s.spawnInterval(cfg, score) {
		return
	}

	cell, ok := s.edgeCell(w)
	if !ok {
		// Board edge fully occupied; try again next tick.
		return
	}

	archetype := s.cycle.sequence[s.cycle.index]
	behavior := s.randomBehavior(cfg)

	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent, component.NewTransformAt(cell)); err != nil {
		log.Printf("spawn: enemy transform: %v", err)
		return
	}
	_ = ecs.Add(w, e, component.EnemyComponent, &component.Enemy{
		Type:      archetype,
		Behavior:  behavior,
		NextMove:  now.Add(cfg.BaseIntervalSeconds.D()),
		SpawnCell: cell,
	})
	_ = ecs.Add(w, e, component.ColliderComponent, &component.Collider{
		Width:  common.CellSize * 0.9,
		Height: common.CellSize * 0.9,
		Group:  component.GroupEnemy,
	})
	log.Printf("spawn: %s (%s) at %v", archetype, behavior, cell)

	s.cycle.lastSpawn = now
	s.cycle.index++
	if s.cycle.index >= len(s.cycle.sequence) {
		s.cycle.complete = true
	}
}

// spawnInterval shrinks with score, bounded below.
func (s *SpawnSystem) spawnInterval(cfg *prefabs.Tuning, score int) time.Duration {
	iv := cfg.SpawnBaseSeconds.D() - time.Duration(float64(score)*float64(cfg.SpawnReductionPerPt.D()))
	if min := cfg.SpawnMinSeconds.D(); iv < min {
		iv = min
	}
	return iv
}

// blockedCells marks the cells an enemy cannot spawn onto: the player, other
// enemies, and webs. Tiles are floor items and do not block.
func (s *SpawnSystem) blockedCells(w *ecs.World) map[common.Cell]bool {
	taken := map[common.Cell]bool{}
	mark := func(e ecs.Entity) {
		if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
			taken[t.Cell()] = true
		}
	}
	if p, ok := w.First(component.PlayerComponent.ID()); ok {
		mark(p)
	}
	for _, e := range w.Query(component.EnemyComponent.ID(), component.TransformComponent.ID()) {
		mark(e)
	}
	for _, e := range w.Query(component.WebComponent.ID(), component.TransformComponent.ID()) {
		mark(e)
	}
	return taken
}

// edgeCell picks a random unblocked cell on the board's perimeter.
func (s *SpawnSystem) edgeCell(w *ecs.World) (common.Cell, bool) {
	taken := s.blockedCells(w)

	edges := make([]common.Cell, 0, 2*common.GridCols+2*common.GridRows)
	for x := 0; x < common.GridCols; x++ {
		edges = append(edges, common.Cell{X: x, Y: 0}, common.Cell{X: x, Y: common.GridRows - 1})
	}
	for y := 1; y < common.GridRows-1; y++ {
		edges = append(edges, common.Cell{X: 0, Y: y}, common.Cell{X: common.GridCols - 1, Y: y})
	}

	s.rng.Shuffle(len(edges), func(i, j int) {
		edges[i], edges[j] = edges[j], edges[i]
	})
	for _, c := range edges {
		if !taken[c] {
			return c, true
		}
	}
	return common.Cell{}, false
}

func (s *SpawnSystem) randomBehavior(cfg *prefabs.Tuning) component.BehaviorType {
	pool := []component.BehaviorType{
		component.BehaviorChase,
		component.BehaviorPatrol,
		component.BehaviorRandom,
		component.BehaviorGuard,
	}
	if cfg.AIScript != "" {
		pool = append(pool, component.BehaviorScripted)
	}
	return pool[s.rng.Intn(len(pool))]
}

// pruneTiles bounds memory by deleting consumed, zero-footprint tiles once
// the total tile count passes the retention threshold.
func (s *SpawnSystem) pruneTiles(w *ecs.World, cfg *prefabs.Tuning) {
	tiles := w.Query(component.ProblemComponent.ID())
	if len(tiles) <= cfg.TileRetention {
		return
	}
	for _, e := range tiles {
		p, ok := ecs.Get(w, e, component.ProblemComponent)
		if !ok || !p.Consumed {
			continue
		}
		if col, ok := ecs.Get(w, e, component.ColliderComponent); ok && col.Width > 0 {
			continue
		}
		w.DestroyEntity(e)
	}
}
