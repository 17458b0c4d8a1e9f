package main

import (
	"log"
	"math/rand"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
	"github.com/david0178418/math-game-sub000/ecs/system"
	"github.com/david0178418/math-game-sub000/prefabs"
	"github.com/david0178418/math-game-sub000/problems"
)

// Game drives one session at a time: a world, the fixed system order, and
// the render boundary. A new session gets a brand-new world, so nothing
// scheduled against a dead session can ever touch a live one.
type Game struct {
	world *ecs.World
	spawn *system.SpawnSystem

	tuning     atomic.Pointer[prefabs.Tuning]
	tuningPath string
	watcher    *prefabs.Watcher

	rng     *rand.Rand
	session int
	debug   bool
}

func NewGame(tuningPath string, debug bool) (*Game, error) {
	tun, err := prefabs.LoadTuning(tuningPath)
	if err != nil {
		return nil, err
	}

	g := &Game{
		tuningPath: tuningPath,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		debug:      debug,
	}
	g.tuning.Store(tun)

	if tuningPath != "" {
		watcher, err := prefabs.NewWatcher(filepath.Dir(tuningPath))
		if err != nil {
			log.Printf("game: tuning watcher: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	g.startSession()
	return g, nil
}

// config hands systems the current tuning; a hot reload swaps the pointer
// and takes effect on the next tick.
func (g *Game) config() *prefabs.Tuning {
	return g.tuning.Load()
}

func (g *Game) startSession() {
	g.session++
	cfg := g.config()

	w := ecs.NewWorld()

	player := w.CreateEntity()
	center := common.Cell{X: common.GridCols / 2, Y: common.GridRows / 2}
	mustAdd(ecs.Add(w, player, component.TransformComponent, component.NewTransformAt(center)))
	mustAdd(ecs.Add(w, player, component.PlayerComponent, &component.Player{Lives: cfg.StartingLives}))
	mustAdd(ecs.Add(w, player, component.InputComponent, &component.Input{}))
	mustAdd(ecs.Add(w, player, component.HealthComponent, &component.Health{
		Current: cfg.StartingLives,
		Max:     cfg.StartingLives,
	}))
	mustAdd(ecs.Add(w, player, component.ColliderComponent, &component.Collider{
		Width:  common.CellSize * 0.9,
		Height: common.CellSize * 0.9,
		Group:  component.GroupPlayer,
	}))

	clock := system.Clock(time.Now)
	g.spawn = system.NewSpawnSystem(clock, g.config, g.rng, problems.NewSource(g.rng, cfg.CorrectRatio))

	w.AddSystem(system.NewInputSystem())
	w.AddSystem(system.NewPlayerSystem(clock, g.config))
	w.AddSystem(system.NewBehaviorSystem(clock, g.config, g.rng))
	w.AddSystem(system.NewTongueSystem(clock, g.config))
	w.AddSystem(system.NewAnimationSystem(clock))
	w.AddSystem(system.NewCollisionSystem(clock, g.config))
	w.AddSystem(g.spawn)

	g.world = w
	log.Printf("game: session %d started", g.session)
}

func (g *Game) Update() error {
	g.reloadTuning()

	g.world.Update()

	for _, ev := range g.world.Events().Drain() {
		switch ev.Type {
		case system.EventGameOver:
			if over, ok := ev.Data.(system.GameOver); ok {
				log.Printf("game: session %d over, final score %d", g.session, over.Score)
			}
			g.startSession()
		case system.EventLevelComplete:
			if lvl, ok := ev.Data.(system.LevelComplete); ok {
				log.Printf("game: level %d, new target %d", lvl.Level, lvl.Target)
			}
		}
	}
	return nil
}

func (g *Game) reloadTuning() {
	if g.watcher == nil {
		return
	}
	select {
	case name, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		tun, err := prefabs.LoadTuning(g.tuningPath)
		if err != nil {
			log.Printf("game: reload tuning after %s changed: %v", name, err)
			return
		}
		g.tuning.Store(tun)
		log.Printf("game: tuning reloaded from %s", g.tuningPath)
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			log.Printf("game: tuning watcher: %v", err)
		}
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawWorld(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.GridCols * common.CellSize, common.GridRows * common.CellSize
}

func mustAdd(err error) {
	if err != nil {
		log.Fatalf("game: build player: %v", err)
	}
}
