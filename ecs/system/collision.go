package system

import (
	"log"
	"time"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
	"github.com/david0178418/math-game-sub000/prefabs"
)

// EventGameOver fires when the deferred game-over deadline passes. The
// deadline lives on the player component, so tearing the session down (or
// starting a new one, which builds a fresh world) makes a stale deadline
// impossible.
const EventGameOver = "game_over"

// GameOver is the EventGameOver payload.
type GameOver struct {
	Score int
	Lives int
}

// CollisionSystem resolves the player's grid-cell co-locations in a fixed
// order each tick: invulnerability expiry, tongue hits, web traps, tile
// consumption, enemy contact. Collision is pure cell equality.
type CollisionSystem struct {
	now Clock
	cfg Config
}

func NewCollisionSystem(now Clock, cfg Config) *CollisionSystem {
	return &CollisionSystem{now: now, cfg: cfg}
}

func (s *CollisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := s.now()
	cfg := s.cfg()

	playerEnt, ok := w.First(component.PlayerComponent.ID())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, playerEnt, component.PlayerComponent)
	if !ok {
		return
	}
	t, ok := ecs.Get(w, playerEnt, component.TransformComponent)
	if !ok {
		return
	}
	health, ok := ecs.Get(w, playerEnt, component.HealthComponent)
	if !ok {
		return
	}
	inp, _ := ecs.Get(w, playerEnt, component.InputComponent)

	cell := t.Cell()

	// 1. Invulnerability expires exactly when the clock passes the stamp.
	if health.Invulnerable && !now.Before(health.InvulnerableUntil) {
		health.Invulnerable = false
	}

	// 2. Tongue hits. The first active hit stops the scan.
	if !health.Invulnerable {
		for _, e := range w.Query(component.EnemyComponent.ID(), component.TongueComponent.ID()) {
			tng, ok := ecs.Get(w, e, component.TongueComponent)
			if !ok || !tng.Extended || len(tng.Segments) == 0 {
				continue
			}
			if !containsCell(tng.Segments, cell) {
				continue
			}
			s.damage(player, health, t, now, cfg)
			break
		}
	}

	// 3. Web traps, only when no freeze is already held.
	if !s.playerFrozen(w, playerEnt) {
		for _, e := range w.Query(component.WebComponent.ID(), component.TransformComponent.ID()) {
			web, ok := ecs.Get(w, e, component.WebComponent)
			if !ok || !web.Active {
				continue
			}
			wt, ok := ecs.Get(w, e, component.TransformComponent)
			if !ok || wt.Cell() != cell {
				continue
			}

			err := ecs.Add(w, playerEnt, component.FreezeComponent, &component.Freeze{
				Start:     now,
				Duration:  web.FreezeTime,
				Active:    true,
				SourceWeb: component.EntityRef(e),
			})
			if err != nil {
				log.Printf("collision: attach freeze: %v", err)
				continue
			}
			// The sprung web is inert immediately; the lifecycle sweep
			// removes the entity.
			web.Active = false
			break
		}
	}

	// 4. Tile consumption, gated on the eat intent. Consuming clears the
	// intent so a second tile in the same cell cannot double-award.
	if inp != nil && inp.Eat {
		for _, e := range w.Query(component.ProblemComponent.ID(), component.TransformComponent.ID()) {
			if !inp.Eat {
				break
			}
			prob, ok := ecs.Get(w, e, component.ProblemComponent)
			if !ok || prob.Consumed {
				continue
			}
			pt, ok := ecs.Get(w, e, component.TransformComponent)
			if !ok || pt.Cell() != cell {
				continue
			}

			prob.Consumed = true
			inp.Eat = false
			if prob.Correct {
				player.Score += prob.Value * prob.Difficulty
			} else {
				player.Lives--
				t.StartShake(cfg.ShakeIntensity, cfg.ShakeSeconds.D(), now)
				s.checkGameOver(player, t, now, cfg)
			}

			// Shrink the consumed tile out of the board; the lifecycle
			// sweep prunes zero-size tiles later.
			if col, ok := ecs.Get(w, e, component.ColliderComponent); ok {
				col.Width, col.Height = 0, 0
			}
		}
		inp.Eat = false
	}

	// 5. Enemy contact. One resolved hit per tick.
	if !health.Invulnerable {
		for _, e := range w.Query(component.EnemyComponent.ID(), component.TransformComponent.ID()) {
			et, ok := ecs.Get(w, e, component.TransformComponent)
			if !ok || et.Cell() != cell {
				continue
			}
			s.damage(player, health, t, now, cfg)
			break
		}
	}

	// The deferred transition is a deadline checked each tick, not a
	// fire-and-forget timer.
	if player.GameOverPending && !player.GameOverFired && !now.Before(player.GameOverAt) {
		player.GameOverFired = true
		w.Events().Push(ecs.Event{
			Type: EventGameOver,
			Data: GameOver{Score: player.Score, Lives: player.Lives},
		})
	}
}

// damage applies one life-loss hit: lives and health drop together, shake
// feedback starts, and the invulnerability window opens.
func (s *CollisionSystem) damage(player *component.Player, health *component.Health, t *component.Transform, now time.Time, cfg *prefabs.Tuning) {
	player.Lives--
	if health.Current > 0 {
		health.Current--
	}
	t.StartShake(cfg.ShakeIntensity, cfg.ShakeSeconds.D(), now)
	health.Invulnerable = true
	health.InvulnerableUntil = now.Add(cfg.InvulnerableSeconds.D())
	s.checkGameOver(player, t, now, cfg)
}

// checkGameOver latches the controls-disabled flag the instant lives reach
// zero and arms the deferred transition so the death animation can play.
func (s *CollisionSystem) checkGameOver(player *component.Player, t *component.Transform, now time.Time, cfg *prefabs.Tuning) {
	if player.Lives > 0 || player.GameOverPending {
		return
	}
	player.GameOverPending = true
	player.GameOverAt = now.Add(cfg.GameOverDelaySecs.D())
	player.DeathStart = now

	// Cosmetic death spin.
	t.StartRotation(t.Rotation+360, cfg.GameOverDelaySecs.D(), now)
	log.Printf("collision: player out of lives, score=%d", player.Score)
}

func (s *CollisionSystem) playerFrozen(w *ecs.World, playerEnt ecs.Entity) bool {
	fz, ok := ecs.Get(w, playerEnt, component.FreezeComponent)
	return ok && fz.Active
}

func containsCell(cells []common.Cell, c common.Cell) bool {
	for _, s := range cells {
		if s == c {
			return true
		}
	}
	return false
}
