package system

import (
	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
)

// PlayerSystem consumes directional intents and starts grid moves. Movement
// is blocked while a move animation is in flight, while frozen by a web, and
// once game over has latched. It also expires the player's freeze effect.
type PlayerSystem struct {
	now Clock
	cfg Config
}

func NewPlayerSystem(now Clock, cfg Config) *PlayerSystem {
	return &PlayerSystem{now: now, cfg: cfg}
}

func (s *PlayerSystem) Update(w *ecs.World) {
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
	inp, ok := ecs.Get(w, playerEnt, component.InputComponent)
	if !ok {
		return
	}

	frozen := false
	if fz, ok := ecs.Get(w, playerEnt, component.FreezeComponent); ok {
		if fz.Active && !now.Before(fz.Start.Add(fz.Duration)) {
			// Clean up the originating web if it still exists. The
			// reference is non-owning; the web being gone is fine.
			if src := ecs.Entity(fz.SourceWeb); w.IsAlive(src) {
				w.DestroyEntity(src)
			}
			ecs.Remove(w, playerEnt, component.FreezeComponent)
		} else if fz.Active {
			frozen = true
		}
	}

	if player.GameOverPending {
		inp.ClearDirections()
		inp.Eat = false
		return
	}

	if frozen {
		// A trapped player takes no actions at all until the freeze expires.
		inp.ClearDirections()
		inp.Eat = false
		return
	}

	if t.Animating {
		inp.ClearDirections()
		return
	}

	dx, dy := 0, 0
	switch {
	case inp.Up:
		dy = -1
	case inp.Down:
		dy = 1
	case inp.Left:
		dx = -1
	case inp.Right:
		dx = 1
	}
	inp.ClearDirections()
	if dx == 0 && dy == 0 {
		return
	}

	dest := t.Cell().Add(dx, dy)
	if !common.InBounds(dest) {
		return
	}

	t.StartMove(dest, cfg.MoveDuration(), now)
	t.StartRotation(facingAngle(dx, dy), cfg.RotationDuration(), now)
}

// facingAngle maps a cardinal step to a degree heading, 0 pointing right.
func facingAngle(dx, dy int) float64 {
	switch {
	case dx > 0:
		return 0
	case dy > 0:
		return 90
	case dx < 0:
		return 180
	default:
		return 270
	}
}
