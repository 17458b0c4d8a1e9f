package system

import (
	"log"
	"time"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
	"github.com/david0178418/math-game-sub000/prefabs"
)

// TongueSystem advances every frog's lashing attack: idle, extending,
// holding, retracting, back to idle. Segments are re-walked from the
// attacker outward each tick and truncated at the first occupied cell or the
// board edge; that truncation is the obstacle-hit detection.
type TongueSystem struct {
	now Clock
	cfg Config
}

func NewTongueSystem(now Clock, cfg Config) *TongueSystem {
	return &TongueSystem{now: now, cfg: cfg}
}

func (s *TongueSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := s.now()
	cfg := s.cfg()

	var playerCell *common.Cell
	if playerEnt, ok := w.First(component.PlayerComponent.ID()); ok {
		if pt, ok := ecs.Get(w, playerEnt, component.TransformComponent); ok {
			c := pt.Cell()
			playerCell = &c
		}
	}

	attackers := w.Query(component.EnemyComponent.ID(), component.TongueComponent.ID(), component.TransformComponent.ID())

	// Cells occupied by enemies, for truncation. Built once per tick.
	enemyCells := map[common.Cell]ecs.Entity{}
	for _, e := range w.Query(component.EnemyComponent.ID(), component.TransformComponent.ID()) {
		if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
			enemyCells[t.Cell()] = e
		}
	}

	for _, e := range attackers {
		tng, ok := ecs.Get(w, e, component.TongueComponent)
		if !ok {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}

		s.heal(e, tng, cfg)

		dt := time.Duration(0)
		if !tng.LastUpdate.IsZero() && now.After(tng.LastUpdate) {
			dt = now.Sub(tng.LastUpdate)
		}
		tng.LastUpdate = now

		speedPx := cfg.TongueSpeedCells * common.CellSize
		maxLen := float64(cfg.TongueMaxRange * common.CellSize)
		origin := t.Cell()

		switch tng.Phase {
		case component.TongueIdle:
			tng.Segments = nil
			tng.Length = 0

		case component.TongueExtending:
			tng.Length += speedPx * dt.Seconds()
			if tng.Length > maxLen {
				tng.Length = maxLen
			}
			hitObstacle := s.rebuildSegments(tng, origin, e, enemyCells, playerCell)
			if hitObstacle || tng.Length >= maxLen {
				tng.Phase = component.TongueHolding
				tng.HoldUntil = now.Add(cfg.TongueHoldSeconds.D())
			}

		case component.TongueHolding:
			s.rebuildSegments(tng, origin, e, enemyCells, playerCell)
			if !now.Before(tng.HoldUntil) {
				tng.Phase = component.TongueRetracting
			}

		case component.TongueRetracting:
			tng.Length -= speedPx * dt.Seconds()
			if tng.Length <= 0 {
				tng.Length = 0
				tng.Segments = nil
				tng.Phase = component.TongueIdle
				tng.LastAttack = now
			} else {
				s.rebuildSegments(tng, origin, e, enemyCells, playerCell)
			}
		}

		tng.Extended = tng.Phase != component.TongueIdle
	}
}

// heal applies the defensive per-tick validation: unknown phases reset the
// attack, malformed directions are zeroed, and length is clamped into range.
// These are self-corrections, never errors.
func (s *TongueSystem) heal(e ecs.Entity, tng *component.Tongue, cfg *prefabs.Tuning) {
	if tng.Phase < component.TongueIdle || tng.Phase > component.TongueRetracting {
		log.Printf("tongue: entity=%v invalid phase %d, resetting", e, tng.Phase)
		tng.Phase = component.TongueIdle
		tng.DirX, tng.DirY = 0, 0
		tng.Length = 0
		tng.Segments = nil
		return
	}

	if abs(tng.DirX)+abs(tng.DirY) > 1 || abs(tng.DirX) > 1 || abs(tng.DirY) > 1 {
		log.Printf("tongue: entity=%v invalid direction (%d,%d), zeroing", e, tng.DirX, tng.DirY)
		tng.DirX, tng.DirY = 0, 0
	}

	maxLen := float64(cfg.TongueMaxRange * common.CellSize)
	if tng.Length < 0 {
		tng.Length = 0
	}
	if tng.Length > maxLen {
		tng.Length = maxLen
	}
}

// rebuildSegments re-quantizes the continuous length into grid cells walked
// outward from the attacker, stopping at the board edge or including-and-
// stopping-at the first cell occupied by the player or another enemy.
// Returns true when the walk was cut short by an occupied cell.
func (s *TongueSystem) rebuildSegments(tng *component.Tongue, origin common.Cell, self ecs.Entity, enemyCells map[common.Cell]ecs.Entity, playerCell *common.Cell) bool {
	tng.Segments = tng.Segments[:0]
	if tng.DirX == 0 && tng.DirY == 0 {
		return false
	}

	reach := int(tng.Length) / common.CellSize
	for i := 1; i <= reach; i++ {
		c := origin.Add(tng.DirX*i, tng.DirY*i)
		if !common.InBounds(c) {
			return true
		}
		tng.Segments = append(tng.Segments, c)
		if playerCell != nil && c == *playerCell {
			return true
		}
		if other, taken := enemyCells[c]; taken && other != self {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
