package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/prefabs"
)

// stepScript wraps a compiled Tengo script that overrides the step decision
// for scripted enemies. The script must define choose_move(ctx) returning a
// map with dx/dy offsets.
type stepScript struct {
	name     string
	compiled *tengo.Compiled
}

const stepDispatchScript = `
__out = choose_move(__ctx)
`

func newStepScript(name string) (*stepScript, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("behavior: load script %s: %w", name, err)
	}

	script := tengo.NewScript(append(src, []byte(stepDispatchScript)...))
	_ = script.Add("__ctx", map[string]any{})
	_ = script.Add("__out", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("behavior: compile script %s: %w", name, err)
	}
	return &stepScript{name: name, compiled: compiled}, nil
}

// chooseMove runs the script for one decision. Offsets are clamped to a
// single cardinal step; a diagonal result keeps only its horizontal part.
func (s *stepScript) chooseMove(cur, player common.Cell) (int, int, error) {
	c := s.compiled.Clone()
	err := c.Set("__ctx", map[string]any{
		"x":        cur.X,
		"y":        cur.Y,
		"player_x": player.X,
		"player_y": player.Y,
		"cols":     common.GridCols,
		"rows":     common.GridRows,
	})
	if err != nil {
		return 0, 0, err
	}
	if err := c.Run(); err != nil {
		return 0, 0, err
	}

	out := c.Get("__out").Map()
	dx := clampStep(asInt(out["dx"]))
	dy := clampStep(asInt(out["dy"]))
	if dx != 0 {
		dy = 0
	}
	return dx, dy, nil
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func clampStep(v int) int {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
