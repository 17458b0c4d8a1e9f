package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/david0178418/math-game-sub000/common"
	"github.com/david0178418/math-game-sub000/ecs"
	"github.com/david0178418/math-game-sub000/ecs/component"
)

// The render boundary consumes each entity's interpolated transform — x, y,
// rotation, and shake offset — and a shape per collider group. Everything
// animation-derived stays visible here; nothing reads logical cells.

var (
	colorBackground = color.RGBA{24, 24, 32, 255}
	colorGridLine   = color.RGBA{44, 44, 56, 255}
	colorPlayer     = color.RGBA{80, 200, 120, 255}
	colorBat        = color.RGBA{180, 120, 220, 255}
	colorSpider     = color.RGBA{220, 160, 60, 255}
	colorFrog       = color.RGBA{100, 180, 100, 255}
	colorTile       = color.RGBA{70, 110, 180, 255}
	colorWeb        = color.RGBA{200, 200, 210, 90}
	colorTongue     = color.RGBA{230, 90, 90, 200}
)

func (g *Game) drawWorld(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	drawGrid(screen)

	w := g.world

	// Webs under everything else.
	ecs.ForEach2(w, component.WebComponent, component.TransformComponent, func(_ ecs.Entity, web *component.Web, t *component.Transform) {
		if !web.Active {
			return
		}
		vector.DrawFilledRect(screen, float32(t.X)+4, float32(t.Y)+4, common.CellSize-8, common.CellSize-8, colorWeb, false)
	})

	ecs.ForEach2(w, component.ProblemComponent, component.TransformComponent, func(_ ecs.Entity, p *component.Problem, t *component.Transform) {
		if p.Consumed {
			return
		}
		inset := float32(common.CellSize * 0.1)
		size := float32(common.CellSize) - 2*inset
		vector.DrawFilledRect(screen, float32(t.X)+inset, float32(t.Y)+inset, size, size, colorTile, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", p.Value), int(t.X)+common.CellSize/2-4, int(t.Y)+common.CellSize/2-8)
	})

	// Tongues before their owners so the frog overlaps the base.
	ecs.ForEach2(w, component.TongueComponent, component.TransformComponent, func(_ ecs.Entity, tng *component.Tongue, _ *component.Transform) {
		if !tng.Extended {
			return
		}
		for _, c := range tng.Segments {
			x, y := common.CellToPixel(c)
			vector.DrawFilledRect(screen, float32(x)+20, float32(y)+20, common.CellSize-40, common.CellSize-40, colorTongue, false)
		}
	})

	ecs.ForEach2(w, component.EnemyComponent, component.TransformComponent, func(_ ecs.Entity, en *component.Enemy, t *component.Transform) {
		drawActor(screen, t, enemyColor(en.Type))
	})

	if playerEnt, ok := w.First(component.PlayerComponent.ID()); ok {
		if t, tok := ecs.Get(w, playerEnt, component.TransformComponent); tok {
			drawActor(screen, t, colorPlayer)
		}
		if p, pok := ecs.Get(w, playerEnt, component.PlayerComponent); pok {
			hud := fmt.Sprintf("score %d  lives %d  level %d (target %d)", p.Score, p.Lives, g.spawn.Level(), g.spawn.Target())
			if g.debug {
				hud += fmt.Sprintf("  tps %.0f", ebiten.ActualTPS())
			}
			ebitenutil.DebugPrint(screen, hud)
		}
	}
}

// drawActor renders a circle at the interpolated position plus shake offset,
// with a notch showing the facing angle.
func drawActor(screen *ebiten.Image, t *component.Transform, clr color.Color) {
	cx := float32(t.X+t.ShakeOffsetX) + common.CellSize/2
	cy := float32(t.Y+t.ShakeOffsetY) + common.CellSize/2
	r := float32(common.CellSize) * 0.38

	vector.DrawFilledCircle(screen, cx, cy, r, clr, true)

	rad := t.Rotation * math.Pi / 180
	nx := cx + float32(math.Cos(rad))*r
	ny := cy + float32(math.Sin(rad))*r
	vector.StrokeLine(screen, cx, cy, nx, ny, 2, colorBackground, true)
}

func enemyColor(t component.EnemyType) color.Color {
	switch t {
	case component.EnemySpider:
		return colorSpider
	case component.EnemyFrog:
		return colorFrog
	default:
		return colorBat
	}
}

func drawGrid(screen *ebiten.Image) {
	w := float32(common.GridCols * common.CellSize)
	h := float32(common.GridRows * common.CellSize)
	for x := 0; x <= common.GridCols; x++ {
		fx := float32(x * common.CellSize)
		vector.StrokeLine(screen, fx, 0, fx, h, 1, colorGridLine, false)
	}
	for y := 0; y <= common.GridRows; y++ {
		fy := float32(y * common.CellSize)
		vector.StrokeLine(screen, 0, fy, w, fy, 1, colorGridLine, false)
	}
}
