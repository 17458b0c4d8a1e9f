package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/david0178418/math-game-sub000/common"
)

func main() {
	tuningPath := flag.String("tuning", "", "tuning YAML overriding the embedded defaults")
	debug := flag.Bool("debug", false, "enable debug overlay")
	flag.Parse()

	ebiten.SetWindowSize(common.GridCols*common.CellSize, common.GridRows*common.CellSize)
	ebiten.SetWindowTitle("math muncher")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game, err := NewGame(*tuningPath, *debug)
	if err != nil {
		log.Fatal(err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
