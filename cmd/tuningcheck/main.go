// Command tuningcheck validates a tuning file without launching the game.
// It loads the file over the embedded defaults, applies the same clamping
// the game does, and prints the effective values, so a hand-edited file can
// be sanity-checked before a hot reload picks it up.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/david0178418/math-game-sub000/prefabs"
)

func main() {
	log.SetFlags(0)
	path := flag.String("f", "prefabs/tuning.yaml", "tuning file to check")
	flag.Parse()

	tun, err := prefabs.LoadTuning(*path)
	if err != nil {
		log.Fatalf("tuningcheck: %v", err)
	}

	out, err := yaml.Marshal(tun)
	if err != nil {
		log.Fatalf("tuningcheck: render effective values: %v", err)
	}

	fmt.Printf("# effective values for %s\n", *path)
	os.Stdout.Write(out)
}
