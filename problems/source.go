// Package problems supplies the answer values stamped onto board tiles. The
// simulation core only consumes the output shape: a value and a correctness
// flag.
package problems

import "math/rand"

// Problem is one candidate tile value.
type Problem struct {
	Value   int
	Correct bool
}

// Source generates a board's worth of candidate values for a level target.
type Source interface {
	Generate(target, difficulty, count int) []Problem
}

type randomSource struct {
	rng          *rand.Rand
	correctRatio float64
}

// NewSource returns the default generator. Correct tiles carry the target
// value; foils are nearby values, never equal to the target. correctRatio is
// the fraction of tiles that are correct, clamped to keep at least one of
// each on any non-trivial board.
func NewSource(rng *rand.Rand, correctRatio float64) Source {
	if correctRatio <= 0 || correctRatio > 1 {
		correctRatio = 0.35
	}
	return &randomSource{rng: rng, correctRatio: correctRatio}
}

func (s *randomSource) Generate(target, difficulty, count int) []Problem {
	if count <= 0 {
		return nil
	}
	if difficulty < 1 {
		difficulty = 1
	}

	correct := int(float64(count) * s.correctRatio)
	if correct < 1 {
		correct = 1
	}
	if correct >= count && count > 1 {
		correct = count - 1
	}

	out := make([]Problem, 0, count)
	for i := 0; i < correct; i++ {
		out = append(out, Problem{Value: target, Correct: true})
	}
	for len(out) < count {
		out = append(out, Problem{Value: s.foil(target, difficulty), Correct: false})
	}

	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// foil picks a wrong value near the target. Harder levels spread further.
func (s *randomSource) foil(target, difficulty int) int {
	spread := 2 + difficulty
	for {
		v := target + s.rng.Intn(2*spread+1) - spread
		if v != target && v > 0 {
			return v
		}
	}
}
