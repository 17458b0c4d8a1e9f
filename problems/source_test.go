package problems

import (
	"math/rand"
	"testing"
)

func TestGenerateMixesCorrectAndFoils(t *testing.T) {
	src := NewSource(rand.New(rand.NewSource(1)), 0.35)

	out := src.Generate(7, 1, 20)
	if len(out) != 20 {
		t.Fatalf("len = %d, want 20", len(out))
	}

	correct, foils := 0, 0
	for _, p := range out {
		if p.Correct {
			if p.Value != 7 {
				t.Fatalf("correct tile has value %d, want 7", p.Value)
			}
			correct++
		} else {
			if p.Value == 7 {
				t.Fatalf("foil tile carries the target value")
			}
			if p.Value <= 0 {
				t.Fatalf("foil value %d is not positive", p.Value)
			}
			foils++
		}
	}
	if correct == 0 || foils == 0 {
		t.Fatalf("want both correct and foil tiles, got %d/%d", correct, foils)
	}
}

func TestGenerateSmallBoards(t *testing.T) {
	src := NewSource(rand.New(rand.NewSource(2)), 0)

	if out := src.Generate(3, 1, 0); out != nil {
		t.Fatalf("count 0 should yield nil, got %v", out)
	}
	out := src.Generate(3, 1, 1)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	out = src.Generate(3, 5, 2)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}
