// Package grading scores free-text FlashMatch answers against the card's back.
package grading

import (
	"math"
	"strings"
)

// DefaultThreshold is the accuracy an answer needs to count as correct
const DefaultThreshold = 80.0

// Accuracy compares answer and expected position by position after trimming
// and lower-casing both. The result is the share of matching runes over the
// longer string, from 0 to 100.
func Accuracy(answer, expected string) float64 {
	a := []rune(normalize(answer))
	e := []rune(normalize(expected))

	longest := max(len(a), len(e))
	if longest == 0 {
		return 0
	}

	matches := 0
	for i := 0; i < min(len(a), len(e)); i++ {
		if a[i] == e[i] {
			matches++
		}
	}
	return float64(matches) * 100 / float64(longest)
}

// Grade is the outcome for a single answer
type Grade struct {
	Accuracy float64
	Correct  bool
	Points   int
}

// Score grades answer against expected. Correct answers earn their rounded
// accuracy as points, anything below threshold earns nothing.
func Score(answer, expected string, threshold float64) Grade {
	acc := Accuracy(answer, expected)
	g := Grade{Accuracy: acc}
	if acc >= threshold {
		g.Correct = true
		g.Points = int(math.Round(acc))
	}
	return g
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
