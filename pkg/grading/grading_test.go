package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		expected string
		want     float64
	}{
		{"exact match", "photosynthesis", "photosynthesis", 100},
		{"case and whitespace ignored", "  Paris ", "paris", 100},
		{"one wrong letter", "helo", "hello", 60},
		{"extra trailing letters", "abcd", "abc", 75},
		{"empty answer", "", "abc", 0},
		{"both empty", "", "", 0},
		{"no positional overlap", "xxxxxx", "hello", 0},
		{"shift keeps only aligned letters", "xhello", "hello", 16.667},
		{"multibyte runes", "café", "cafe", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Accuracy(tt.answer, tt.expected), 0.001)
		})
	}
}

func TestScore(t *testing.T) {
	t.Run("correct answer earns rounded accuracy", func(t *testing.T) {
		g := Score("mitochondriaa", "mitochondria", DefaultThreshold)
		assert.True(t, g.Correct)
		assert.Equal(t, 92, g.Points)
	})

	t.Run("below threshold earns nothing", func(t *testing.T) {
		g := Score("helo", "hello", DefaultThreshold)
		assert.False(t, g.Correct)
		assert.Zero(t, g.Points)
		assert.InDelta(t, 60, g.Accuracy, 0.001)
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		g := Score("abcdx", "abcde", DefaultThreshold)
		assert.True(t, g.Correct)
		assert.Equal(t, 80, g.Points)
	})
}
