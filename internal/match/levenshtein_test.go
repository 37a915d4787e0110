package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"validated", "validated", 0},
		{"", "error", 5},
		{"error", "errors", 1},
		{"eror", "error", 1},
		{"validater", "validator", 1},
		{"valdiator", "validator", 2},
		{"Validated", "validated", 1},
		{"kitten", "sitting", 3},
		// Counted in runes.
		{"état", "etat", 1},
		{"日本", "日本語", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "not symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("error", "error"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 1-1.0/9, Similarity("validater", "validator"), 1e-9)
	assert.InDelta(t, 1-1.0/3, Similarity("日本", "日本語"), 1e-9)
}
