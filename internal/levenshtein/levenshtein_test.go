package levenshtein

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
		{"hello-world", "hello-world-1", 2},
		{"hello-world", "helo-world", 1},
		{"café", "cafe", 1},
		{"gumbo", "gambol", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestDistance_Identity(t *testing.T) {
	for _, s := range []string{"", "a", "kitten", "breaking-news-2024", "ünïcödé"} {
		assert.Zero(t, Distance(s, s), s)
	}
}

func TestClosest(t *testing.T) {
	candidates := []string{"hello-world", "hello-world-1", "goodbye-world", "help-wanted", "hello-word"}

	got := Closest("helo-world", candidates, 3)

	assert.Equal(t, []Match{
		{Value: "hello-world", Distance: 1},
		{Value: "hello-word", Distance: 2},
		{Value: "hello-world-1", Distance: 3},
	}, got)
}

func TestClosest_AllWhenNonPositive(t *testing.T) {
	got := Closest("x", []string{"b", "a"}, 0)
	assert.Equal(t, []Match{{Value: "a", Distance: 1}, {Value: "b", Distance: 1}}, got)
	assert.Empty(t, Closest("x", nil, 5))
}

func BenchmarkDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Distance("the-quick-brown-fox-jumps-over-the-lazy-dog", "the-quick-brown-cat-jumped-over-a-lazy-dog")
	}
}
