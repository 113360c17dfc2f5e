package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"mail oku", "mail okuu", 1},
		{"sesi aç", "sesi aç", 0},
		{"dosya", "dosyalar", 3},
	}

	for _, tt := range tests {
		got := Distance([]rune(tt.a), []rune(tt.b))
		assert.Equal(t, tt.expected, got, "distance(%q, %q)", tt.a, tt.b)
	}
}

func TestDistanceIdentityAndSymmetry(t *testing.T) {
	words := []string{"mail", "excel aç", "ses", "gündem", "dosya ara"}

	for _, a := range words {
		assert.Zero(t, Distance([]rune(a), []rune(a)))
		for _, b := range words {
			ab := Distance([]rune(a), []rune(b))
			ba := Distance([]rune(b), []rune(a))
			assert.Equal(t, ab, ba, "distance not symmetric for %q/%q", a, b)
		}
	}
}

func TestDistanceTriangleInequality(t *testing.T) {
	words := []string{"mail", "meil", "excel", "eksel", "ses", "sesi", "aç", "kapat"}

	for _, x := range words {
		for _, y := range words {
			for _, z := range words {
				xy := Distance([]rune(x), []rune(y))
				yz := Distance([]rune(y), []rune(z))
				xz := Distance([]rune(x), []rune(z))
				assert.LessOrEqual(t, xz, xy+yz,
					"triangle inequality violated for %q %q %q", x, y, z)
			}
		}
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, Score("", ""))
	assert.Equal(t, 0.0, Score("mail", ""))
	assert.Equal(t, 0.0, Score("", "mail"))
	assert.Equal(t, 1.0, Score("mail oku", "mail oku"))

	// Case-insensitive, Turkish-aware.
	assert.Equal(t, 1.0, Score("MAİL", "mail"))

	// The canonical typo pair: one edit over nine runes.
	score := Score("mail okuu", "mail oku")
	assert.InDelta(t, 1.0-1.0/9.0, score, 1e-9)
	assert.Greater(t, score, 0.6)
}
