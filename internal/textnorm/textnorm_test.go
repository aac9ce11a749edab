package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "The Matrix", "the matrix"},
		{"strips diacritics", "Amélie", "amelie"},
		{"spanish accents", "Niño Pérez", "nino perez"},
		{"punctuation to space", "Spider-Man: No Way Home", "spider man no way home"},
		{"collapses runs", "a  --  b", "a b"},
		{"trims", "  padded  ", "padded"},
		{"digits kept", "Blade Runner 2049", "blade runner 2049"},
		{"apostrophes", "Ocean's Eleven", "ocean s eleven"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"The Matrix", "Amélie!", "  a-b_c  ", "Crème Brûlée 2", ""}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestNormalize_OutputAlphabet(t *testing.T) {
	out := Normalize("Weird -- Input: 'Ü'  ~42~")
	for _, r := range out {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' '
		assert.True(t, ok, "unexpected rune %q in %q", r, out)
	}
	assert.NotContains(t, out, "  ")
}
