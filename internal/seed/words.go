package seed

import (
	"strings"

	"procplanet/pkg/core"
)

var (
	onsets = []string{"b", "c", "d", "f", "g", "l", "m", "n", "p", "r", "s", "t", "v", "qu", "st", "tr", "pl", "cr"}
	vowels = []string{"a", "e", "i", "o", "u", "ae", "io", "ia"}
	codas  = []string{"", "", "", "m", "n", "r", "s", "t", "x", "l"}
)

// Word returns one pseudo-latin word of 2 to 8 letters.
func Word(rng *core.RNG) string {
	target := 2 + rng.IntN(7)
	var b strings.Builder
	for b.Len() < target {
		if b.Len() > 0 || rng.Bool(0.7) {
			b.WriteString(onsets[rng.IntN(len(onsets))])
		}
		b.WriteString(vowels[rng.IntN(len(vowels))])
		b.WriteString(codas[rng.IntN(len(codas))])
	}
	w := b.String()
	if len(w) > 8 {
		w = w[:8]
	}
	return w
}

// Words returns an auto-generated seed of one to three capitalized words:
// one word 20% of the time, two words 40%, three words 40%.
func Words(rng *core.RNG) string {
	n := rng.Float64()
	count := 3
	switch {
	case n > 0.8:
		count = 1
	case n > 0.4:
		count = 2
	}
	parts := make([]string, count)
	for i := range parts {
		parts[i] = Capitalize(Word(rng))
	}
	return strings.Join(parts, " ")
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
