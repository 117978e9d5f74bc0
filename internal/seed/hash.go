// Package seed turns seed strings into generator settings.
package seed

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidSeed is returned for empty or non-UTF-8 seed strings.
var ErrInvalidSeed = errors.New("invalid seed")

// Normalize trims surrounding whitespace and rejects unusable seeds.
func Normalize(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrInvalidSeed)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSeed)
	}
	return s, nil
}

// Hash maps a seed string to a stable 64-bit value. Similar strings land far
// apart: FNV-1a followed by a full-avalanche finalizer.
func Hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return mix64(h.Sum64())
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
