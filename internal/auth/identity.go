package auth

import (
	"math"
	"unicode/utf16"
)

// MapIdentity derives the numeric user id used for review ownership from an
// opaque subject such as a user's UUID.
//
// The hash is h = h*31 + unit over UTF-16 code units with 32-bit signed
// wraparound, followed by an absolute value. The browser client computes the
// same value to recognize its own reviews, so the arithmetic must not change.
// math.MinInt32 has no positive counterpart and maps to math.MaxInt32.
// The empty string maps to 0, meaning no identity.
func MapIdentity(subject string) int {
	if subject == "" {
		return 0
	}

	var h int32
	for _, unit := range utf16.Encode([]rune(subject)) {
		h = h*31 + int32(unit)
	}

	switch {
	case h == math.MinInt32:
		return math.MaxInt32
	case h < 0:
		return int(-h)
	default:
		return int(h)
	}
}
