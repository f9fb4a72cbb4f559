// Package slug turns article titles into unique URL-safe identifiers.
package slug

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxLength is the longest slug ever produced
	MaxLength = 100

	// Fallback is used when a title has no slug-safe characters
	Fallback = "article"

	// MaxSuffix bounds the numeric -N search before the timestamp fallback
	MaxSuffix = 1000
)

// ExistsFunc reports whether a slug is already taken
type ExistsFunc func(slug string) bool

// Generator produces unique slugs. The zero value uses time.Now.
type Generator struct {
	Now func() time.Time
}

// Generate is shorthand for a zero Generator
func Generate(title string, exists ExistsFunc) string {
	return Generator{}.Generate(title, exists)
}

// Generate returns Normalize(title) made unique against exists by appending
// -1, -2, ... and, once MaxSuffix is exhausted, a unix-seconds suffix.
// A nil exists treats every candidate as free.
func (g Generator) Generate(title string, exists ExistsFunc) string {
	base := Normalize(title)
	if exists == nil || !exists(base) {
		return base
	}

	for i := 1; i <= MaxSuffix; i++ {
		candidate := withSuffix(base, strconv.Itoa(i))
		if !exists(candidate) {
			return candidate
		}
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return withSuffix(base, strconv.FormatInt(now().Unix(), 10))
}

// Normalize converts a title into its base slug without uniqueness handling.
// The result always matches ^[a-z0-9]+(-[a-z0-9]+)*$ and is at most MaxLength long.
func Normalize(title string) (out string) {
	defer func() {
		if recover() != nil {
			out = Fallback
		}
	}()

	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppresses a leading hyphen
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || unicode.IsSpace(r):
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	s := truncate(b.String(), MaxLength)
	if s == "" {
		return Fallback
	}
	return s
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// withSuffix joins base and suffix with a hyphen, shortening base so the
// result fits MaxLength.
func withSuffix(base, suffix string) string {
	room := MaxLength - len(suffix) - 1
	trimmed := truncate(base, room)
	if trimmed == "" {
		trimmed = Fallback
	}
	return trimmed + "-" + suffix
}

// truncate cuts s to n bytes and drops trailing hyphens. s is ASCII.
func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		s = s[:n]
	}
	return strings.Trim(s, "-")
}
