// Package text provides small rune-aware helpers for building plain-text
// newsletter summaries.
package text

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to text shortened by Truncate.
const Ellipsis = "..."

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
//	CountRunes("hello")     // 5
//	CountRunes("こんにちは") // 5
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate shortens s so that the result, Ellipsis included, is at most
// limit runes long. Text that already fits is returned unchanged.
// Trailing whitespace before the marker is dropped.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if CountRunes(s) <= limit {
		return s
	}

	markerLen := CountRunes(Ellipsis)
	if limit <= markerLen {
		return string([]rune(s)[:limit])
	}

	head := string([]rune(s)[:limit-markerLen])
	return strings.TrimRight(head, " \t\n\r") + Ellipsis
}

// CollapseSpace replaces every run of whitespace with a single space and
// trims both ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
