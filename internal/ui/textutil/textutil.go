// Package textutil measures and shortens text by terminal columns.
package textutil

import "github.com/mattn/go-runewidth"

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, ending in an ellipsis when cut.
// Wide runes (CJK, emoji) are never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= Width(Ellipsis) {
		return Ellipsis
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// FirstLine returns the first line of s, with Ellipsis appended when more lines follow.
func FirstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + Ellipsis
		}
	}
	return s
}
