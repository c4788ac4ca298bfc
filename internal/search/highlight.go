package search

import "strings"

// Highlight markers wrapped around matched spans in result snippets.
const (
	MarkStart = "<<"
	MarkEnd   = ">>"
)

// Highlight wraps each inclusive [start,end] byte range of text in the
// highlight markers, concatenating untouched spans verbatim. Ranges must be
// sorted by start and non-overlapping (see mergeRanges); out-of-bounds
// ranges are clamped.
func Highlight(text string, ranges [][2]int) string {
	var b strings.Builder
	last := 0
	for _, r := range ranges {
		start, end := r[0], r[1]+1
		if start < last {
			start = last
		}
		if end > len(text) {
			end = len(text)
		}
		if start >= end {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(MarkStart)
		b.WriteString(text[start:end])
		b.WriteString(MarkEnd)
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
