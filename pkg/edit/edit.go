// Package edit provides byte-range replacement records and the in-order
// splice used to apply them to a buffer.
package edit

import "sort"

// Edit replaces the bytes in [Start, End) of a buffer with Replacement.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// New constructs an Edit replacing [start, end) with replacement.
func New(start, end int, replacement []byte) Edit {
	return Edit{Start: start, End: end, Replacement: replacement}
}

// Apply splices edits into buf and returns the resulting buffer.
//
// Edits are sorted by descending Start before application, so that earlier
// splices never invalidate the byte offsets of edits still pending. Edits
// must be non-overlapping; behavior is undefined otherwise (callers such as
// pkg/inject are responsible for enforcing non-overlap before reaching
// here).
func Apply(buf []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return buf
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	result := buf
	for _, e := range ordered {
		before := result[:e.Start]
		after := result[e.End:]
		spliced := make([]byte, 0, len(before)+len(e.Replacement)+len(after))
		spliced = append(spliced, before...)
		spliced = append(spliced, e.Replacement...)
		spliced = append(spliced, after...)
		result = spliced
	}

	return result
}
