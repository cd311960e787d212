// Package inject runs a grammar's injections query against a parsed tree and
// turns the raw query matches into an ordered, non-overlapping list of
// Region records ready for splicing.
//
// Query contract: a match contributes one region if it has an
// "injection.content" capture. The node captured as "injection.language"
// supplies the region's language tag (stripped of surrounding quotes if it
// captured a string literal); a match without one is dropped, since a
// region the core cannot tag cannot be dispatched or recursed into. Every
// "injection.escape" capture in the match contributes one escape character
// to the region's options, quotes stripped the same way.
package inject

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/weavefmt/weave/pkg/ts"
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Opts carries the per-region settings the injection query supplied.
type Opts struct {
	EscapeChars []string
}

// Region is one embedded-language fragment located by the injections query.
type Region struct {
	Range Range
	Lang  string
	Opts  Opts
}

// OverlapError reports that the injections query produced overlapping
// regions the extractor could not reconcile under the outermost-wins
// policy.
type OverlapError struct {
	Outer Range
	Inner Range
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("injection extractor: overlapping regions [%d,%d) and [%d,%d)",
		e.Outer.Start, e.Outer.End, e.Inner.Start, e.Inner.End)
}

const (
	captureContent  = "injection.content"
	captureLanguage = "injection.language"
	captureEscape   = "injection.escape"
)

// Extract runs querySource over root and returns the resulting regions
// sorted by descending start byte, so that splicing them in list order is
// safe. Zero-length and out-of-range regions are dropped. Overlapping
// regions are resolved by outermost-wins; an overlap that outermost-wins
// cannot resolve (two regions with identical range, or two that partially
// overlap) is an OverlapError.
func Extract(querySource string, language *sitter.Language, root *sitter.Node, source []byte) ([]Region, error) {
	matches, err := ts.RunQuery(querySource, language, root)
	if err != nil {
		return nil, fmt.Errorf("injection query: %w", err)
	}

	var regions []Region
	for _, m := range matches {
		region, ok := regionFromMatch(m, source)
		if !ok {
			continue
		}
		if region.Range.Start >= region.Range.End || region.Range.End > len(source) {
			continue
		}
		regions = append(regions, region)
	}

	regions, err = resolveOverlaps(regions)
	if err != nil {
		return nil, err
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Range.Start > regions[j].Range.Start
	})

	return regions, nil
}

func regionFromMatch(m ts.Match, source []byte) (Region, bool) {
	var (
		content     *sitter.Node
		lang        string
		haveLang    bool
		escapeChars []string
	)

	for _, c := range m.Captures {
		switch c.Name {
		case captureContent:
			content = c.Node
		case captureLanguage:
			lang = unquote(nodeText(c.Node, source))
			haveLang = true
		case captureEscape:
			escapeChars = append(escapeChars, unquote(nodeText(c.Node, source)))
		}
	}

	if content == nil || !haveLang {
		return Region{}, false
	}

	return Region{
		Range: Range{Start: int(content.StartByte()), End: int(content.EndByte())},
		Lang:  lang,
		Opts:  Opts{EscapeChars: escapeChars},
	}, true
}

// resolveOverlaps applies outermost-wins: when one region's range contains
// another's, the contained region is dropped. Two regions with identical
// ranges are an OverlapError whatever their language tags, since neither
// can be said to win; so are two regions that partially overlap.
func resolveOverlaps(regions []Region) ([]Region, error) {
	if len(regions) < 2 {
		return regions, nil
	}

	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Range.Start != sorted[j].Range.Start {
			return sorted[i].Range.Start < sorted[j].Range.Start
		}
		return sorted[i].Range.End > sorted[j].Range.End
	})

	var kept []Region
	for _, r := range sorted {
		if len(kept) == 0 {
			kept = append(kept, r)
			continue
		}
		last := kept[len(kept)-1]

		switch {
		case r.Range.Start >= last.Range.End:
			kept = append(kept, r)
		case r.Range.Start == last.Range.Start && r.Range.End == last.Range.End:
			return nil, &OverlapError{Outer: last.Range, Inner: r.Range}
		case r.Range.End <= last.Range.End:
			// r is nested inside last: outermost (last) wins, r is dropped.
		default:
			return nil, &OverlapError{Outer: last.Range, Inner: r.Range}
		}
	}

	return kept, nil
}

func nodeText(n *sitter.Node, source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
