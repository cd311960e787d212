package inject

import "testing"

func regionsEqual(a, b []Region) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Range != b[i].Range || a[i].Lang != b[i].Lang {
			return false
		}
	}
	return true
}

func TestResolveOverlapsDropsNested(t *testing.T) {
	outer := Region{Range: Range{0, 20}, Lang: "sql"}
	inner := Region{Range: Range{5, 10}, Lang: "json"}

	got, err := resolveOverlaps([]Region{inner, outer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !regionsEqual(got, []Region{outer}) {
		t.Fatalf("want outer only, got %+v", got)
	}
}

func TestResolveOverlapsDisjointKeepsBoth(t *testing.T) {
	a := Region{Range: Range{0, 5}, Lang: "sql"}
	b := Region{Range: Range{10, 15}, Lang: "json"}

	got, err := resolveOverlaps([]Region{b, a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !regionsEqual(got, []Region{a, b}) {
		t.Fatalf("want [a,b], got %+v", got)
	}
}

func TestResolveOverlapsIdenticalRangeIsOverlapError(t *testing.T) {
	a := Region{Range: Range{0, 10}, Lang: "sql"}
	b := Region{Range: Range{0, 10}, Lang: "json"}

	_, err := resolveOverlaps([]Region{a, b})
	if err == nil {
		t.Fatalf("expected OverlapError")
	}
	if _, ok := err.(*OverlapError); !ok {
		t.Fatalf("expected *OverlapError, got %T", err)
	}
}

func TestResolveOverlapsPartialOverlapIsOverlapError(t *testing.T) {
	a := Region{Range: Range{0, 10}, Lang: "sql"}
	b := Region{Range: Range{5, 15}, Lang: "json"}

	_, err := resolveOverlaps([]Region{a, b})
	if err == nil {
		t.Fatalf("expected OverlapError for partial overlap")
	}
}

func TestUnquoteStripsMatchingQuotes(t *testing.T) {
	cases := map[string]string{
		`"sql"`:  "sql",
		`'sql'`:  "sql",
		"sql":    "sql",
		`"a'`:    `"a'`,
	}
	for in, want := range cases {
		if got := unquote(in); got != want {
			t.Fatalf("unquote(%q) = %q, want %q", in, got, want)
		}
	}
}
