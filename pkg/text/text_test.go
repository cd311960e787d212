package text_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weavefmt/weave/pkg/text"
)

func TestColumnForByte(t *testing.T) {
	buf := []byte("abc\ndefgh\nij")
	require.Equal(t, 0, text.ColumnForByte(buf, 0))
	require.Equal(t, 3, text.ColumnForByte(buf, 3))
	require.Equal(t, 0, text.ColumnForByte(buf, 4))
	require.Equal(t, 2, text.ColumnForByte(buf, 6))
	require.Equal(t, 2, text.ColumnForByte(buf, 999)) // clamped
}

func TestMinLeadingIndent(t *testing.T) {
	require.Equal(t, 2, text.MinLeadingIndent("  a\n    b\n  c"))
	require.Equal(t, 0, text.MinLeadingIndent("a\n  b"))
	require.Equal(t, 0, text.MinLeadingIndent("   \n\t\n"))
	require.Equal(t, 0, text.MinLeadingIndent(""))
}

func TestStripLeadingIndent(t *testing.T) {
	in := "  a\n    b\n c\nd"
	require.Equal(t, "a\n  b\nc\nd", text.StripLeadingIndent(in, 2))
	require.Equal(t, in, text.StripLeadingIndent(in, 0))
}

func TestOffsetLinesStripLeadingIndentRoundTrip(t *testing.T) {
	// Invariant 4: strip_leading_indent(offset_lines(t, n), n) == t for any
	// t whose lines begin with < n non-space characters on their first
	// column (i.e. every continuation line starts at column 0).
	in := "first\nsecond\nthird\n"
	offset := text.OffsetLines([]byte(in), 4)
	require.Equal(t, in, text.StripLeadingIndent(string(offset), 4))
}

func TestOffsetLinesSkipsBlankAndFinalNewline(t *testing.T) {
	in := []byte("a\n\nb\n")
	out := text.OffsetLines(in, 3)
	require.Equal(t, "a\n\n   b\n", string(out))
}

func TestOffsetLinesZero(t *testing.T) {
	in := []byte("a\nb\n")
	require.Equal(t, in, text.OffsetLines(in, 0))
}

func TestTrimTrailingWhitespacePreserve(t *testing.T) {
	require.Equal(t, "abc\n", string(text.TrimTrailingWhitespace([]byte("abc\n\n\r\n"), true)))
}

func TestTrimTrailingWhitespaceNoPreserve(t *testing.T) {
	require.Equal(t, "abc", string(text.TrimTrailingWhitespace([]byte("abc\n\n\r\n"), false)))
}

func TestTrimTrailingWhitespaceNothingToTrim(t *testing.T) {
	require.Equal(t, "abc", string(text.TrimTrailingWhitespace([]byte("abc"), true)))
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	chars := text.SortEscapeChars([]string{"\"", "\\n"})
	s := `line one \\n not a real newline, and a \"quote\"`
	unescaped := text.UnescapeText(s, chars)
	reescaped := text.EscapeText(unescaped, chars)
	require.Equal(t, s, reescaped)
}

func TestEscapeSetOrderingPrefix(t *testing.T) {
	// Longest-first ordering matters when one token prefixes another: it is
	// what makes UnescapeText a clean inverse of host-escaped input, which
	// is the direction the round-trip contract actually relies on (§4.2):
	// content arrives from the extractor already escaped per the host's
	// convention, gets unescaped once, formatted, then escaped back.
	chars := text.SortEscapeChars([]string{"<", "<<"})
	require.Equal(t, []string{"<<", "<"}, chars)

	hostEscaped := `a \<< b \< c`
	unescaped := text.UnescapeText(hostEscaped, chars)
	require.Equal(t, "a << b < c", unescaped)
}

func TestEscapeEmptyCharsIsIdentity(t *testing.T) {
	require.Equal(t, "abc", text.EscapeText("abc", nil))
	require.Equal(t, "abc", text.UnescapeText("abc", nil))
}
