// Package errors provides rustc-style diagnostic formatting for weave's
// byte-offset errors (a region that does not shrink, a sub-result that is
// not valid UTF-8, overlapping injected regions): a message, a source snippet
// around the offending byte range, and a caret underline.
package errors

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Diagnostic renders one error with its source context, the way a
// compiler front end would: message, file:line:col header, a few lines
// of surrounding source, and a caret underline under the offending span.
type Diagnostic struct {
	Message  string
	Filename string // "" for an in-memory buffer with no path (e.g. stdin)

	Line   int // 1-indexed
	Column int // 1-indexed, in bytes
	Length int // caret underline width, in bytes

	SourceLines   []string
	HighlightLine int // index into SourceLines

	Annotation string // text after the carets
	Suggestion string
}

// NewDiagnostic builds a Diagnostic for the byte range [start, end) of
// source, with contextLines of surrounding source on each side.
func NewDiagnostic(filename string, source []byte, start, end int, contextLines int, message string) *Diagnostic {
	if start < 0 || start > len(source) {
		return &Diagnostic{Message: message, Filename: filename, Length: 1}
	}
	if end < start {
		end = start
	}

	line, col, lines := lineAndColumn(source, start)

	length := 1
	if end > start {
		length = byteLengthOnLine(source, start, end)
	}

	startIdx := max(0, line-1-contextLines)
	endIdx := min(len(lines), line+contextLines)

	return &Diagnostic{
		Message:       message,
		Filename:      filename,
		Line:          line,
		Column:        col,
		Length:        length,
		SourceLines:   lines[startIdx:endIdx],
		HighlightLine: line - 1 - startIdx,
		Annotation:    "",
	}
}

// WithAnnotation adds an annotation (text after the caret underline).
func (d *Diagnostic) WithAnnotation(annotation string) *Diagnostic {
	d.Annotation = annotation
	return d
}

// WithSuggestion adds a suggestion block.
func (d *Diagnostic) WithSuggestion(suggestion string) *Diagnostic {
	d.Suggestion = suggestion
	return d
}

// Format produces the rustc-style rendering.
func (d *Diagnostic) Format() string {
	var buf strings.Builder

	if d.Line > 0 {
		loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
		if d.Filename != "" {
			loc = filepath.Base(d.Filename) + ":" + loc
		}
		fmt.Fprintf(&buf, "Error: %s at %s\n\n", d.Message, loc)
	} else {
		fmt.Fprintf(&buf, "Error: %s\n\n", d.Message)
	}

	if len(d.SourceLines) > 0 && d.Line > 0 {
		startLine := d.Line - d.HighlightLine

		for i, line := range d.SourceLines {
			lineNum := startLine + i
			fmt.Fprintf(&buf, "  %4d | %s\n", lineNum, line)

			if i == d.HighlightLine {
				caretIndent := utf8.RuneCountInString(line[:min(d.Column-1, len(line))])
				caretLen := d.Length
				if caretLen < 1 {
					caretLen = 1
				}
				fmt.Fprintf(&buf, "       | %s%s", strings.Repeat(" ", caretIndent), strings.Repeat("^", caretLen))
				if d.Annotation != "" {
					fmt.Fprintf(&buf, " %s", d.Annotation)
				}
				buf.WriteString("\n")
			}
		}

		buf.WriteString("\n")
	}

	if d.Suggestion != "" {
		fmt.Fprintf(&buf, "Suggestion: %s\n", d.Suggestion)
	}

	return buf.String()
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format()
}

// lineAndColumn converts a byte offset into 1-indexed line/column plus
// the full split of source into lines (without trailing newlines).
func lineAndColumn(source []byte, offset int) (line, col int, lines []string) {
	lines = strings.Split(string(source), "\n")

	line = 1
	consumed := 0
	for i, l := range lines {
		lineLen := len(l) + 1 // +1 for the newline this line ends with
		if consumed+lineLen > offset || i == len(lines)-1 {
			line = i + 1
			col = offset - consumed + 1
			return line, col, lines
		}
		consumed += lineLen
	}
	return line, col, lines
}

// byteLengthOnLine returns end-start, clamped so a multi-line range only
// underlines its first line.
func byteLengthOnLine(source []byte, start, end int) int {
	for i := start; i < end && i < len(source); i++ {
		if source[i] == '\n' {
			return i - start
		}
	}
	length := end - start
	if length < 1 {
		return 1
	}
	return length
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
