// Package formatters holds the in-process formatters weave ships out of
// the box, registered into a dispatch.Registry as dispatch.FormatterFunc
// values rather than external programs.
package formatters

import (
	"bytes"

	"github.com/weavefmt/weave/pkg/dispatch"
)

// AlignComments reindents runs of ";;"-prefixed line comments to the
// column of the next non-blank, non-comment line, leaving single-";"
// comments, inline comments (ones following other content on their line),
// and already-aligned comments untouched.
//
// A comment line's "next sibling" is approximated as the next non-blank,
// non-comment line in the buffer rather than a true AST sibling, since
// this formatter works directly on bytes without a parse tree. That
// matches the behavior the grouping is meant to produce for the common
// case — a comment block sitting between two forms — and keeps a group
// at its current column when it is the last thing in the file, per the
// documented end-of-file tie-break.
func AlignComments(source []byte, _ dispatch.Opts) ([]byte, error) {
	lines := splitLines(source)

	var group []int
	var edits []lineEdit

	flush := func() {
		if len(group) == 0 {
			return
		}
		if target, ok := nextSiblingColumn(lines, group[len(group)-1]); ok {
			for _, idx := range group {
				if lines[idx].indent != target {
					edits = append(edits, lineEdit{line: idx, col: target})
				}
			}
		}
		group = nil
	}

	for i, ln := range lines {
		switch {
		case ln.doubleComment:
			group = append(group, i)
		case ln.blank:
			// blank lines don't break a comment group
		default:
			flush()
		}
	}
	flush()

	return applyLineEdits(source, lines, edits), nil
}

type line struct {
	start, end    int // byte range of the line's content, excluding its newline
	indent        int // count of leading space/tab bytes
	blank         bool
	doubleComment bool // trimmed content begins with ";;" and the line has no other content before it
}

type lineEdit struct {
	line int
	col  int
}

func splitLines(source []byte) []line {
	var lines []line
	start := 0
	for i := 0; i <= len(source); i++ {
		if i == len(source) || source[i] == '\n' {
			lines = append(lines, newLine(source, start, i))
			start = i + 1
		}
	}
	return lines
}

func newLine(source []byte, start, end int) line {
	indent := 0
	for start+indent < end && (source[start+indent] == ' ' || source[start+indent] == '\t') {
		indent++
	}
	content := bytes.TrimRight(source[start+indent:end], " \t\r")

	return line{
		start:         start,
		end:           end,
		indent:        indent,
		blank:         len(content) == 0,
		doubleComment: bytes.HasPrefix(content, []byte(";;")),
	}
}

// nextSiblingColumn returns the indent column of the first non-blank,
// non-double-comment line after afterIdx. Single-";" comment lines count
// as content for this purpose, not as comment-group members — they are
// never added to a group in the first place, so a run of plain "; foo"
// lines after a ";;" group correctly becomes the group's target.
func nextSiblingColumn(lines []line, afterIdx int) (int, bool) {
	for i := afterIdx + 1; i < len(lines); i++ {
		if lines[i].blank || lines[i].doubleComment {
			continue
		}
		return lines[i].indent, true
	}
	return 0, false
}

func applyLineEdits(source []byte, lines []line, edits []lineEdit) []byte {
	if len(edits) == 0 {
		return source
	}

	// Apply right-to-left so earlier byte offsets stay valid.
	result := append([]byte(nil), source...)
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		ln := lines[e.line]
		before := result[:ln.start]
		after := result[ln.start+ln.indent:]
		spaces := bytes.Repeat([]byte(" "), e.col)

		spliced := make([]byte, 0, len(before)+len(spaces)+len(after))
		spliced = append(spliced, before...)
		spliced = append(spliced, spaces...)
		spliced = append(spliced, after...)
		result = spliced
	}
	return result
}
