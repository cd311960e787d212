package errors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	weaveerrors "github.com/weavefmt/weave/pkg/errors"
)

func TestNewDiagnosticPointsAtOffset(t *testing.T) {
	source := []byte("const a = 1;\nconst q = `select * from`;\nconst b = 2;\n")
	start := strings.Index(string(source), "select")
	end := start + len("select")

	d := weaveerrors.NewDiagnostic("query.js", source, start, end, 1, "unknown injected language")
	require.Equal(t, 2, d.Line)
	require.Equal(t, len("select"), d.Length)

	out := d.Format()
	require.Contains(t, out, "query.js:2:")
	require.Contains(t, out, "unknown injected language")
	require.Contains(t, out, "select * from")
	require.Contains(t, out, "^^^^^^")
}

func TestNewDiagnosticAnnotationAndSuggestion(t *testing.T) {
	source := []byte("select *\nfrom t\n")
	d := weaveerrors.NewDiagnostic("", source, 0, 6, 0, "bad region").
		WithAnnotation("region ends before it starts").
		WithSuggestion("close the injected block")

	out := d.Format()
	require.Contains(t, out, "region ends before it starts")
	require.Contains(t, out, "Suggestion: close the injected block")
}

func TestNewDiagnosticOutOfRangeOffsetIsSafe(t *testing.T) {
	source := []byte("abc")
	d := weaveerrors.NewDiagnostic("f.js", source, 100, 105, 1, "oops")
	require.Equal(t, 1, d.Length)
	require.NotPanics(t, func() { d.Format() })
}
