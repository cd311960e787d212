package driver_test

import (
	"context"
	"strings"
	"testing"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/require"

	"github.com/weavefmt/weave/pkg/dispatch"
	"github.com/weavefmt/weave/pkg/driver"
	"github.com/weavefmt/weave/pkg/ts"
)

// injectionQuery captures an object literal's "lang" string and "code"
// template literal as one injected region, with no escape characters —
// enough structure to exercise recursion, width adjustment, and splicing
// without needing a second real tree-sitter grammar binding.
const injectionQuery = `
(object
  (pair value: (string (string_fragment) @injection.language))
  (pair value: (template_string) @injection.content))
`

type fakeGrammar struct {
	name  string
	query string
}

func (g fakeGrammar) Name() string              { return g.name }
func (g fakeGrammar) Language() *sitter.Language { return javascript.GetLanguage() }
func (g fakeGrammar) InjectionQuery() string     { return g.query }

func newRegistry() ts.GrammarRegistry {
	return ts.MapGrammarRegistry{
		"javascript": fakeGrammar{name: "javascript", query: injectionQuery},
		"sql":        fakeGrammar{name: "sql", query: ""},
	}
}

func upperFormatter(source []byte, _ dispatch.Opts) ([]byte, error) {
	return []byte(strings.ToUpper(string(source))), nil
}

func TestFormatUnknownRootLanguageIsIdentity(t *testing.T) {
	fc := &driver.Context{Grammars: ts.MapGrammarRegistry{}, Formatters: dispatch.Registry{}, Languages: dispatch.LanguageFormatters{}}
	src := []byte("const x = 1;\n")

	out, err := driver.Format(context.Background(), src, driver.Opts{Language: "cobol", PrintWidth: 80}, false, fc)
	require.NoError(t, err)
	require.Equal(t, string(src), string(out))
}

func TestFormatNoFormatterNoInjectionsIsIdentity(t *testing.T) {
	fc := &driver.Context{
		Grammars:   ts.MapGrammarRegistry{"javascript": fakeGrammar{name: "javascript", query: ""}},
		Formatters: dispatch.Registry{},
		Languages:  dispatch.LanguageFormatters{},
	}
	src := []byte("const x = 1;\n")

	out, err := driver.Format(context.Background(), src, driver.Opts{Language: "javascript", PrintWidth: 80}, false, fc)
	require.NoError(t, err)
	require.Equal(t, string(src), string(out))
}

func TestFormatDeterministicAcrossRuns(t *testing.T) {
	fc := &driver.Context{
		Grammars:   newRegistry(),
		Formatters: dispatch.Registry{"upper": {Func: upperFormatter}},
		Languages:  dispatch.LanguageFormatters{"sql": {"upper"}},
	}
	src := []byte("const a = {lang: \"sql\", code: `one`};\nconst b = {lang: \"sql\", code: `two`};\n")

	out1, err := driver.Format(context.Background(), src, driver.Opts{Language: "javascript", PrintWidth: 80}, false, fc)
	require.NoError(t, err)
	out2, err := driver.Format(context.Background(), src, driver.Opts{Language: "javascript", PrintWidth: 80}, false, fc)
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))
}

func TestFormatInjectedRegionsOnlyModeLeavesHostBytesUntouched(t *testing.T) {
	fc := &driver.Context{
		Grammars:   newRegistry(),
		Formatters: dispatch.Registry{"upper": {Func: upperFormatter}},
		Languages:  dispatch.LanguageFormatters{"sql": {"upper"}},
	}
	src := []byte("const q = {lang: \"sql\", code: `select 1`};\n")

	out, err := driver.Format(context.Background(), src, driver.Opts{Language: "javascript", PrintWidth: 80}, true, fc)
	require.NoError(t, err)

	// Only the template literal's content changes; everything else is
	// byte-identical to the input.
	require.Contains(t, string(out), "const q = {lang: \"sql\", code: `")
	require.Contains(t, string(out), "SELECT 1")
	require.NotContains(t, string(out), "select 1")
}

func TestFormatAdjustedPrintWidth(t *testing.T) {
	var seenWidth uint32
	recordWidth := func(source []byte, opts dispatch.Opts) ([]byte, error) {
		seenWidth = opts.PrintWidth
		return source, nil
	}

	fc := &driver.Context{
		Grammars:   newRegistry(),
		Formatters: dispatch.Registry{"record": {Func: recordWidth}},
		Languages:  dispatch.LanguageFormatters{"sql": {"record"}},
	}
	// The region's column is well into the line, so the child should be
	// formatted with a narrower print width than the parent's 80.
	src := []byte("  const q = {lang: \"sql\", code: `select 1`};\n")

	_, err := driver.Format(context.Background(), src, driver.Opts{Language: "javascript", PrintWidth: 80}, false, fc)
	require.NoError(t, err)
	require.Less(t, seenWidth, uint32(80))
	require.Greater(t, seenWidth, uint32(0))
}

func TestFormatNestedInjectionDoesNotDeadlock(t *testing.T) {
	// "block" recurses into itself: region a's template literal contains a
	// `${...}` substitution whose expression is itself a {lang, code}
	// object, so formatting it recurses into a second, nested mapIndexed
	// call. Two top-level regions plus a pool of size 1 hits both failure
	// modes a reentrant pool semaphore deadlocks on: region count at or
	// above pool size, and a nesting chain deeper than it.
	fc := &driver.Context{
		Grammars: ts.MapGrammarRegistry{
			"javascript": fakeGrammar{name: "javascript", query: injectionQuery},
			"block":      fakeGrammar{name: "block", query: injectionQuery},
		},
		Formatters: dispatch.Registry{"upper": {Func: upperFormatter}},
		Languages:  dispatch.LanguageFormatters{"block": {"upper"}},
		Pool:       driver.NewPool(1),
	}
	src := []byte("const a = {lang: \"block\", code: `${{lang: \"block\", code: `select 1`}}`};\n" +
		"const b = {lang: \"block\", code: `select 2`};\n")

	done := make(chan struct{})
	var out []byte
	var err error
	go func() {
		defer close(done)
		out, err = driver.Format(context.Background(), src, driver.Opts{Language: "javascript", PrintWidth: 80}, false, fc)
	}()

	select {
	case <-done:
		require.NoError(t, err)
		require.Contains(t, string(out), "SELECT 1")
		require.Contains(t, string(out), "SELECT 2")
	case <-time.After(5 * time.Second):
		t.Fatal("Format deadlocked formatting nested injections against a pool of size 1")
	}
}

func TestFormatUnknownInjectedLanguageLeavesRegionVerbatim(t *testing.T) {
	fc := &driver.Context{
		Grammars:   ts.MapGrammarRegistry{"javascript": fakeGrammar{name: "javascript", query: injectionQuery}},
		Formatters: dispatch.Registry{},
		Languages:  dispatch.LanguageFormatters{},
	}
	src := []byte("const q = {lang: \"ruby\", code: `puts 1`};\n")

	out, err := driver.Format(context.Background(), src, driver.Opts{Language: "javascript", PrintWidth: 80}, false, fc)
	require.NoError(t, err)
	require.Equal(t, string(src), string(out))
}
