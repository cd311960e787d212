// Package driver implements the recursive, injection-aware format driver:
// root-format a buffer, extract embedded-language regions via tree-sitter
// injection queries, recurse into each region in parallel, and splice the
// results back deterministically.
package driver

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/weavefmt/weave/pkg/dispatch"
	"github.com/weavefmt/weave/pkg/edit"
	"github.com/weavefmt/weave/pkg/inject"
	"github.com/weavefmt/weave/pkg/logging"
	"github.com/weavefmt/weave/pkg/text"
	"github.com/weavefmt/weave/pkg/ts"
)

// Range is a half-open byte range, re-exported here so callers of this
// package never need to import pkg/inject just to read an error.
type Range = inject.Range

// Opts are the per-call formatting parameters.
type Opts struct {
	PrintWidth uint32
	Language   string
}

// Context bundles the read-only registries the driver consumes. It is
// shared across an entire call tree: grammars and formatters never change
// mid-run, and the Pool is reentered by every recursive call, but only to
// bound the leaf dispatch.Run invocation — region fan-out itself is
// unbounded so nested injections can't deadlock it.
type Context struct {
	Grammars   ts.GrammarRegistry
	Formatters dispatch.Registry
	Languages  dispatch.LanguageFormatters
	Logger     logging.Logger
	Pool       *Pool
}

// Format is the driver's top-level entry. It returns source unchanged, with
// no error, if opts.Language is not in fc.Grammars — an unknown language
// disables both root formatting and injection recursion, it is not a
// failure.
//
// skipRoot is true only for the top-level call in "injected regions only"
// mode: the declared root language's own formatter is not invoked, but its
// grammar is still used to locate and recurse into injected regions.
func Format(ctx context.Context, source []byte, opts Opts, skipRoot bool, fc *Context) ([]byte, error) {
	if fc.Logger == nil {
		fc.Logger = logging.NewNoOpLogger()
	}
	if fc.Pool == nil {
		fc.Pool = NewPool(0)
	}

	grammar, ok := fc.Grammars.Grammar(opts.Language)
	if !ok {
		return source, nil
	}

	working := source
	if !skipRoot {
		fc.Pool.Acquire()
		formatted, err := dispatch.Run(fc.Formatters, fc.Languages, working, dispatch.Opts{
			PrintWidth: opts.PrintWidth,
			Language:   opts.Language,
		}, fc.Logger)
		fc.Pool.Release()
		if err != nil {
			return nil, fmt.Errorf("root format %s: %w", opts.Language, err)
		}
		working = formatted
	}

	tree, err := ts.Parse(ctx, grammar, working)
	if err != nil {
		return nil, &GrammarParseError{Language: opts.Language, Err: err}
	}
	defer tree.Close()

	regions, err := inject.Extract(grammar.InjectionQuery(), grammar.Language(), tree.RootNode(), working)
	if err != nil {
		return nil, &InjectionQueryError{Language: opts.Language, Err: err}
	}
	if len(regions) == 0 {
		return working, nil
	}

	edits, err := mapIndexed(len(regions), func(i int) (edit.Edit, error) {
		return transformRegion(ctx, regions[i], working, opts, fc)
	})
	if err != nil {
		return nil, err
	}

	return edit.Apply(working, edits), nil
}

// transformRegion runs the eight-step per-region pipeline: Extracted →
// Unescaped → Dedented → Formatted → Escaped → Trimmed → Reindented →
// Spliced (the last step is the caller's edit.Apply).
func transformRegion(ctx context.Context, r inject.Region, working []byte, parentOpts Opts, fc *Context) (edit.Edit, error) {
	if r.Range.End-r.Range.Start >= len(working) {
		return edit.Edit{}, &RecursionError{Language: r.Lang, Range: r.Range, ParentSize: len(working)}
	}

	// 1. Extracted
	raw := working[r.Range.Start:r.Range.End]
	endsWithNewline := len(raw) > 0 && raw[len(raw)-1] == '\n'

	if _, ok := fc.Grammars.Grammar(r.Lang); !ok {
		// Unknown language: the region's bytes survive the round trip
		// verbatim, siblings are unaffected.
		return edit.New(r.Range.Start, r.Range.End, raw), nil
	}

	// 2. Unescaped
	escapeChars := text.SortEscapeChars(r.Opts.EscapeChars)
	unescaped := text.UnescapeText(string(raw), escapeChars)

	// 3. Indent discovery
	indent := text.ColumnForByte(working, r.Range.Start)
	if indent == 0 {
		indent = text.MinLeadingIndent(unescaped)
	}

	// 4. Dedented
	dedented := text.StripLeadingIndent(unescaped, indent)

	// 5. Adjusted print width (saturating)
	adjustedWidth := int(parentOpts.PrintWidth) - indent
	if adjustedWidth < 1 {
		adjustedWidth = 1
	}

	// 6. Formatted (recurse)
	formatted, err := Format(ctx, []byte(dedented), Opts{
		PrintWidth: uint32(adjustedWidth),
		Language:   r.Lang,
	}, false, fc)
	if err != nil {
		return edit.Edit{}, regionErr(r.Lang, r.Range, err)
	}
	if !utf8.Valid(formatted) {
		return edit.Edit{}, &SubResultDecodingError{Language: r.Lang, Range: r.Range}
	}

	// 7. Escaped
	escaped := text.EscapeText(string(formatted), escapeChars)

	// 8. Trimmed
	trimmed := text.TrimTrailingWhitespace([]byte(escaped), endsWithNewline)

	// 9. Reindented
	reindented := text.OffsetLines(trimmed, indent)

	return edit.New(r.Range.Start, r.Range.End, reindented), nil
}
