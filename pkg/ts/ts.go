// Package ts wraps github.com/smacker/go-tree-sitter behind the narrow
// surface the driver needs: parse a buffer with a named grammar, then walk
// injection-query matches over the resulting tree. Nothing outside this
// package imports smacker/go-tree-sitter directly, so a grammar can be
// swapped or mocked (see MapGrammarRegistry) without touching the
// driver.
package ts

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Grammar is a parseable language: a compiled tree-sitter grammar plus the
// injection query that locates embedded-language regions within it.
type Grammar interface {
	// Name is the grammar's language identifier, e.g. "clojure".
	Name() string
	// Language returns the compiled tree-sitter language.
	Language() *sitter.Language
	// InjectionQuery returns the tree-sitter query source used to locate
	// embedded regions, or "" if this grammar defines none.
	InjectionQuery() string
}

// GrammarRegistry resolves a language name to its Grammar.
type GrammarRegistry interface {
	Grammar(name string) (Grammar, bool)
}

// MapGrammarRegistry is a GrammarRegistry backed by a plain map, sufficient
// for both production wiring (grammars loaded once at startup) and tests.
type MapGrammarRegistry map[string]Grammar

func (r MapGrammarRegistry) Grammar(name string) (Grammar, bool) {
	g, ok := r[name]
	return g, ok
}

// Tree is a parsed syntax tree. Callers must call Close when done.
type Tree struct {
	inner  *sitter.Tree
	source []byte
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.inner != nil {
		t.inner.Close()
	}
}

// RootNode returns the tree's root node.
func (t *Tree) RootNode() *sitter.Node {
	return t.inner.RootNode()
}

// Parse parses source with grammar's language. The returned Tree must be
// closed by the caller.
func Parse(ctx context.Context, grammar Grammar, source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammar.Language())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", grammar.Name(), err)
	}

	// tree-sitter is error-tolerant: a syntax error in the guest source
	// still yields a usable tree around the bad span, so HasError is not
	// treated as fatal here.
	return &Tree{inner: tree, source: source}, nil
}

// Capture is a single named capture produced by a query match.
type Capture struct {
	Name string
	Node *sitter.Node
}

// Match groups the captures that satisfied one query match.
type Match struct {
	Captures []Capture
}

// RunQuery executes querySource against root and returns every match, in
// the order the cursor produces them. An empty querySource yields no
// matches and no error.
func RunQuery(querySource string, language *sitter.Language, root *sitter.Node) ([]Match, error) {
	if querySource == "" {
		return nil, nil
	}

	q, err := sitter.NewQuery([]byte(querySource), language)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var matches []Match
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}

		match := Match{Captures: make([]Capture, 0, len(m.Captures))}
		for _, c := range m.Captures {
			match.Captures = append(match.Captures, Capture{
				Name: q.CaptureNameForId(c.Index),
				Node: c.Node,
			})
		}
		matches = append(matches, match)
	}

	return matches, nil
}
