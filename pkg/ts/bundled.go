package ts

import (
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/sql"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// bundledLanguages maps a language tag to the grammar compiled into this
// binary. A language not listed here cannot be loaded: NewRegistry skips
// it, or fails if its configuration names a library_path.
var bundledLanguages = map[string]func() *sitter.Language{
	"bash":       bash.GetLanguage,
	"css":        css.GetLanguage,
	"go":         golang.GetLanguage,
	"html":       html.GetLanguage,
	"javascript": javascript.GetLanguage,
	"python":     python.GetLanguage,
	"ruby":       ruby.GetLanguage,
	"rust":       rust.GetLanguage,
	"sql":        sql.GetLanguage,
	"typescript": typescript.GetLanguage,
	"yaml":       yaml.GetLanguage,
}

// bundledGrammar adapts a compiled-in sitter.Language plus a configured
// injection query string into a Grammar.
type bundledGrammar struct {
	name  string
	lang  *sitter.Language
	query string
}

func (g bundledGrammar) Name() string               { return g.name }
func (g bundledGrammar) Language() *sitter.Language { return g.lang }
func (g bundledGrammar) InjectionQuery() string      { return g.query }

// NewRegistry builds a GrammarRegistry from configuration: one Grammar per
// configured language, backed by a compiled-in grammar when the language is
// bundled, or by loading the raw query source from InjectionQueryPath
// either way. A language with neither a bundled grammar nor a
// library_path is skipped rather than failing the whole registry, since a
// still-unconfigured language should simply never match during Extract.
func NewRegistry(grammars map[string]GrammarConfig) (GrammarRegistry, error) {
	reg := MapGrammarRegistry{}

	for name, gc := range grammars {
		lang, ok := bundledLanguages[name]
		if !ok {
			if gc.LibraryPath == "" {
				continue
			}
			return nil, fmt.Errorf("grammar %q: dynamic loading from library_path %q is not supported; "+
				"use a language weave bundles or build it in", name, gc.LibraryPath)
		}

		query := ""
		if gc.InjectionQueryPath != "" {
			raw, err := os.ReadFile(gc.InjectionQueryPath)
			if err != nil {
				return nil, fmt.Errorf("grammar %q: reading injection query: %w", name, err)
			}
			query = string(raw)
		}

		reg[name] = bundledGrammar{name: name, lang: lang(), query: query}
	}

	return reg, nil
}

// GrammarConfig mirrors config.GrammarConfig's shape without importing
// pkg/config, avoiding an import cycle (config depends on dispatch, not
// on ts, but keeping ts free of config keeps the grammar layer testable
// in isolation).
type GrammarConfig struct {
	LibraryPath        string
	InjectionQueryPath string
}
