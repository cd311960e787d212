package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/weavefmt/weave/pkg/config"
	"github.com/weavefmt/weave/pkg/dispatch"
	"github.com/weavefmt/weave/pkg/driver"
	"github.com/weavefmt/weave/pkg/formatters"
	"github.com/weavefmt/weave/pkg/logging"
	"github.com/weavefmt/weave/pkg/ts"
)

// builtinFormatters are the in-process formatters weave ships regardless of
// configuration; a weave.toml entry can still shadow these by command.
var builtinFormatters = map[string]dispatch.FormatterFunc{
	"align-comments": formatters.AlignComments,
	"trim-newlines":  formatters.TrimNewlines,
}

// buildContext turns loaded configuration into a driver.Context: a grammar
// registry backed by the bundled tree-sitter languages, and a formatter
// registry mixing configured external commands with weave's builtins.
func buildContext(cfg *config.Config, verbose bool) (*driver.Context, error) {
	grammarCfgs := make(map[string]ts.GrammarConfig, len(cfg.Grammars))
	for name, g := range cfg.Grammars {
		grammarCfgs[name] = ts.GrammarConfig{
			LibraryPath:        g.LibraryPath,
			InjectionQueryPath: g.InjectionQueryPath,
		}
	}

	grammars, err := ts.NewRegistry(grammarCfgs)
	if err != nil {
		return nil, fmt.Errorf("building grammar registry: %w", err)
	}

	registry := dispatch.Registry{}
	for name, f := range cfg.Formatters {
		if spec, ok := f.DispatchSpec(); ok {
			registry[name] = dispatch.Entry{Spec: &spec}
			continue
		}
		fn, ok := builtinFormatters[name]
		if !ok {
			return nil, fmt.Errorf("formatter %q has no command and is not a known builtin", name)
		}
		registry[name] = dispatch.Entry{Func: fn}
	}
	for name, fn := range builtinFormatters {
		if _, exists := registry[name]; !exists {
			registry[name] = dispatch.Entry{Func: fn}
		}
	}

	logger := logging.Logger(logging.NewNoOpLogger())
	if verbose {
		l := logrus.New()
		l.SetLevel(logrus.DebugLevel)
		logger = logging.NewLogrusLogger(l)
	}

	return &driver.Context{
		Grammars:   grammars,
		Formatters: registry,
		Languages:  cfg.LanguageFormatters(),
		Logger:     logger,
		Pool:       driver.NewPool(0),
	}, nil
}
