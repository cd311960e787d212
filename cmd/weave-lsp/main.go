// Package main implements the weave LSP server: textDocument/formatting
// backed by weave's recursive injection-aware formatter.
package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/weavefmt/weave/pkg/config"
	"github.com/weavefmt/weave/pkg/dispatch"
	"github.com/weavefmt/weave/pkg/driver"
	"github.com/weavefmt/weave/pkg/formatters"
	"github.com/weavefmt/weave/pkg/logging"
	"github.com/weavefmt/weave/pkg/lspshim"
	"github.com/weavefmt/weave/pkg/ts"
)

func main() {
	logLevel := os.Getenv("WEAVE_LSP_LOG")
	if logLevel == "" {
		logLevel = "info"
	}
	base := logrus.New()
	base.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		base.SetLevel(lvl)
	}
	logger := logging.NewLogrusLogger(base)

	cfg, err := config.Load(nil)
	if err != nil {
		base.Fatalf("loading configuration: %v", err)
	}

	fc, err := buildDriverContext(cfg)
	if err != nil {
		base.Fatalf("building format context: %v", err)
	}
	fc.Logger = logger

	server := lspshim.NewServer(lspshim.ServerConfig{
		Logger:     logger,
		Driver:     fc,
		PrintWidth: cfg.PrintWidth,
		ResolveLang: func(uri protocol.URI, languageID string) string {
			if _, ok := fc.Grammars.Grammar(languageID); ok {
				return languageID
			}
			return resolveByExtension(uri, fc)
		},
	})

	rwc := &stdinoutCloser{stdin: os.Stdin, stdout: os.Stdout}
	stream := jsonrpc2.NewStream(rwc)
	conn := jsonrpc2.NewConn(stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.Go(ctx, server.Handler())
	<-conn.Done()
}

// buildDriverContext mirrors weave's CLI wiring: a grammar registry backed
// by the bundled tree-sitter languages, and a formatter registry mixing
// configured external commands with weave's builtins.
func buildDriverContext(cfg *config.Config) (*driver.Context, error) {
	grammarCfgs := make(map[string]ts.GrammarConfig, len(cfg.Grammars))
	for name, g := range cfg.Grammars {
		grammarCfgs[name] = ts.GrammarConfig{
			LibraryPath:        g.LibraryPath,
			InjectionQueryPath: g.InjectionQueryPath,
		}
	}
	grammars, err := ts.NewRegistry(grammarCfgs)
	if err != nil {
		return nil, err
	}

	builtins := map[string]dispatch.FormatterFunc{
		"align-comments": formatters.AlignComments,
		"trim-newlines":  formatters.TrimNewlines,
	}

	registry := dispatch.Registry{}
	for name, f := range cfg.Formatters {
		if spec, ok := f.DispatchSpec(); ok {
			registry[name] = dispatch.Entry{Spec: &spec}
			continue
		}
		if fn, ok := builtins[name]; ok {
			registry[name] = dispatch.Entry{Func: fn}
		}
	}
	for name, fn := range builtins {
		if _, exists := registry[name]; !exists {
			registry[name] = dispatch.Entry{Func: fn}
		}
	}

	return &driver.Context{
		Grammars:   grammars,
		Formatters: registry,
		Languages:  cfg.LanguageFormatters(),
		Pool:       driver.NewPool(0),
	}, nil
}

// resolveByExtension falls back to the document URI's extension when the
// editor's reported languageId isn't one of weave's configured grammars.
func resolveByExtension(uri protocol.URI, fc *driver.Context) string {
	ext := strings.ToLower(uri.Filename())
	for _, lang := range []string{"javascript", "typescript", "python", "ruby", "rust", "go", "html", "css", "bash", "sql", "yaml"} {
		if strings.HasSuffix(ext, "."+extensionFor(lang)) {
			if _, ok := fc.Grammars.Grammar(lang); ok {
				return lang
			}
		}
	}
	return ""
}

func extensionFor(lang string) string {
	switch lang {
	case "javascript":
		return "js"
	case "typescript":
		return "ts"
	case "python":
		return "py"
	case "ruby":
		return "rb"
	case "rust":
		return "rs"
	default:
		return lang
	}
}

// stdinoutCloser wraps os.Stdin and os.Stdout as a io.ReadWriteCloser.
type stdinoutCloser struct {
	stdin  *os.File
	stdout *os.File
}

func (s *stdinoutCloser) Read(p []byte) (int, error)  { return s.stdin.Read(p) }
func (s *stdinoutCloser) Write(p []byte) (int, error) { return s.stdout.Write(p) }
func (s *stdinoutCloser) Close() error                 { return nil }

var _ io.ReadWriteCloser = (*stdinoutCloser)(nil)
