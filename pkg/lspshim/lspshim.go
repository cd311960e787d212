// Package lspshim implements a minimal language server exposing weave's
// recursive formatter as textDocument/formatting, grounded on the same
// jsonrpc2.ReplyHandler request-routing shape a full gopls-proxying server
// would use, but without any of the proxying: weave only ever answers
// formatting requests, so there is no IDE connection or backing gopls
// process to manage.
package lspshim

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/weavefmt/weave/pkg/driver"
	"github.com/weavefmt/weave/pkg/logging"
)

// LanguageResolver maps a document URI (and/or its LSP languageId) to the
// weave grammar name Format should use, or "" if the document's language
// isn't configured.
type LanguageResolver func(uri protocol.URI, languageID string) string

// ServerConfig holds configuration for the LSP server.
type ServerConfig struct {
	Logger      logging.Logger
	Driver      *driver.Context
	PrintWidth  uint32
	ResolveLang LanguageResolver
}

// Server implements the textDocument/formatting LSP surface.
type Server struct {
	config ServerConfig

	docsMu sync.RWMutex
	docs   map[protocol.URI]document
}

type document struct {
	text       string
	languageID string
}

// NewServer creates a new LSP server instance.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNoOpLogger()
	}
	if cfg.PrintWidth == 0 {
		cfg.PrintWidth = 80
	}
	return &Server{config: cfg, docs: map[protocol.URI]document{}}
}

// Handler returns a jsonrpc2 handler for this server.
func (s *Server) Handler() jsonrpc2.Handler {
	return jsonrpc2.ReplyHandler(s.handleRequest)
}

func (s *Server) handleRequest(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.config.Logger.Debug("received request: %s", req.Method())

	switch req.Method() {
	case "initialize":
		return s.handleInitialize(ctx, reply, req)
	case "initialized", "shutdown", "exit":
		return reply(ctx, nil, nil)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.handleDidClose(ctx, reply, req)
	case "textDocument/formatting":
		return s.handleFormatting(ctx, reply, req)
	default:
		return reply(ctx, nil, fmt.Errorf("method not implemented: %s", req.Method()))
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("invalid initialize params: %w", err))
	}

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "weave-lsp",
			Version: "0.1.0",
		},
	}

	return reply(ctx, result, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.docsMu.Lock()
	s.docs[params.TextDocument.URI] = document{
		text:       params.TextDocument.Text,
		languageID: string(params.TextDocument.LanguageID),
	}
	s.docsMu.Unlock()

	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full-document sync only: the last change event carries the entire
	// new text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text

	s.docsMu.Lock()
	doc := s.docs[params.TextDocument.URI]
	doc.text = text
	s.docs[params.TextDocument.URI] = doc
	s.docsMu.Unlock()

	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.docsMu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.docsMu.Unlock()

	return reply(ctx, nil, nil)
}

func (s *Server) handleFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("invalid formatting params: %w", err))
	}

	s.docsMu.RLock()
	doc, ok := s.docs[params.TextDocument.URI]
	s.docsMu.RUnlock()
	if !ok {
		return reply(ctx, nil, fmt.Errorf("document not open: %s", params.TextDocument.URI))
	}

	lang := ""
	if s.config.ResolveLang != nil {
		lang = s.config.ResolveLang(params.TextDocument.URI, doc.languageID)
	}
	if lang == "" {
		s.config.Logger.Warn("no configured grammar for %s (languageId %q)", params.TextDocument.URI, doc.languageID)
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	formatted, err := driver.Format(ctx, []byte(doc.text), driver.Opts{
		Language:   lang,
		PrintWidth: s.config.PrintWidth,
	}, false, s.config.Driver)
	if err != nil {
		return reply(ctx, nil, fmt.Errorf("format: %w", err))
	}

	if string(formatted) == doc.text {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	edits := []protocol.TextEdit{{
		Range:   fullDocumentRange(doc.text),
		NewText: string(formatted),
	}}

	return reply(ctx, edits, nil)
}

// fullDocumentRange spans the whole document, so the single TextEdit
// weave emits replaces it wholesale rather than computing a minimal diff.
func fullDocumentRange(text string) protocol.Range {
	lines := strings.Split(text, "\n")
	lastLine := uint32(len(lines) - 1)
	lastCol := uint32(len([]rune(lines[len(lines)-1])))

	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: lastLine, Character: lastCol},
	}
}
