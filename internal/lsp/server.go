// Package lsp implements a language server for base16 mustache templates.
package lsp

import (
	"fmt"

	"github.com/jsvensson/base16sh/internal/catalog"
	"github.com/jsvensson/base16sh/internal/scheme"
	"github.com/jsvensson/base16sh/internal/variables"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const serverName = "base16sh-lsp"

var log = commonlog.GetLogger(serverName)

// Preview is the scheme whose values are shown in hovers, completions and
// document colors. A nil *Preview is valid and shows no values.
type Preview struct {
	Name string
	Vars variables.Vars
}

// NewPreview derives preview values from def, filling missing palette slots
// the same way rendering does.
func NewPreview(def scheme.Definition, fallback scheme.System) *Preview {
	full := def.WithDefaults(def.SystemOr(fallback))
	return &Preview{Name: def.Name, Vars: variables.Derive(full)}
}

// LoadPreview resolves name against the catalog and loads it as a preview.
func LoadPreview(schemes *catalog.Schemes, name string) (*Preview, error) {
	rec, ok := schemes.FindExact(name)
	if !ok {
		return nil, fmt.Errorf("preview scheme %q: %w", name, catalog.ErrNotFound)
	}
	def, err := rec.Load()
	if err != nil {
		return nil, err
	}
	return NewPreview(def, rec.System), nil
}

func (p *Preview) vars() variables.Vars {
	if p == nil {
		return nil
	}
	return p.Vars
}

func (p *Preview) value(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.Vars[name]
	return v, ok
}

type Server struct {
	handler protocol.Handler
	docs    *DocumentStore
	version string
	preview *Preview
}

// NewServer creates a server. preview may be nil.
func NewServer(version string, preview *Preview) *Server {
	s := &Server{
		docs:    NewDocumentStore(),
		version: version,
		preview: preview,
	}

	s.handler = protocol.Handler{
		Initialize:                     s.initialize,
		Initialized:                    s.initialized,
		Shutdown:                       s.shutdown,
		SetTrace:                       s.setTrace,
		TextDocumentDidOpen:            s.textDocumentDidOpen,
		TextDocumentDidChange:          s.textDocumentDidChange,
		TextDocumentDidClose:           s.textDocumentDidClose,
		TextDocumentCompletion:         s.textDocumentCompletion,
		TextDocumentHover:              s.textDocumentHover,
		TextDocumentDefinition:         s.textDocumentDefinition,
		TextDocumentColor:              s.textDocumentDocumentColor,
		TextDocumentColorPresentation:  s.textDocumentColorPresentation,
		TextDocumentSemanticTokensFull: s.textDocumentSemanticTokensFull,
		TextDocumentFormatting:         s.textDocumentFormatting,
	}

	return s
}

// Run serves the protocol over stdin and stdout until the client exits.
func (s *Server) Run() error {
	srv := server.NewServer(&s.handler, serverName, false)
	return srv.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"{", "#", "^", "/", "&"},
	}

	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semanticTokenTypes,
			TokenModifiers: semanticTokenModifiers,
		},
		Full: true,
	}

	if params.ClientInfo != nil {
		log.Infof("client: %s", params.ClientInfo.Name)
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	if s.preview != nil {
		log.Infof("previewing values from %s", s.preview.Name)
	}
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.Open(uri, params.TextDocument.Text)
	s.publishDiagnostics(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		if c, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.docs.Update(uri, c.Text)
		}
	}
	s.publishDiagnostics(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.Close(uri)
	if ctx != nil {
		// Clear stale diagnostics for the closed document.
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// getResult analyzes the current content of an open document. Returns nil
// for unknown documents.
func (s *Server) getResult(uri string) *AnalysisResult {
	content, ok := s.docs.Get(uri)
	if !ok {
		return nil
	}
	return Analyze(content, s.preview.vars())
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	result := s.getResult(uri)
	if result == nil || ctx == nil {
		return
	}

	diagnostics := result.Diagnostics
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	log.Debugf("%s: %d diagnostics", uri, len(diagnostics))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: diagnostics,
	})
}
