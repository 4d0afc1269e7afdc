// Copyright © 2025 The MON authors

// Package lsp implements a Language Server Protocol server for MON.
// It provides diagnostics, hover, go-to-definition, references,
// completion of anchors and types, document and workspace symbols,
// formatting, folding and rename support.
package lsp

import (
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mon-lang/mon/analysis"
	"github.com/mon-lang/mon/formatter"
	"github.com/mon-lang/mon/lint"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"
	"go.opentelemetry.io/otel/trace"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "mon-lsp"

var log = commonlog.GetLogger("mon.lsp")

// Server is the MON language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	service   *analysis.Service
	lintCfg   lint.Config
	formatCfg *formatter.Config
	tracer    trace.TracerProvider

	// Workspace symbol index built lazily from the root path.
	indexMu   sync.RWMutex
	index     map[string][]analysis.ExternalSymbol // by file path
	indexOnce sync.Once

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithLintConfig sets the configuration documents are linted with.
func WithLintConfig(cfg lint.Config) Option {
	return func(s *Server) { s.lintCfg = cfg }
}

// WithFormatConfig sets the base formatter configuration.  Editor
// formatting options override its indentation settings per request.
func WithFormatConfig(cfg *formatter.Config) Option {
	return func(s *Server) { s.formatCfg = cfg }
}

// WithTracerProvider sets the provider analysis spans are created with.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp }
}

// WithRoot sets the workspace root without waiting for initialize.
func WithRoot(path string) Option {
	return func(s *Server) {
		s.rootPath = path
		s.rootURI = pathToURI(path)
	}
}

// New creates a new MON LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:      NewDocumentStore(),
		lintCfg:   lint.DefaultConfig(),
		formatCfg: formatter.DefaultConfig(),
		debounce:  make(map[string]*time.Timer),
		exitFn:    os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	var svcOpts []analysis.Option
	if s.tracer != nil {
		svcOpts = append(svcOpts, analysis.WithTracerProvider(s.tracer))
	}
	s.service = analysis.NewService(s.lintCfg, svcOpts...)

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentRename:         s.textDocumentRename,
		TextDocumentPrepareRename:  s.textDocumentPrepareRename,
		TextDocumentFormatting:     s.textDocumentFormatting,
		TextDocumentFoldingRange:   s.textDocumentFoldingRange,
		TextDocumentCodeAction:     s.textDocumentCodeAction,
		WorkspaceSymbol:            s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	log.Info("listening on stdio")
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	log.Infof("listening on %s", addr)
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	log.Infof("initialize: root %q", s.rootPath)

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"*", "$", ".", ":"},
	}
	capabilities.RenameProvider = &protocol.RenameOptions{
		PrepareProvider: boolPtr(true),
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	log.Info("shutdown")
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// ensureWorkspaceIndex builds the workspace symbol index once, on first
// demand.
func (s *Server) ensureWorkspaceIndex() {
	s.indexOnce.Do(s.buildWorkspaceIndex)
}

func (s *Server) buildWorkspaceIndex() {
	index := make(map[string][]analysis.ExternalSymbol)
	if s.rootPath != "" {
		syms, err := analysis.ScanWorkspace(s.rootPath)
		if err != nil {
			log.Warningf("workspace scan of %s failed: %v", s.rootPath, err)
		}
		for _, sym := range syms {
			index[sym.File] = append(index[sym.File], sym)
		}
		log.Infof("indexed %d symbols in %d files", len(syms), len(index))
	}
	s.indexMu.Lock()
	s.index = index
	s.indexMu.Unlock()
}

// updateIndexedFile replaces the indexed symbols of one file.
func (s *Server) updateIndexedFile(path, source string) {
	s.ensureWorkspaceIndex()
	syms := analysis.ScanFile(source, path)
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if syms == nil {
		// Keep the last good symbols of a file which no longer parses.
		return
	}
	s.index[path] = syms
}

// indexedSymbols returns the workspace symbols ordered by file.
func (s *Server) indexedSymbols() []analysis.ExternalSymbol {
	s.ensureWorkspaceIndex()
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	files := make([]string, 0, len(s.index))
	for f := range s.index {
		files = append(files, f)
	}
	sort.Strings(files)
	var syms []analysis.ExternalSymbol
	for _, f := range files {
		syms = append(syms, s.index[f]...)
	}
	return syms
}

// ensureAnalysis ensures the document has a current analysis result.
func (s *Server) ensureAnalysis(doc *Document) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.analyzed {
		return
	}
	doc.analyze(s.service)
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
