// Copyright © 2025 The MON authors

// Package analysis combines parsing, linting and symbol collection for a
// MON document into a single result.
//
// The Service is the entry point used by the command line tool and the
// language server.  It parses the source, runs the linter and builds a
// SymbolTable from a second walk over the same tree, then reports anchors
// which are never referenced.
package analysis

import (
	"context"
	"fmt"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// TracerName is the name of the tracer used when no provider is given.
const TracerName = "github.com/mon-lang/mon/analysis"

// Result holds the output of analyzing one document.
type Result struct {
	File        string
	Source      string
	Document    *ast.Document
	Diagnostics []lint.Diagnostic
	Symbols     *SymbolTable
	Index       *position.Index
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == lint.SeverityError {
			return true
		}
	}
	return false
}

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider sets the provider spans are created with.  By default
// the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracerProvider = tp
	}
}

// Service analyzes documents.  A Service holds no per-document state and
// may be used concurrently.
type Service struct {
	Config         lint.Config
	tracerProvider trace.TracerProvider
}

// NewService returns a Service using cfg for linting.
func NewService(cfg lint.Config, opts ...Option) *Service {
	s := &Service{Config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) tracer() trace.Tracer {
	tp := s.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(TracerName)
}

// AnalyzeDocument parses source and returns its diagnostics and symbols.
// A parse failure is returned unchanged as the error.  Unused anchors are
// reported from the symbol table, once, when warn_unused_anchors is set.
func (s *Service) AnalyzeDocument(ctx context.Context, source, file string) (*Result, error) {
	tracer := s.tracer()
	ctx, span := tracer.Start(ctx, "mon.analyze", trace.WithAttributes(
		semconv.CodeFilepath(file),
		attribute.Int("mon.source.bytes", len(source)),
	))
	defer span.End()

	if err := s.Config.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid configuration")
		return nil, err
	}

	_, parseSpan := tracer.Start(ctx, "mon.parse")
	doc, err := parser.Parse(source, file)
	if err != nil {
		parseSpan.RecordError(err)
		parseSpan.SetStatus(codes.Error, "parse failed")
		parseSpan.End()
		span.SetStatus(codes.Error, "parse failed")
		recordDocument(ctx, statusParseError)
		return nil, err
	}
	parseSpan.End()

	index := position.NewIndex(source)
	lintCfg := s.Config.Clone()
	lintCfg.WarnUnusedAnchors = false

	var (
		linted *lint.Result
		table  *SymbolTable
		g      errgroup.Group
	)
	g.Go(func() error {
		_, lintSpan := tracer.Start(ctx, "mon.lint")
		defer lintSpan.End()
		res, err := lint.New(lintCfg).Lint(doc, source)
		if err != nil {
			lintSpan.RecordError(err)
			return fmt.Errorf("lint %s: %w", file, err)
		}
		lintSpan.SetAttributes(attribute.Int("mon.diagnostics", len(res.Diagnostics)))
		linted = res
		return nil
	})
	g.Go(func() error {
		_, symSpan := tracer.Start(ctx, "mon.symbols")
		defer symSpan.End()
		table = BuildSymbolTable(doc, index)
		symSpan.SetAttributes(
			attribute.Int("mon.symbols", table.SymbolCount()),
			attribute.Int("mon.references", table.ReferenceCount()),
		)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, "lint failed")
		return nil, err
	}

	diags := linted.Diagnostics
	if s.Config.WarnUnusedAnchors && s.Config.Enabled(lint.UnusedAnchor) {
		diags = append(diags, lint.FilterSuppressed(unusedAnchorDiagnostics(table), source)...)
	}

	recordDocument(ctx, statusOK)
	recordDiagnostics(ctx, diags)
	span.SetAttributes(attribute.Int("mon.diagnostics", len(diags)))

	return &Result{
		File:        file,
		Source:      source,
		Document:    doc,
		Diagnostics: diags,
		Symbols:     table,
		Index:       index,
	}, nil
}

func unusedAnchorDiagnostics(table *SymbolTable) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, sym := range table.FindUnusedSymbols(SymAnchor) {
		r := sym.Range
		diags = append(diags, lint.Diagnostic{
			Code:     lint.UnusedAnchor,
			Severity: lint.UnusedAnchor.DefaultSeverity(),
			Message:  fmt.Sprintf("Anchor '%s' is defined but never used", sym.Name),
			Range:    &r,
			Tags:     []lint.Tag{lint.TagUnnecessary},
		})
	}
	return diags
}
