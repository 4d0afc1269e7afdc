// Copyright © 2025 The MON authors

// Package lint provides static analysis for MON documents.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives a parsed document and reports diagnostics. The framework
// handles parsing, running analyzers, collecting results, and formatting
// output.
package lint

import (
	"encoding/json"
	"fmt"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
	"golang.org/x/sync/errgroup"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Label returns the bracketed one letter form used in text output.
func (s Severity) Label() string {
	switch s {
	case SeverityError:
		return "[E]"
	case SeverityWarning:
		return "[W]"
	default:
		return "[I]"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Tag is a rendering hint for editors.  The values match the language
// server protocol's DiagnosticTag.
type Tag int

const (
	TagUnnecessary Tag = 1
	TagDeprecated  Tag = 2
)

func (t Tag) String() string {
	switch t {
	case TagUnnecessary:
		return "unnecessary"
	case TagDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the tag as a JSON string.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON deserializes a tag from a JSON string.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "unnecessary":
		*t = TagUnnecessary
	case "deprecated":
		*t = TagDeprecated
	default:
		return fmt.Errorf("unknown diagnostic tag: %q", str)
	}
	return nil
}

// Location is a range in a file.
type Location struct {
	URI   string         `json:"uri"`
	Range position.Range `json:"range"`
}

// RelatedInformation points at another location relevant to a diagnostic,
// such as the first occurrence of a duplicated key.
type RelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	// Range is nil for findings about the document as a whole.
	Range *position.Range `json:"range,omitempty"`

	RelatedInformation []RelatedInformation `json:"related_information,omitempty"`
	Tags               []Tag                `json:"tags,omitempty"`
}

// MarshalJSON adds the code name to the serialized diagnostic.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	type plain Diagnostic
	return json.Marshal(struct {
		plain
		CodeName string `json:"code_name"`
	}{plain(d), d.Code.Name()})
}

// String returns the diagnostic as "[E] LINT2002 message", followed by the
// one-based line when the diagnostic has a range.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s %s %s", d.Severity.Label(), d.Code, d.Message)
	if d.Range != nil {
		s += fmt.Sprintf(" (line %d)", d.Range.Start.Line+1)
	}
	return s
}

// Result is the ordered list of diagnostics found in one file.
type Result struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Add appends d to the result.
func (r *Result) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// HasIssues reports whether any diagnostic was found.
func (r *Result) HasIssues() bool {
	return len(r.Diagnostics) > 0
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Errors returns the error severity diagnostics.
func (r *Result) Errors() []Diagnostic { return r.bySeverity(SeverityError) }

// Warnings returns the warning severity diagnostics.
func (r *Result) Warnings() []Diagnostic { return r.bySeverity(SeverityWarning) }

// Infos returns the info severity diagnostics.
func (r *Result) Infos() []Diagnostic { return r.bySeverity(SeverityInfo) }

func (r *Result) bySeverity(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "smells").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Codes lists the diagnostic codes the analyzer may report.
	Codes []Code

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the logical name of the document being analyzed.
	Filename string

	// Source is the text the document was parsed from.
	Source string

	// Document is the parsed document.
	Document *ast.Document

	// Config holds thresholds and switches.
	Config Config

	index       *position.Index
	diagnostics []Diagnostic
}

// Range converts a byte span of the source to a diagnostic range.
func (p *Pass) Range(span ast.Span) *position.Range {
	r := p.index.Range(span.Start, span.End)
	return &r
}

// Report records a diagnostic finding.  Diagnostics whose code is filtered
// out by the configuration are dropped.
func (p *Pass) Report(d Diagnostic) {
	if !p.Config.Enabled(d.Code) {
		return
	}
	if d.Severity == severityUnset {
		d.Severity = d.Code.DefaultSeverity()
	}
	p.diagnostics = append(p.diagnostics, d)
}

// Reportf is a convenience for reporting a diagnostic at a span.  A nil
// span reports a document level diagnostic.
func (p *Pass) Reportf(code Code, span *ast.Span, format string, args ...interface{}) {
	d := Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
	if span != nil {
		d.Range = p.Range(*span)
	}
	p.Report(d)
}

// Linter runs a set of analyzers over documents.  A Linter may be used
// concurrently.
type Linter struct {
	Analyzers []*Analyzer
	Config    Config
}

// New returns a Linter running the default analyzers with cfg.
func New(cfg Config) *Linter {
	return &Linter{Analyzers: DefaultAnalyzers(), Config: cfg}
}

// LintSource parses source and lints the resulting document.  Parse errors
// are returned unchanged.
func (l *Linter) LintSource(source, filename string) (*Result, error) {
	doc, err := parser.Parse(source, filename)
	if err != nil {
		return nil, err
	}
	return l.Lint(doc, source)
}

// Lint analyzes a parsed document.  The analyzers run concurrently and
// their diagnostics are merged in the order of l.Analyzers, so the result
// is deterministic.
func (l *Linter) Lint(doc *ast.Document, source string) (*Result, error) {
	if err := l.Config.Validate(); err != nil {
		return nil, err
	}
	index := position.NewIndex(source)
	passes := make([]*Pass, len(l.Analyzers))
	var g errgroup.Group
	for i, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: doc.File,
			Source:   source,
			Document: doc,
			Config:   l.Config,
			index:    index,
		}
		passes[i] = pass
		g.Go(func() error {
			if err := pass.Analyzer.Run(pass); err != nil {
				return fmt.Errorf("%s: analyzer %s: %w", doc.File, pass.Analyzer.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{File: doc.File, Diagnostics: []Diagnostic{}}
	for _, pass := range passes {
		result.Diagnostics = append(result.Diagnostics, pass.diagnostics...)
	}
	result.Diagnostics = FilterSuppressed(result.Diagnostics, source)
	return result, nil
}

// DefaultAnalyzers returns the built-in set of lint checks in reporting
// order.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerComplexity,
		AnalyzerSmells,
		AnalyzerImports,
		AnalyzerTypeValidation,
	}
}
