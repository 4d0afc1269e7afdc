// Copyright © 2025 The MON authors

package analysis

import (
	"context"

	"github.com/mon-lang/mon/lint"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// MeasureDiagnostics counts diagnostics reported by the analysis
	// service, tagged by severity.
	MeasureDiagnostics = stats.Int64("mon/analysis/diagnostics", "Diagnostics reported", stats.UnitDimensionless)
	// MeasureDocuments counts analyzed documents, tagged by status.
	MeasureDocuments = stats.Int64("mon/analysis/documents", "Documents analyzed", stats.UnitDimensionless)

	KeySeverity = tag.MustNewKey("severity")
	KeyStatus   = tag.MustNewKey("status")

	DiagnosticsView = &view.View{
		Name:        "mon/analysis/diagnostics",
		Description: "Diagnostics reported, by severity",
		Measure:     MeasureDiagnostics,
		TagKeys:     []tag.Key{KeySeverity},
		Aggregation: view.Sum(),
	}
	DocumentsView = &view.View{
		Name:        "mon/analysis/documents",
		Description: "Documents analyzed, by status",
		Measure:     MeasureDocuments,
		TagKeys:     []tag.Key{KeyStatus},
		Aggregation: view.Count(),
	}
)

// Views returns the views exported by this package, ready for
// view.Register.
func Views() []*view.View {
	return []*view.View{DiagnosticsView, DocumentsView}
}

const (
	statusOK         = "ok"
	statusParseError = "parse_error"
)

func recordDocument(ctx context.Context, status string) {
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyStatus, status)}, MeasureDocuments.M(1))
}

func recordDiagnostics(ctx context.Context, diags []lint.Diagnostic) {
	counts := make(map[lint.Severity]int64)
	for _, d := range diags {
		counts[d.Severity]++
	}
	for _, sev := range []lint.Severity{lint.SeverityError, lint.SeverityWarning, lint.SeverityInfo} {
		if counts[sev] == 0 {
			continue
		}
		_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeySeverity, sev.String())}, MeasureDiagnostics.M(counts[sev]))
	}
}
