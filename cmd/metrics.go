// Copyright © 2025 The MON authors

package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mon-lang/mon/analysis"
	"go.opencensus.io/stats/view"
)

// logExporter writes opencensus view data to the command log.
type logExporter struct{}

func (logExporter) ExportView(vd *view.Data) {
	for _, line := range viewLines(vd) {
		log.Infof("%s", line)
	}
}

// viewLines renders one line per row of vd, "name{key=value} value".
// Rows are sorted so repeated exports of the same data read the same.
func viewLines(vd *view.Data) []string {
	lines := make([]string, 0, len(vd.Rows))
	for _, row := range vd.Rows {
		tags := make([]string, len(row.Tags))
		for i, t := range row.Tags {
			tags[i] = t.Key.Name() + "=" + t.Value
		}
		var value string
		switch d := row.Data.(type) {
		case *view.CountData:
			value = fmt.Sprint(d.Value)
		case *view.SumData:
			value = fmt.Sprint(d.Value)
		case *view.LastValueData:
			value = fmt.Sprint(d.Value)
		default:
			continue
		}
		lines = append(lines, fmt.Sprintf("%s{%s} %s", vd.View.Name, strings.Join(tags, ","), value))
	}
	sort.Strings(lines)
	return lines
}

// exportMetrics registers the analysis views and logs their data every
// period.  The returned function stops the export.
func exportMetrics(period time.Duration) (func(), error) {
	views := analysis.Views()
	if err := view.Register(views...); err != nil {
		return nil, fmt.Errorf("register metrics views: %w", err)
	}
	e := logExporter{}
	view.SetReportingPeriod(period)
	view.RegisterExporter(e)
	return func() {
		view.UnregisterExporter(e)
		view.Unregister(views...)
	}, nil
}
