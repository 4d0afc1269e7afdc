// Copyright © 2025 The MON authors

package lint

import (
	"strings"

	"github.com/mon-lang/mon/parser"
)

// FilterSuppressed removes diagnostics starting on lines with a nolint
// comment.  "// nolint" suppresses everything on its line and
// "// nolint:LINT2004,DuplicateKey" suppresses the listed codes.
// Diagnostics without a range are never suppressed.
func FilterSuppressed(diags []Diagnostic, source string) []Diagnostic {
	if !strings.Contains(source, "nolint") {
		return diags
	}
	// line -> nil (all) or the suppressed codes
	nolintLines := make(map[int][]Code)
	for _, c := range parser.ExtractComments(source) {
		checkNolintComment(c, nolintLines)
	}
	if len(nolintLines) == 0 {
		return diags
	}

	filtered := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Range == nil {
			filtered = append(filtered, d)
			continue
		}
		codes, ok := nolintLines[int(d.Range.Start.Line)]
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		// Empty directive = suppress all
		if codes == nil {
			continue
		}
		suppressed := false
		for _, c := range codes {
			if c == d.Code {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func checkNolintComment(c parser.Comment, lines map[int][]Code) {
	text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
	if !strings.HasPrefix(text, "nolint") {
		return
	}
	rest := strings.TrimPrefix(text, "nolint")
	if rest == "" || rest[0] == ' ' {
		lines[c.Line] = nil
		return
	}
	if rest[0] != ':' {
		return
	}
	list := rest[1:]
	if i := strings.IndexAny(list, " \t"); i >= 0 {
		list = list[:i]
	}
	codes := []Code{}
	for _, name := range strings.Split(list, ",") {
		if code, ok := LookupCode(name); ok {
			codes = append(codes, code)
		}
	}
	lines[c.Line] = codes
}
