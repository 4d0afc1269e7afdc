// Copyright © 2025 The MON authors

package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// FormatText writes results in a human readable listing.  Within a file
// errors come first, then warnings, then infos.
func FormatText(w io.Writer, results []*Result) {
	var errs, warns int
	for _, r := range results {
		if !r.HasIssues() {
			fmt.Fprintf(w, "  ✓ %s\n", r.File) //nolint:errcheck // best-effort output to writer
			continue
		}
		fmt.Fprintf(w, "\n%s\n", r.File) //nolint:errcheck
		groups := [][]Diagnostic{r.Errors(), r.Warnings(), r.Infos()}
		for _, group := range groups {
			for _, d := range group {
				fmt.Fprintf(w, "  %s %s %s\n", d.Severity.Label(), d.Code, d.Message) //nolint:errcheck
				if d.Range != nil {
					fmt.Fprintf(w, "    at line %d\n", d.Range.Start.Line+1) //nolint:errcheck
				}
			}
		}
		errs += len(groups[0])
		warns += len(groups[1])
	}
	fmt.Fprintf(w, "\nSummary: %d files linted\n", len(results)) //nolint:errcheck
	if errs > 0 {
		fmt.Fprintf(w, "  %d error(s)\n", errs) //nolint:errcheck
	}
	if warns > 0 {
		fmt.Fprintf(w, "  %d warning(s)\n", warns) //nolint:errcheck
	}
}

// FormatJSON writes results as a JSON array of {file, diagnostics}.
func FormatJSON(w io.Writer, results []*Result) error {
	if results == nil {
		results = []*Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	ShortDescription     sarifText   `json:"shortDescription"`
	FullDescription      sarifText   `json:"fullDescription"`
	DefaultConfiguration sarifConfig `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

func sarifLevel(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// FormatSARIF writes results as a SARIF 2.1.0 log with a single run.
// Every known code is listed as a rule of the driver.
func FormatSARIF(w io.Writer, results []*Result, toolVersion string) error {
	codes := AllCodes()
	ruleIndex := make(map[Code]int, len(codes))
	driver := sarifDriver{Name: "mon", Version: toolVersion}
	for i, c := range codes {
		ruleIndex[c] = i
		driver.Rules = append(driver.Rules, sarifRule{
			ID:                   c.String(),
			Name:                 c.Name(),
			ShortDescription:     sarifText{c.Title()},
			FullDescription:      sarifText{c.Description()},
			DefaultConfiguration: sarifConfig{sarifLevel(c.DefaultSeverity())},
		})
	}
	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: []sarifResult{}}
	for _, r := range results {
		for _, d := range r.Diagnostics {
			loc := sarifLocation{PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: r.File}}}
			if d.Range != nil {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   d.Range.Start.Line + 1,
					StartColumn: d.Range.Start.Character + 1,
					EndLine:     d.Range.End.Line + 1,
					EndColumn:   d.Range.End.Character + 1,
				}
			}
			run.Results = append(run.Results, sarifResult{
				RuleID:    d.Code.String(),
				RuleIndex: ruleIndex[d.Code],
				Level:     sarifLevel(d.Severity),
				Message:   sarifText{d.Message},
				Locations: []sarifLocation{loc},
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}})
}

// CodeDoc renders the documentation of a code, wrapping the description
// to width columns.
func CodeDoc(c Code, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s\n", c, c.Name(), c.Title())
	fmt.Fprintf(&b, "Severity:   %s\n", c.DefaultSeverity())
	fmt.Fprintf(&b, "Config key: %s\n\n", c.ConfigKey())
	if width <= 4 {
		width = 80
	}
	b.WriteString(indent.String(wordwrap.String(c.Description(), width-4), 4))
	b.WriteString("\n")
	return b.String()
}
