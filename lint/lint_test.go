// Copyright © 2025 The MON authors

package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// lintSource runs all default analyzers with the default config.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	return lintWith(t, DefaultConfig(), source)
}

// lintWith runs all default analyzers with cfg.
func lintWith(t *testing.T, cfg Config, source string) []Diagnostic {
	t.Helper()
	result, err := New(cfg).LintSource(source, "test.mon")
	require.NoError(t, err)
	return result.Diagnostics
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, cfg Config, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}, Config: cfg}
	result, err := l.LintSource(source, "test.mon")
	require.NoError(t, err)
	return result.Diagnostics
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, msgs)
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), msgs)
	}
}

// assertDiagOnLine checks that a diagnostic exists on the given zero-based
// line with the given substring.
func assertDiagOnLine(t *testing.T, diags []Diagnostic, line uint32, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Range != nil && d.Range.Start.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic on line %d containing %q, got: %v", line, substr, msgs)
}

func withCode(diags []Diagnostic, code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// --- Diagnostic ---

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: DuplicateKey, Severity: SeverityError, Message: "Duplicate key 'a' in object"}
	assert.Equal(t, "[E] LINT2002 Duplicate key 'a' in object", d.String())

	d.Range = &position.Range{Start: position.Position{Line: 2, Character: 4}}
	assert.Equal(t, "[E] LINT2002 Duplicate key 'a' in object (line 3)", d.String())
}

func TestDiagnostic_JSON(t *testing.T) {
	d := Diagnostic{Code: DuplicateKey, Severity: SeverityError, Message: "m"}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"LINT2002","code_name":"DuplicateKey","severity":"error","message":"m"}`, string(b))

	d.Range = &position.Range{End: position.Position{Line: 0, Character: 3}}
	d.Tags = []Tag{TagUnnecessary}
	b, err = json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"code": "LINT2002",
		"code_name": "DuplicateKey",
		"severity": "error",
		"message": "m",
		"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 3}},
		"tags": ["unnecessary"]
	}`, string(b))

	var back Diagnostic
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
}

func TestSeverity_JSONUnset(t *testing.T) {
	b, err := json.Marshal(Severity(0))
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var s Severity
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
}

func TestResult_Partition(t *testing.T) {
	r := &Result{}
	assert.False(t, r.HasIssues())
	r.Add(Diagnostic{Code: MagicNumber, Severity: SeverityInfo})
	r.Add(Diagnostic{Code: UnusedAnchor, Severity: SeverityWarning})
	assert.True(t, r.HasIssues())
	assert.False(t, r.HasErrors())
	r.Add(Diagnostic{Code: DuplicateKey, Severity: SeverityError})
	assert.True(t, r.HasErrors())
	assert.Len(t, r.Errors(), 1)
	assert.Len(t, r.Warnings(), 1)
	assert.Len(t, r.Infos(), 1)
}

// --- Codes ---

func TestLookupCode(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"LINT2004", MagicNumber, true},
		{"lint2004", MagicNumber, true},
		{"MagicNumber", MagicNumber, true},
		{" duplicatekey ", DuplicateKey, true},
		{"LINT9999", 0, false},
		{"LINTxyz", 0, false},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		got, ok := LookupCode(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestCodeTable(t *testing.T) {
	codes := AllCodes()
	require.Len(t, codes, 13)
	for _, c := range codes {
		assert.True(t, c.Valid(), c.String())
		assert.NotEmpty(t, c.Name(), c.String())
		assert.NotEmpty(t, c.Title(), c.String())
		assert.NotEmpty(t, c.Description(), c.String())
		assert.NotEqual(t, severityUnset, c.DefaultSeverity(), c.String())
	}
	assert.Equal(t, SeverityError, DuplicateKey.DefaultSeverity())
	assert.Equal(t, SeverityError, CircularDependency.DefaultSeverity())
	assert.Equal(t, SeverityInfo, MagicNumber.DefaultSeverity())
	assert.Equal(t, "N/A (always enabled)", DuplicateKey.ConfigKey())
	assert.Equal(t, "max_spreads_per_object", ExcessiveSpreads.ConfigKey())
	assert.Contains(t, EmptyObject.Description(), "Verify this is  intentional.")
}

func TestCodeDoc(t *testing.T) {
	doc := CodeDoc(DuplicateKey, 40)
	assert.True(t, strings.HasPrefix(doc, "LINT2002 DuplicateKey: Duplicate object key\n"))
	assert.Contains(t, doc, "Severity:   error\n")
	assert.Contains(t, doc, "Config key: N/A (always enabled)\n")
	for _, line := range strings.Split(strings.TrimSpace(doc), "\n")[4:] {
		assert.True(t, strings.HasPrefix(line, "    "), "%q", line)
		assert.LessOrEqual(t, len(line), 40+4, "%q", line)
	}
}

// --- Linter ---

func TestLinter_AnalyzerError(t *testing.T) {
	defer goleak.VerifyNone(t)
	errAnalyzer := &Analyzer{
		Name: "fail",
		Doc:  "Always fails.",
		Run: func(pass *Pass) error {
			return fmt.Errorf("intentional failure")
		},
	}
	l := &Linter{Analyzers: []*Analyzer{AnalyzerSmells, errAnalyzer}, Config: DefaultConfig()}
	_, err := l.LintSource("{}", "test.mon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intentional failure")
	assert.Contains(t, err.Error(), "analyzer fail")
}

func TestLinter_ParseErrorUnchanged(t *testing.T) {
	_, err := New(DefaultConfig()).LintSource("{ a: }", "bad.mon")
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.mon", perr.File)
}

func TestLinter_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxNestingDepth = -1
	_, err := New(cfg).LintSource("{}", "test.mon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_nesting_depth")

	cfg = DefaultConfig().WithOnlyRules("NotARule")
	_, err = New(cfg).LintSource("{}", "test.mon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rule "NotARule"`)
}

func TestLinter_DeterministicOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	cfg := DefaultConfig()
	cfg.MaxNestingDepth = 1
	cfg.WarnMagicNumbers = true
	src := `import * as ns from "./x.mon"
{
    &unused: { a: { b: 42 } },
    dup: 1,
    dup: 2,
}`
	first := lintWith(t, cfg, src)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, lintWith(t, cfg, src))
	}
	var got []Code
	for _, d := range first {
		got = append(got, d.Code)
	}
	// 42 and 2 are both magic numbers.
	assert.Equal(t, []Code{MaxNestingDepth, UnusedAnchor, MagicNumber, MagicNumber, DuplicateKey, UnusedImport}, got)
}

func TestLinter_RuleFilters(t *testing.T) {
	src := `{ a: {}, a: 1 }`
	diags := lintWith(t, DefaultConfig(), src)
	assert.Len(t, withCode(diags, DuplicateKey), 1)
	assert.Len(t, withCode(diags, EmptyObject), 1)

	diags = lintWith(t, DefaultConfig().WithOnlyRules("DuplicateKey"), src)
	require.Len(t, diags, 1)
	assert.Equal(t, DuplicateKey, diags[0].Code)

	diags = lintWith(t, DefaultConfig().WithoutRules("LINT2002"), src)
	require.Len(t, diags, 1)
	assert.Equal(t, EmptyObject, diags[0].Code)
}

func TestConfig_CloneIsolated(t *testing.T) {
	base := DefaultConfig().WithOnlyRules("LINT1001")
	derived := base.WithOnlyRules("LINT1002")
	assert.Equal(t, []string{"LINT1001"}, base.Rules)
	assert.Equal(t, []string{"LINT1001", "LINT1002"}, derived.Rules)
	assert.True(t, derived.Enabled(MaxObjectMembers))
	assert.False(t, base.Enabled(MaxObjectMembers))
}

func TestConfigFromDocument(t *testing.T) {
	doc, err := parser.Parse(`{
    max_nesting_depth: 6,
    warn_magic_numbers: true,
    disabled_rules: ["LINT3003", "InconsistentNaming"],
}`, ".moncfg.mon")
	require.NoError(t, err)
	cfg, err := ConfigFromDocument(doc)
	require.NoError(t, err)
	want := DefaultConfig()
	want.MaxNestingDepth = 6
	want.WarnMagicNumbers = true
	want.DisabledRules = []string{"LINT3003", "InconsistentNaming"}
	assert.Equal(t, want, cfg)
}

func TestConfigFromDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", `{ max_depth: 3 }`, "max_depth"},
		{"fractional", `{ max_array_items: 2.5 }`, "expected an integer"},
		{"wrong type", `{ warn_magic_numbers: "yes" }`, "warn_magic_numbers"},
		{"negative", `{ max_object_members: -1 }`, "must not be negative"},
		{"not an object", `[1]`, "root value must be an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parser.Parse(tt.src, ".moncfg.mon")
			require.NoError(t, err)
			_, err = ConfigFromDocument(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "max_nesting_depth")
	assert.Contains(t, keys, "disabled_rules")
	assert.Len(t, keys, 11)
}

// --- nolint ---

func TestNolint(t *testing.T) {
	src := "{\n  a: 1,\n  a: 2, // nolint\n  b: {}, // nolint:LINT2002\n  c: [], // nolint:EmptyObject,LINT2002\n}"
	diags := lintSource(t, src)
	require.Len(t, diags, 1)
	assert.Equal(t, EmptyObject, diags[0].Code)
	assertDiagOnLine(t, diags, 3, "Empty object found")
}

func TestNolint_DocumentLevelKept(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxImportChainDepth = 0
	diags := lintWith(t, cfg, "import * as ns from \"./x.mon\" // nolint\n{ a: *ns.a }")
	assert.Len(t, withCode(diags, DeepImportChain), 1)
}

// --- output ---

func TestFormatText(t *testing.T) {
	results := []*Result{
		{File: "clean.mon"},
		{File: "bad.mon", Diagnostics: []Diagnostic{
			{Code: MagicNumber, Severity: SeverityInfo, Message: "info first in input"},
			{Code: DuplicateKey, Severity: SeverityError, Message: "dup",
				Range: &position.Range{Start: position.Position{Line: 1}}},
		}},
	}
	var buf bytes.Buffer
	FormatText(&buf, results)
	want := "  ✓ clean.mon\n" +
		"\nbad.mon\n" +
		"  [E] LINT2002 dup\n" +
		"    at line 2\n" +
		"  [I] LINT2004 info first in input\n" +
		"\nSummary: 2 files linted\n" +
		"  1 error(s)\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, []*Result{{File: "a.mon", Diagnostics: []Diagnostic{}}}))
	assert.JSONEq(t, `[{"file":"a.mon","diagnostics":[]}]`, buf.String())
	assert.Contains(t, buf.String(), "\n  ")
}

func TestFormatSARIF(t *testing.T) {
	result, err := New(DefaultConfig()).LintSource("{\n  k: 1,\n  k: 2\n}", "dup.mon")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, FormatSARIF(&buf, []*Result{result}, "1.2.3"))

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "mon", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, len(AllCodes()))
	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, "LINT2002", res.RuleID)
	assert.Equal(t, "LINT2002", run.Tool.Driver.Rules[res.RuleIndex].ID)
	assert.Equal(t, "error", res.Level)
	loc := res.Locations[0].PhysicalLocation
	assert.Equal(t, "dup.mon", loc.ArtifactLocation.URI)
	assert.Equal(t, 3, loc.Region.StartLine)
	assert.Equal(t, 3, loc.Region.StartColumn)
}
