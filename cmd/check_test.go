// Copyright © 2025 The MON authors

package cmd

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand(t *testing.T) {
	workspace(t, map[string]string{
		"clean.mon":   cleanSource,
		"warning.mon": warningSource,
		"error.mon":   errorSource,
		"broken.mon":  brokenSource,
		"a.mon":       cycleASource,
		"b.mon":       cycleBSource,
	})

	t.Run("syntax ok", func(t *testing.T) {
		res := runCLI(t, "", "check", "error.mon")
		assert.Equal(t, ExitOK, res.code)
		assert.Equal(t, "Syntax OK\n", res.stdout)
		assert.Contains(t, res.stderr, "Checking error.mon...")
	})

	t.Run("syntax ok json", func(t *testing.T) {
		res := runCLI(t, "", "check", "--json", "clean.mon")
		assert.Equal(t, ExitOK, res.code)
		assert.JSONEq(t, `{"status":"ok","message":"Syntax OK"}`, res.stdout)
	})

	t.Run("parse error", func(t *testing.T) {
		res := runCLI(t, "", "check", "broken.mon")
		assert.Equal(t, ExitParse, res.code)
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, "--> broken.mon:1:")
	})

	t.Run("missing file", func(t *testing.T) {
		res := runCLI(t, "", "check", "missing.mon")
		assert.Equal(t, ExitUsage, res.code)
	})

	t.Run("import cycle", func(t *testing.T) {
		res := runCLI(t, "", "check", "a.mon")
		assert.Equal(t, ExitLintErrors, res.code)
		assert.Contains(t, res.stderr, "error[LINT4002]: Circular dependency detected: a.mon → b.mon → a.mon")
		assert.Contains(t, res.stderr, "--> a.mon:1:1")
	})

	t.Run("lint clean", func(t *testing.T) {
		res := runCLI(t, "", "check", "--lint", "clean.mon")
		assert.Equal(t, ExitOK, res.code)
		assert.Equal(t, "Linting  clean.mon\n\n  ✓ No issues found\n", res.stdout)
	})

	t.Run("lint warnings do not fail", func(t *testing.T) {
		res := runCLI(t, "", "check", "--lint", "warning.mon")
		assert.Equal(t, ExitOK, res.code)
		assert.Contains(t, res.stdout, "  [W] LINT2001 Anchor 'orphan' is defined but never used (line 1)\n")
		assert.Contains(t, res.stdout, "Summary: 0 errors, 1 warnings, 0 hints")
		assert.Contains(t, res.stdout, "Run 'mon explain <CODE>' for detailed information")
	})

	t.Run("lint errors fail", func(t *testing.T) {
		res := runCLI(t, "", "check", "--lint", "error.mon")
		assert.Equal(t, ExitLintErrors, res.code)
		assert.Contains(t, res.stdout, "Summary: 1 errors, 0 warnings, 0 hints")
	})

	t.Run("lint json", func(t *testing.T) {
		res := runCLI(t, "", "check", "--lint", "--json", "a.mon")
		assert.Equal(t, ExitLintErrors, res.code)
		var result struct {
			File        string `json:"file"`
			Diagnostics []struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"diagnostics"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &result), res.stdout)
		assert.Equal(t, "a.mon", result.File)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, "LINT4002", result.Diagnostics[0].Code)
	})
}

func TestBundleCommand(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		workspace(t, map[string]string{
			"app.mon": "import * as lib from './lib.mon'\n{x:*lib.base}",
			"lib.mon": `{ &base: { a: 1 } }`,
		})
		res := runCLI(t, "", "bundle", "app.mon")
		assert.Equal(t, ExitOK, res.code, res.stderr)
		assert.Equal(t, "import * as lib from \"./lib.mon\"\n\n{ x: *lib.base }\n", res.stdout)
		assert.Contains(t, res.stderr, "Bundling app.mon\n  → Checking imports...\n  ✓ 1 import(s) verified\n")
	})

	t.Run("output file", func(t *testing.T) {
		workspace(t, map[string]string{
			"app.mon": "import * as lib from './lib.mon'\n{x:*lib.base}",
			"lib.mon": `{ &base: { a: 1 } }`,
		})
		res := runCLI(t, "", "bundle", "app.mon", "-o", "out.mon")
		assert.Equal(t, ExitOK, res.code, res.stderr)
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, "✓ Wrote bundle to out.mon")
		got, err := os.ReadFile("out.mon")
		require.NoError(t, err)
		assert.Equal(t, "import * as lib from \"./lib.mon\"\n\n{ x: *lib.base }\n", string(got))
	})

	t.Run("missing import", func(t *testing.T) {
		workspace(t, map[string]string{
			"app.mon": "import * as lib from './gone.mon'\n{ x: *lib.base }",
		})
		res := runCLI(t, "", "bundle", "app.mon")
		assert.Equal(t, ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stderr, "! could not load import gone.mon")
	})

	t.Run("cycle", func(t *testing.T) {
		workspace(t, map[string]string{"a.mon": cycleASource, "b.mon": cycleBSource})
		res := runCLI(t, "", "bundle", "a.mon")
		assert.Equal(t, ExitLintErrors, res.code)
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, "Circular dependency detected: a.mon → b.mon → a.mon")
	})

	t.Run("entry errors", func(t *testing.T) {
		workspace(t, map[string]string{"broken.mon": brokenSource})
		res := runCLI(t, "", "bundle", "missing.mon")
		assert.Equal(t, ExitUsage, res.code)
		assert.Contains(t, res.stderr, "entry file not found: missing.mon")

		res = runCLI(t, "", "bundle", "broken.mon")
		assert.Equal(t, ExitParse, res.code)
	})
}

func TestExplainCommand(t *testing.T) {
	workspace(t, nil)

	res := runCLI(t, "", "explain", "LINT2002")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "LINT2002 DuplicateKey: Duplicate object key\n")
	assert.Contains(t, res.stdout, "Severity:   error\n")
	assert.Contains(t, res.stdout, "    Object has duplicate keys.")

	res = runCLI(t, "", "explain", "magicnumber")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "Config key: warn_magic_numbers")

	res = runCLI(t, "", "explain", "LINT9999")
	assert.Equal(t, ExitUsage, res.code)
	assert.Contains(t, res.stderr, `unknown diagnostic code "LINT9999"`)
}

func TestLSPCommand(t *testing.T) {
	cmd := newLSPCmd(&globals{})
	for _, name := range []string{"stdio", "port"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}

	workspace(t, nil)
	t.Setenv("MON_LINT_MAX_NESTING_DEPTH", "-1")
	res := runCLI(t, "", "lsp", "--port=0")
	assert.Equal(t, ExitUsage, res.code)
	assert.Contains(t, res.stderr, "max_nesting_depth must not be negative")
}
