// Copyright © 2025 The MON authors

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// runCLI executes the command tree with args and stdin, capturing output.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	return runCLIWith(t, nil, stdin, args...)
}

func runCLIWith(t *testing.T, opts []Option, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(opts...)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	code := exitCode(root.ExecuteContext(context.Background()), &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// workspace changes into a fresh directory holding files for the duration
// of the test.  HOME points at the directory so no user configuration is
// picked up.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"bundle", "check", "explain", "fmt", "lint", "lsp"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config", "color", "verbose", "log-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing flag: %s", flag)
	}
}

func TestRun_Version(t *testing.T) {
	workspace(t, nil)
	res := runCLI(t, "", "--version")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, Version)
}

func TestRun_UsageErrors(t *testing.T) {
	workspace(t, nil)

	res := runCLI(t, "", "lint", "--no-such-flag")
	assert.Equal(t, ExitUsage, res.code)
	assert.Contains(t, res.stderr, "unknown flag")

	res = runCLI(t, "", "nosuchcommand")
	assert.Equal(t, ExitUsage, res.code)

	res = runCLI(t, "", "check")
	assert.Equal(t, ExitUsage, res.code)
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ExitOK, exitCode(nil, &buf))
	assert.Equal(t, ExitParse, exitCode(exitWith(ExitParse), &buf))
	assert.Empty(t, buf.String(), "already reported errors are not printed")

	assert.Equal(t, ExitUsage, exitCode(assert.AnError, &buf))
	assert.Contains(t, buf.String(), "mon: "+assert.AnError.Error())

	assert.NoError(t, exitWith(ExitOK))
	var ee *ExitError
	require.ErrorAs(t, usageError(assert.AnError), &ee)
	assert.Equal(t, ExitUsage, ee.Code)
	assert.ErrorIs(t, ee, assert.AnError)
}
