// Copyright © 2025 The MON authors

package cmd

import (
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFindings   = 1
	ExitUsage      = 2
	ExitParse      = 3
	ExitLintErrors = 4
)

// ExitError carries the exit code a command finished with.  Err is nil
// when the failure has already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// exitWith returns an error for a failure that was already reported.
// ExitOK yields nil.
func exitWith(code int) error {
	if code == ExitOK {
		return nil
	}
	return &ExitError{Code: code}
}

// exitCode reports err on w, unless it was already reported, and maps it
// to an exit code.  Errors which do not carry a code are bad invocations.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			fmt.Fprintln(w, "mon:", ee.Err) //nolint:errcheck // best-effort output to stderr
		}
		return ee.Code
	}
	fmt.Fprintln(w, "mon:", err) //nolint:errcheck
	return ExitUsage
}
