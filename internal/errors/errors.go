// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides structured error handling for alpmgo.
//
// It defines UserError, a type that carries what went wrong, why, and how
// to fix it, plus a small set of process exit codes mirroring spec.md §7's
// error taxonomy (config, schema, lock, internal). Library functions never
// call os.Exit; only the demo binary in cmd/ does, via FatalUser.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
)

// Exit codes, one per spec.md §7 error category that the library itself
// can raise. There is deliberately no ExitNetwork/ExitPermission/ExitInput:
// this library makes no network calls and performs no interactive input
// validation.
const (
	ExitSuccess = 0

	// ExitConfig indicates a config error: missing pacman.conf, unknown
	// architecture, or a repo section with no resolvable Server/Include.
	ExitConfig = 1

	// ExitSchema indicates a descriptor failed typed conversion: a missing
	// required field, unknown enum tag, bad base64, or non-numeric
	// timestamp.
	ExitSchema = 2

	// ExitLock indicates the database lock file is already held.
	ExitLock = 3

	// ExitInternal indicates a bug: something the spec says "cannot occur
	// for well-formed input" occurred anyway.
	ExitInternal = 10
)

// UserError carries structured context for an end user.
type UserError struct {
	// Message describes what went wrong.
	Message string

	// Cause explains why it happened.
	Cause string

	// Fix suggests how to resolve it.
	Fix string

	// ExitCode is the process exit code this error should map to.
	ExitCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap enables errors.Is/errors.As over the wrapped error.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a config error (ExitConfig).
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitConfig, Err: err}
}

// NewSchemaError creates a descriptor schema error (ExitSchema).
func NewSchemaError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitSchema, Err: err}
}

// NewInternalError creates an internal error (ExitInternal), for
// conditions spec.md says should be impossible given well-formed input.
func NewInternalError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, ExitCode: ExitInternal, Err: err}
}

// NewLockError creates a lock-contention error (ExitLock).
func NewLockError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitLock, Err: err}
}

// errorJSON is the machine-readable rendering of a UserError.
type errorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// FatalUser prints err to stderr and exits with its exit code. If err is a
// *UserError it is rendered as plain text (or JSON, when jsonOutput is set);
// any other error is treated as an internal error and exits ExitInternal.
// FatalUser never returns for a non-nil err; a nil err is a no-op.
func FatalUser(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(errorJSON{Error: ue.Message, Cause: ue.Cause, Fix: ue.Fix, ExitCode: ue.ExitCode})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", ue.Message)
			if ue.Cause != "" {
				fmt.Fprintf(os.Stderr, "Cause: %s\n", ue.Cause)
			}
			if ue.Fix != "" {
				fmt.Fprintf(os.Stderr, "Fix: %s\n", ue.Fix)
			}
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
