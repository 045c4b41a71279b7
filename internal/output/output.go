// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package output provides consistent JSON and YAML formatting for
// alpmgo's demo CLI and for tests that want to assert on serialized
// shapes rather than Go structs.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	alpmerrors "github.com/archgo/alpmgo/internal/errors"
)

// JSON writes data as pretty-printed JSON to stdout.
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as pretty-printed JSON to w.
func JSONTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// JSONCompact writes data as compact JSON to stdout.
func JSONCompact(data any) error {
	return JSONCompactTo(os.Stdout, data)
}

// JSONCompactTo writes data as compact JSON to w.
func JSONCompactTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// YAML writes data as YAML to stdout.
func YAML(data any) error {
	return YAMLTo(os.Stdout, data)
}

// YAMLTo writes data as YAML to w.
func YAMLTo(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("YAML encoding failed: %w", err)
	}
	return nil
}

// ErrorPayload is the machine-readable shape of a reported error,
// mirroring the fields of *alpmerrors.UserError.
type ErrorPayload struct {
	Error    string `json:"error" yaml:"error"`
	Cause    string `json:"cause,omitempty" yaml:"cause,omitempty"`
	Fix      string `json:"fix,omitempty" yaml:"fix,omitempty"`
	ExitCode int    `json:"exit_code" yaml:"exit_code"`
}

func errorPayload(err error) ErrorPayload {
	var userErr *alpmerrors.UserError
	if errors.As(err, &userErr) {
		return ErrorPayload{
			Error:    userErr.Message,
			Cause:    userErr.Cause,
			Fix:      userErr.Fix,
			ExitCode: userErr.ExitCode,
		}
	}
	return ErrorPayload{Error: err.Error(), ExitCode: alpmerrors.ExitInternal}
}

// JSONError writes err as JSON to stderr.
func JSONError(err error) error {
	return JSONErrorTo(os.Stderr, err)
}

// JSONErrorTo writes err as JSON to w.
func JSONErrorTo(w io.Writer, err error) error {
	return JSONTo(w, errorPayload(err))
}

// YAMLError writes err as YAML to stderr.
func YAMLError(err error) error {
	return YAMLErrorTo(os.Stderr, err)
}

// YAMLErrorTo writes err as YAML to w.
func YAMLErrorTo(w io.Writer, err error) error {
	return YAMLTo(w, errorPayload(err))
}
