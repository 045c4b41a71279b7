// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserErrorError(t *testing.T) {
	withErr := &UserError{Message: "cannot open database", Err: fmt.Errorf("file locked")}
	require.Equal(t, "cannot open database: file locked", withErr.Error())

	withoutErr := &UserError{Message: "invalid input"}
	require.Equal(t, "invalid input", withoutErr.Error())
}

func TestUserErrorUnwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	err := &UserError{Message: "test", Err: underlying}
	require.Equal(t, underlying, err.Unwrap())

	noUnderlying := &UserError{Message: "test"}
	require.Nil(t, noUnderlying.Unwrap())
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := map[int]string{
		ExitSuccess:  "ExitSuccess",
		ExitConfig:   "ExitConfig",
		ExitSchema:   "ExitSchema",
		ExitLock:     "ExitLock",
		ExitInternal: "ExitInternal",
	}
	require.Len(t, codes, 5) // all distinct ints, no map key collisions
}

func TestConstructors(t *testing.T) {
	underlying := fmt.Errorf("underlying")

	cfg := NewConfigError("msg", "cause", "fix", underlying)
	require.Equal(t, ExitConfig, cfg.ExitCode)
	require.Equal(t, "cause", cfg.Cause)
	require.Equal(t, "fix", cfg.Fix)

	schema := NewSchemaError("msg", "cause", "fix", underlying)
	require.Equal(t, ExitSchema, schema.ExitCode)

	lockErr := NewLockError("msg", "cause", "fix", underlying)
	require.Equal(t, ExitLock, lockErr.ExitCode)

	internal := NewInternalError("msg", "cause", underlying)
	require.Equal(t, ExitInternal, internal.ExitCode)
	require.Equal(t, "", internal.Fix)
}

func TestErrorsIsThroughUserError(t *testing.T) {
	sentinel := fmt.Errorf("sentinel")
	wrapped := fmt.Errorf("wrapped: %w", sentinel)
	userErr := NewSchemaError("schema error", "cause", "fix", wrapped)

	require.True(t, errors.Is(userErr, sentinel))
}

func TestErrorsAsExtractsUserError(t *testing.T) {
	inner := NewConfigError("config error", "cause", "fix", nil)
	outer := NewSchemaError("schema error", "cause", "fix", inner)

	var target *UserError
	require.True(t, errors.As(outer, &target))
	require.Equal(t, ExitSchema, target.ExitCode)

	var nested *UserError
	require.True(t, errors.As(target.Err, &nested))
	require.Equal(t, ExitConfig, nested.ExitCode)
}
