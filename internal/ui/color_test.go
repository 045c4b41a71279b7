// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

package ui

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestInitColors(t *testing.T) {
	original := color.NoColor
	defer func() { color.NoColor = original }()

	InitColors(true)
	require.True(t, color.NoColor)

	InitColors(false)
	require.False(t, color.NoColor)
}

func TestLabelAndDimTextWithColorsDisabled(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	require.Equal(t, "Project ID:", Label("Project ID:"))
	require.Equal(t, "/path/to/cache", DimText("/path/to/cache"))
	require.Equal(t, "", Label(""))
	require.Equal(t, "", DimText(""))
}

func TestColorVariablesInitialized(t *testing.T) {
	require.NotNil(t, Red)
	require.NotNil(t, Yellow)
	require.NotNil(t, Green)
	require.NotNil(t, Cyan)
	require.NotNil(t, Bold)
	require.NotNil(t, Dim)
}

func TestMessageFunctionsDoNotPanic(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	require.NotPanics(t, func() {
		Success("test success")
		Warning("test warning")
		Error("test error")
		Info("test info")
		Header("Test Header")
	})
}
