// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

package iniconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResolvesDirectServer(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "pacman.conf", ""+
		"[options]\nArchitecture = x86_64\nIgnorePkg = linux  linux-headers\n\n"+
		"[core]\nServer = https://example.com/$repo/os/$arch\n")

	cfg, err := NewLoader(nil).Load(conf)
	require.NoError(t, err)
	require.Equal(t, "x86_64", cfg.Architecture)
	_, hasLinux := cfg.Ignore["linux"]
	require.True(t, hasLinux)
	_, hasHeaders := cfg.Ignore["linux-headers"]
	require.True(t, hasHeaders)
	require.Equal(t, "https://example.com/core/os/x86_64", cfg.Repos["core"])
}

func TestLoadResolvesIncludedServer(t *testing.T) {
	dir := t.TempDir()
	mirrorlist := writeFile(t, dir, "mirrorlist", "Server = https://mirror.example.com/$repo/os/$arch\n")
	conf := writeFile(t, dir, "pacman.conf", ""+
		"[options]\nArchitecture = x86_64\n\n"+
		"[extra]\nInclude = "+mirrorlist+"\n")

	cfg, err := NewLoader(nil).Load(conf)
	require.NoError(t, err)
	require.Equal(t, "https://mirror.example.com/extra/os/x86_64", cfg.Repos["extra"])
}

func TestLoadUnknownArchitectureIsFatal(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "pacman.conf", "[options]\nArchitecture = sparc64\n")
	_, err := NewLoader(nil).Load(conf)
	require.Error(t, err)
}

func TestLoadRepoWithNoResolvableServerIsFatal(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "pacman.conf", "[options]\nArchitecture = x86_64\n\n[core]\nSigLevel = Required\n")
	_, err := NewLoader(nil).Load(conf)
	require.Error(t, err)
}

func TestLoadAbsentArchitectureFallsBackToHost(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "pacman.conf", "[core]\nServer = https://example.com/$repo/os/$arch\n")
	cfg, err := NewLoader(nil).Load(conf)
	if err != nil {
		// Only fails on a non-x86_64 test host, which this package does
		// not claim to support.
		t.Skip("host architecture unsupported: " + err.Error())
	}
	require.Equal(t, "x86_64", cfg.Architecture)
}
