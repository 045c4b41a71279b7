// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package xtest builds synthetic database roots and pacman.conf files for
// tests that exercise alpmgo end to end, without touching a real system's
// package database.
package xtest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Package is the minimal descriptor fixture shape NewLocalDB and
// NewSyncDB know how to render.
type Package struct {
	Name     string
	Version  string
	Replaces []string
}

func renderDescriptor(pkg Package) string {
	var b strings.Builder
	b.WriteString("%BASE%\n" + pkg.Name + "\n\n")
	b.WriteString("%NAME%\n" + pkg.Name + "\n\n")
	b.WriteString("%VERSION%\n" + pkg.Version + "\n\n")
	b.WriteString("%ARCH%\nx86_64\n\n")
	b.WriteString("%PACKAGER%\nTest Packager <test@example.com>\n\n")
	b.WriteString("%DESC%\na synthetic test package\n\n")
	b.WriteString("%URL%\nhttps://example.com/" + pkg.Name + "\n\n")
	b.WriteString("%LICENSE%\nMIT\n\n")
	b.WriteString("%BUILDDATE%\n1700000000000\n\n")
	if len(pkg.Replaces) > 0 {
		b.WriteString("%REPLACES%\n" + strings.Join(pkg.Replaces, "\n") + "\n\n")
	}
	b.WriteString("\n\n")
	return b.String()
}

// NewDBRoot creates an empty temporary database root with local/ and
// sync/ subdirectories, cleaned up automatically by t.TempDir.
func NewDBRoot(t *testing.T) string {
	t.Helper()
	dbroot := t.TempDir()
	mustMkdirAll(t, filepath.Join(dbroot, "local"))
	mustMkdirAll(t, filepath.Join(dbroot, "sync"))
	return dbroot
}

// WriteLocalDB populates <dbroot>/local with ALPM_DB_VERSION and one
// desc file per package.
func WriteLocalDB(t *testing.T, dbroot string, pkgs ...Package) {
	t.Helper()
	localDir := filepath.Join(dbroot, "local")
	mustMkdirAll(t, localDir)
	mustWriteFile(t, filepath.Join(localDir, "ALPM_DB_VERSION"), "9")
	for _, pkg := range pkgs {
		pkgDir := filepath.Join(localDir, pkg.Name+"-"+pkg.Version)
		mustMkdirAll(t, pkgDir)
		mustWriteFile(t, filepath.Join(pkgDir, "desc"), renderDescriptor(pkg))
	}
}

// WriteSyncDB writes <dbroot>/sync/<repo>.db as a gzip-compressed tar
// archive containing one desc entry per package.
func WriteSyncDB(t *testing.T, dbroot, repo string, pkgs ...Package) {
	t.Helper()
	syncDir := filepath.Join(dbroot, "sync")
	mustMkdirAll(t, syncDir)

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	for _, pkg := range pkgs {
		content := []byte(renderDescriptor(pkg))
		hdr := &tar.Header{
			Name:     pkg.Name + "-" + pkg.Version + "/desc",
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("xtest: writing tar header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("xtest: writing tar content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("xtest: closing tar writer: %v", err)
	}

	f, err := os.Create(filepath.Join(syncDir, repo+".db"))
	if err != nil {
		t.Fatalf("xtest: creating sync db: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(tarBuf.Bytes()); err != nil {
		t.Fatalf("xtest: writing gzip stream: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("xtest: closing gzip stream: %v", err)
	}
}

// WritePacmanConf writes a minimal pacman.conf at dir/pacman.conf with the
// given repo -> server-template entries under an x86_64 options block,
// and returns its path.
func WritePacmanConf(t *testing.T, dir string, repos map[string]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("[options]\nArchitecture = x86_64\n\n")
	for repo, server := range repos {
		b.WriteString("[" + repo + "]\nServer = " + server + "\n\n")
	}
	path := filepath.Join(dir, "pacman.conf")
	mustWriteFile(t, path, b.String())
	return path
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("xtest: creating %s: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("xtest: writing %s: %v", path, err)
	}
}
