// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package alpmdb loads the local installed-package database and
// gzip-compressed tar sync databases that make up one pacman-style
// database root, producing name-keyed Package maps against a shared pool.
package alpmdb

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	alpmerrors "github.com/archgo/alpmgo/internal/errors"
	"github.com/archgo/alpmgo/internal/metrics"
	"github.com/archgo/alpmgo/pkg/descriptor"
	"github.com/archgo/alpmgo/pkg/pool"
)

// localDBVersion is the only ALPM_DB_VERSION this loader accepts.
const localDBVersion = 9

// PackageMap is a database snapshot keyed by each package's interned name
// handle, matching the invariant that a map's keys equal its packages'
// Name fields.
type PackageMap map[pool.Handle]*descriptor.Package

// Loader reads the local and sync databases under one dbroot.
type Loader struct {
	dbroot  string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewLoader creates a Loader rooted at dbroot (e.g. "/var/lib/pacman"). A
// nil logger falls back to slog.Default(); a nil m disables instrumentation.
func NewLoader(dbroot string, logger *slog.Logger, m *metrics.Metrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dbroot: dbroot, logger: logger, metrics: m}
}

// LoadLocal reads <dbroot>/local: the ALPM_DB_VERSION sentinel, then one
// desc file per immediate subdirectory. checked is forwarded to the
// descriptor parser.
func (l *Loader) LoadLocal(p *pool.Pool, checked bool) (PackageMap, error) {
	start := time.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.LocalLoadDuration.Observe(time.Since(start).Seconds())
		}
	}()

	localDir := filepath.Join(l.dbroot, "local")

	if err := l.checkVersion(localDir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return nil, fmt.Errorf("reading local database directory: %w", err)
	}

	pkgs := make(PackageMap, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		descPath := filepath.Join(localDir, entry.Name(), "desc")
		data, err := os.ReadFile(descPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", descPath, err)
		}
		pkg, err := descriptor.Parse(p, data, checked)
		if err != nil {
			if l.metrics != nil {
				l.metrics.DescriptorParseErrors.Inc()
			}
			return nil, err
		}
		pkgs[pkg.Name] = pkg
	}

	l.logger.Debug("loaded local database", "packages", len(pkgs))
	return pkgs, nil
}

func (l *Loader) checkVersion(localDir string) error {
	versionPath := filepath.Join(localDir, "ALPM_DB_VERSION")
	raw, err := os.ReadFile(versionPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", versionPath, err)
	}
	v, perr := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if perr != nil || v != localDBVersion {
		return alpmerrors.NewSchemaError(
			"unsupported local database version",
			fmt.Sprintf("%s contains %q, expected %d", versionPath, strings.TrimSpace(string(raw)), localDBVersion),
			"this loader only understands ALPM_DB_VERSION 9",
			perr,
		)
	}
	return nil
}

// LoadSync reads <dbroot>/sync/<repo>.db: a gzip-compressed tar stream of
// descriptor files. The whole stream is decompressed into one in-memory
// buffer; every regular file entry's descriptor bytes are sliced directly
// from that buffer with no copy. Interning inside descriptor.Parse copies
// every needed byte into p, so the returned packages outlive buf even
// though buf itself is discarded when LoadSync returns.
func (l *Loader) LoadSync(p *pool.Pool, repo string, checked bool) (PackageMap, error) {
	start := time.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.SyncLoadDuration.WithLabelValues(repo).Observe(time.Since(start).Seconds())
		}
	}()

	dbPath := filepath.Join(l.dbroot, "sync", repo+".db")

	f, err := os.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream for %s: %w", dbPath, err)
	}
	defer gz.Close()

	buf, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", dbPath, err)
	}

	br := bytes.NewReader(buf)
	tr := tar.NewReader(br)

	pkgs := make(PackageMap)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar stream for %s: %w", dbPath, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		pos := int64(len(buf)) - int64(br.Len())
		size := hdr.Size
		if pos < 0 || size < 0 || pos+size > int64(len(buf)) {
			return nil, fmt.Errorf("tar stream for %s has an out-of-range entry %q", dbPath, hdr.Name)
		}
		slice := buf[pos : pos+size]

		pkg, err := descriptor.Parse(p, slice, checked)
		if err != nil {
			if l.metrics != nil {
				l.metrics.DescriptorParseErrors.Inc()
			}
			return nil, err
		}
		pkgs[pkg.Name] = pkg
	}

	l.logger.Debug("loaded sync database", "repo", repo, "packages", len(pkgs))
	return pkgs, nil
}
