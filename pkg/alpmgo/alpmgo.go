// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package alpmgo is the top-level facade: it wires the string pool,
// config loader, database loaders, planner, and lock guard together into
// the handful of operations a caller actually wants.
package alpmgo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/archgo/alpmgo/internal/metrics"
	"github.com/archgo/alpmgo/pkg/alpmdb"
	"github.com/archgo/alpmgo/pkg/descriptor"
	"github.com/archgo/alpmgo/pkg/iniconf"
	"github.com/archgo/alpmgo/pkg/lock"
	"github.com/archgo/alpmgo/pkg/planner"
	"github.com/archgo/alpmgo/pkg/pool"
)

// defaultCachePkgDir is where pacman stores already-downloaded package
// files; a candidate found there needs no network fetch.
const defaultCachePkgDir = "/var/cache/pacman/pkg"

// Session is one load-and-plan session: a single shared pool, a resolved
// pacman.conf, and the database loader rooted at DBRoot.
type Session struct {
	Pool    *pool.Pool
	Config  *iniconf.Config
	DBRoot  string
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// CachePkgDir overrides defaultCachePkgDir; tests set this to a
	// temporary directory instead of probing the real filesystem.
	CachePkgDir string

	loader *alpmdb.Loader
}

// Open reads pacmanConfPath and prepares a Session rooted at dbroot. No
// database is read yet; call LoadLocal/LoadSync or PlanUpdates for that.
func Open(dbroot, pacmanConfPath string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := iniconf.NewLoader(logger).Load(pacmanConfPath)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	return &Session{
		Pool:        pool.New(),
		Config:      cfg,
		DBRoot:      dbroot,
		Metrics:     m,
		Logger:      logger,
		CachePkgDir: defaultCachePkgDir,
		loader:      alpmdb.NewLoader(dbroot, logger, m),
	}, nil
}

// LoadLocal loads the local database into the session's pool.
func (s *Session) LoadLocal(checked bool) (alpmdb.PackageMap, error) {
	pkgs, err := s.loader.LoadLocal(s.Pool, checked)
	if err != nil {
		return nil, err
	}
	s.Metrics.LocalPackagesLoaded.Add(float64(len(pkgs)))
	return pkgs, nil
}

// LoadSync loads one configured repo's sync database into the session's
// pool.
func (s *Session) LoadSync(repo string, checked bool) (alpmdb.PackageMap, error) {
	pkgs, err := s.loader.LoadSync(s.Pool, repo, checked)
	if err != nil {
		return nil, err
	}
	s.Metrics.SyncPackagesLoaded.WithLabelValues(repo).Add(float64(len(pkgs)))
	return pkgs, nil
}

// Lock acquires the exclusive database lock at <dbroot>/db.lck. The
// caller must Release the returned guard.
func (s *Session) Lock() (*lock.Guard, error) {
	g, err := lock.Acquire(filepath.Join(s.DBRoot, "db.lck"))
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			s.Metrics.LockContentions.Inc()
		}
		return nil, err
	}
	return g, nil
}

// PlanUpdates loads the local database and every configured repo in
// Config.Repos (in Go map-iteration order, which can differ from call to
// call; the section order of pacman.conf is not kept), then returns the planned
// upgrades. If dbFilter is non-empty, only repos named in it are loaded
// and planned against; this backs the demo binary's repeatable --repo
// flag. ctx is forwarded to the planner purely for cancellation; no I/O
// happens once loading completes.
func (s *Session) PlanUpdates(ctx context.Context, checked bool, dbFilter ...string) ([]planner.Update, error) {
	local, err := s.LoadLocal(checked)
	if err != nil {
		return nil, err
	}

	allow := make(map[string]struct{}, len(dbFilter))
	for _, name := range dbFilter {
		allow[name] = struct{}{}
	}

	var repos []planner.Repo
	for name := range s.Config.Repos {
		if len(allow) > 0 {
			if _, ok := allow[name]; !ok {
				continue
			}
		}
		pkgs, err := s.LoadSync(name, checked)
		if err != nil {
			return nil, err
		}
		repos = append(repos, planner.Repo{Name: name, Pkgs: pkgs})
	}

	ignore := make(map[pool.Handle]struct{}, len(s.Config.Ignore))
	for name := range s.Config.Ignore {
		ignore[s.Pool.InternString(name)] = struct{}{}
	}

	start := time.Now()
	updates := planner.Plan(ctx, s.Pool, local, repos, ignore, s.Logger, s.Metrics)
	s.Metrics.PlanDuration.Observe(time.Since(start).Seconds())
	s.Metrics.UpdatesPlanned.Add(float64(len(updates)))
	return updates, nil
}

// UpgradeURL is one planned upgrade resolved to a fetch location.
type UpgradeURL struct {
	Repo string
	From descriptor.DisplayPackage
	To   descriptor.DisplayPackage
	URL  string
}

// UpgradeURLs plans updates and resolves each to a URL: a local cache hit
// under CachePkgDir becomes a file:// URL, otherwise the candidate's repo
// URL template is joined with its filename.
func (s *Session) UpgradeURLs(ctx context.Context, checked bool, dbFilter ...string) ([]UpgradeURL, error) {
	updates, err := s.PlanUpdates(ctx, checked, dbFilter...)
	if err != nil {
		return nil, err
	}

	cacheDir := s.CachePkgDir
	if cacheDir == "" {
		cacheDir = defaultCachePkgDir
	}

	result := make([]UpgradeURL, 0, len(updates))
	for _, u := range updates {
		filename, ok := s.Pool.TryResolve(u.To.Filename)
		if !ok {
			filename = ""
		}

		var url string
		cachedPath := filepath.Join(cacheDir, filename)
		if filename != "" {
			if _, statErr := os.Stat(cachedPath); statErr == nil {
				url = "file://" + cachedPath
			}
		}
		if url == "" {
			template := s.Config.Repos[u.Repo]
			url = fmt.Sprintf("%s/%s", template, filename)
		}

		result = append(result, UpgradeURL{
			Repo: u.Repo,
			From: u.From.Resolve(s.Pool),
			To:   u.To.Resolve(s.Pool),
			URL:  url,
		})
	}
	return result, nil
}
