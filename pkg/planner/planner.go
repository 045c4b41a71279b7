// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package planner compares an installed-package database against one or
// more repository databases and produces the ordered list of available
// upgrades.
package planner

import (
	"context"

	"github.com/archgo/alpmgo/internal/metrics"
	"github.com/archgo/alpmgo/pkg/alpmdb"
	"github.com/archgo/alpmgo/pkg/descriptor"
	"github.com/archgo/alpmgo/pkg/pool"
	"github.com/archgo/alpmgo/pkg/version"
)

// Repo pairs a repository name with its loaded package map, in the
// iteration order the planner should consult the repos in.
type Repo struct {
	Name string
	Pkgs alpmdb.PackageMap
}

// Update is one planned upgrade: From is the currently installed package,
// To is the candidate in Repo that replaces or upgrades it.
type Update struct {
	Repo string
	From *descriptor.Package
	To   *descriptor.Package
}

// Plan compares local against repos in order, skipping any installed
// package whose name handle is in ignore, and returns the ordered list of
// upgrades per §4.6: a same-named candidate with a strictly greater
// version, or any candidate whose replaces set names the installed
// package (version is not consulted for a replacement).
//
// A same-named candidate with a lesser version logs a downgrade warning
// through logger, increments m's downgrade counter, and is never added to
// the result; an equal version is silently skipped.
//
// ctx is checked between installed-package iterations purely for
// cancellation; the loop body performs no I/O and has no other suspension
// point, so a cancellation is only ever observed at that boundary. m may
// be nil, which disables the downgrade counter.
func Plan(ctx context.Context, p *pool.Pool, local alpmdb.PackageMap, repos []Repo, ignore map[pool.Handle]struct{}, logger Logger, m *metrics.Metrics) []Update {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger{}
	}

	var updates []Update
	for name, installed := range local {
		if err := ctx.Err(); err != nil {
			break
		}
		if _, skip := ignore[name]; skip {
			continue
		}
		for _, repo := range repos {
			// The same-named candidate, if any, is checked first so that a
			// direct version match always precedes any replaces-based
			// match within the same repo.
			if candidate, ok := repo.Pkgs[name]; ok {
				switch version.Cmp(p.Resolve(installed.Version), p.Resolve(candidate.Version)) {
				case version.Less:
					updates = append(updates, Update{Repo: repo.Name, From: installed, To: candidate})
				case version.Greater:
					logger.Warn("downgrade available, skipping",
						"package", p.Resolve(name),
						"installed", p.Resolve(installed.Version),
						"candidate", p.Resolve(candidate.Version),
						"repo", repo.Name)
					if m != nil {
						m.DowngradesDetected.Inc()
					}
				}
			}

			for _, candidate := range repo.Pkgs {
				if candidate.Name == name {
					continue // already handled above
				}
				if _, replaces := candidate.Replaces[name]; replaces {
					updates = append(updates, Update{Repo: repo.Name, From: installed, To: candidate})
				}
			}
		}
	}
	return updates
}

// Logger is the minimal logging surface Plan needs, satisfied by
// *slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}
