// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

package iniconf

import (
	"log/slog"
	"os"
	"runtime"
	"strings"

	alpmerrors "github.com/archgo/alpmgo/internal/errors"
)

// Config is the resolved view of a pacman.conf the planner needs: the
// selected architecture, the ignore set, and one URL template per repo
// section with $arch/$repo already substituted.
type Config struct {
	Architecture string
	Ignore       map[string]struct{}
	Repos        map[string]string // repo name -> resolved URL template
}

// Loader reads and resolves a pacman.conf, including one level of Include
// for repo sections that have no direct Server entry.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads path, resolves architecture, ignore list, and per-repo URLs,
// and returns the assembled Config.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, alpmerrors.NewConfigError(
			"cannot read pacman configuration",
			err.Error(),
			"check that "+path+" exists and is readable",
			err,
		)
	}
	doc := Parse(string(data))

	arch, err := resolveArchitecture(doc)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Architecture: arch,
		Ignore:       resolveIgnoreSet(doc),
		Repos:        make(map[string]string),
	}

	for section := range doc.Sections {
		if section == "" || section == "options" {
			continue
		}
		url, err := l.resolveRepoURL(doc, section, path)
		if err != nil {
			return nil, err
		}
		cfg.Repos[section] = rewriteTemplate(url, arch, section)
	}

	return cfg, nil
}

// resolveArchitecture implements §4.2's Architecture rule: "auto" and
// absent map to the host architecture, "x86_64" maps to itself, anything
// else is fatal.
func resolveArchitecture(doc *Document) (string, error) {
	raw, ok := doc.First("options", "Architecture")
	if !ok {
		return hostArchitecture()
	}
	switch strings.TrimSpace(raw) {
	case "auto", "":
		return hostArchitecture()
	case "x86_64":
		return "x86_64", nil
	default:
		return "", alpmerrors.NewConfigError(
			"unsupported architecture",
			"Architecture = "+raw,
			"use \"x86_64\" or \"auto\"",
			nil,
		)
	}
}

// hostArchitecture maps the running process's architecture to pacman's
// naming. Only x86_64 hosts are supported; anything else is a config
// error since this library has no package data for other architectures.
func hostArchitecture() (string, error) {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64", nil
	default:
		return "", alpmerrors.NewConfigError(
			"unsupported host architecture",
			"GOARCH="+runtime.GOARCH,
			"set Architecture = x86_64 explicitly, or run on an x86_64 host",
			nil,
		)
	}
}

func resolveIgnoreSet(doc *Document) map[string]struct{} {
	raw, ok := doc.First("options", "IgnorePkg")
	ignore := make(map[string]struct{})
	if !ok {
		return ignore
	}
	for _, tok := range strings.Fields(raw) {
		ignore[tok] = struct{}{}
	}
	return ignore
}

// resolveRepoURL finds the URL template for a repo section: its own first
// Server value, or failing that, the first Server value of the first
// resolvable Include target, one level deep.
func (l *Loader) resolveRepoURL(doc *Document, section, confPath string) (string, error) {
	if server, ok := doc.First(section, "Server"); ok {
		return server, nil
	}

	includes := doc.All(section, "Include")
	for _, incPath := range includes {
		incPath = strings.TrimSpace(incPath)
		data, err := os.ReadFile(incPath)
		if err != nil {
			l.logger.Warn("skipping unreadable Include target", "repo", section, "path", incPath, "error", err)
			continue
		}
		incDoc := Parse(string(data))
		if server, ok := incDoc.First("", "Server"); ok {
			return server, nil
		}
	}

	return "", alpmerrors.NewConfigError(
		"repo has no resolvable server",
		"section ["+section+"] has no Server and no Include resolves to one",
		"add a Server= line or a valid Include= to "+confPath,
		nil,
	)
}

func rewriteTemplate(template, arch, repo string) string {
	template = strings.ReplaceAll(template, "$arch", arch)
	template = strings.ReplaceAll(template, "$repo", repo)
	return template
}
