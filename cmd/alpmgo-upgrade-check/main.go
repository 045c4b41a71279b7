// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Command alpmgo-upgrade-check loads a pacman-style local database and its
// configured sync repositories, plans the pending upgrades, and prints
// where each one would be fetched from. It exists so the library's three
// cores (descriptor parsing, config resolution, planning) can be exercised
// end to end by hand; it is not part of the library's contract.
package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/archgo/alpmgo/internal/errors"
	"github.com/archgo/alpmgo/internal/output"
	"github.com/archgo/alpmgo/internal/ui"
	"github.com/archgo/alpmgo/pkg/alpmgo"
)

func main() {
	var (
		dbroot     = flag.String("dbroot", "/var/lib/pacman", "Path to the pacman database root")
		configPath = flag.String("config", "/etc/pacman.conf", "Path to pacman.conf")
		repos      = flag.StringArray("repo", nil, "Restrict planning to this repo (repeatable, default: all configured repos)")
		jsonOutput = flag.Bool("json", false, "Print machine-readable JSON instead of colored text")
		checked    = flag.Bool("checked", false, "Fail on any descriptor field not recognized by this version")
		noColor    = flag.Bool("no-color", false, "Disable colored output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: alpmgo-upgrade-check [options]

Plans pending package upgrades from a pacman-style database root and
prints, for each one, the URL it would be fetched from.

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  alpmgo-upgrade-check
  alpmgo-upgrade-check --repo core --repo extra --json
`)
	}

	flag.Parse()
	ui.InitColors(*noColor)

	sess, err := alpmgo.Open(*dbroot, *configPath, nil)
	if err != nil {
		errors.FatalUser(err, *jsonOutput)
	}

	urls, err := sess.UpgradeURLs(context.Background(), *checked, *repos...)
	if err != nil {
		errors.FatalUser(err, *jsonOutput)
	}

	if *jsonOutput {
		if err := output.JSON(urls); err != nil {
			errors.FatalUser(errors.NewInternalError("failed to encode plan as JSON", "", err), true)
		}
		return
	}

	printPlan(urls)
}

func printPlan(urls []alpmgo.UpgradeURL) {
	ui.Header("Pending Upgrades")

	if len(urls) == 0 {
		ui.Info("Everything is up to date")
		return
	}

	for _, u := range urls {
		fmt.Printf("%s  %s -> %s  %s\n",
			ui.Label(u.Repo),
			ui.DimText(u.From.Version),
			ui.Green.Sprint(u.To.Version),
			ui.DimText(u.URL),
		)
	}

	ui.Success(fmt.Sprintf("%d upgrade(s) planned", len(urls)))
}
