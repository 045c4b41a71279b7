// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

package planner

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/archgo/alpmgo/internal/metrics"
	"github.com/archgo/alpmgo/pkg/alpmdb"
	"github.com/archgo/alpmgo/pkg/descriptor"
	"github.com/archgo/alpmgo/pkg/pool"
	"github.com/archgo/alpmgo/pkg/version"
)

func mkPkg(p *pool.Pool, name, ver string, replaces ...string) *descriptor.Package {
	pkg := &descriptor.Package{
		Name:    p.InternString(name),
		Version: p.InternString(ver),
	}
	if len(replaces) > 0 {
		pkg.Replaces = make(map[pool.Handle]struct{}, len(replaces))
		for _, r := range replaces {
			pkg.Replaces[p.InternString(r)] = struct{}{}
		}
	}
	return pkg
}

func TestPlanScenario(t *testing.T) {
	p := pool.New()
	x := mkPkg(p, "X", "1.0-1")
	local := alpmdb.PackageMap{x.Name: x}

	xUpgrade := mkPkg(p, "X", "1.0-2")
	yReplacesX := mkPkg(p, "Y", "1.0-1", "X")
	core := Repo{Name: "core", Pkgs: alpmdb.PackageMap{
		xUpgrade.Name: xUpgrade,
		yReplacesX.Name: yReplacesX,
	}}

	updates := Plan(context.Background(), p, local, []Repo{core}, nil, nil, nil)
	require.Len(t, updates, 2)
	require.Equal(t, "core", updates[0].Repo)
	require.Equal(t, x, updates[0].From)
	require.Equal(t, xUpgrade, updates[0].To)
	require.Equal(t, "core", updates[1].Repo)
	require.Equal(t, x, updates[1].From)
	require.Equal(t, yReplacesX, updates[1].To)
}

func TestPlanIgnoredPackageProducesNoUpdate(t *testing.T) {
	p := pool.New()
	x := mkPkg(p, "X", "1.0-1")
	local := alpmdb.PackageMap{x.Name: x}
	core := Repo{Name: "core", Pkgs: alpmdb.PackageMap{
		p.InternString("X"): mkPkg(p, "X", "1.0-2"),
	}}

	ignore := map[pool.Handle]struct{}{x.Name: {}}
	updates := Plan(context.Background(), p, local, []Repo{core}, ignore, nil, nil)
	require.Empty(t, updates)
}

func TestPlanDowngradeIsNotAnUpdate(t *testing.T) {
	p := pool.New()
	x := mkPkg(p, "X", "2.0-1")
	local := alpmdb.PackageMap{x.Name: x}
	core := Repo{Name: "core", Pkgs: alpmdb.PackageMap{
		p.InternString("X"): mkPkg(p, "X", "1.0-1"),
	}}

	updates := Plan(context.Background(), p, local, []Repo{core}, nil, nil, nil)
	require.Empty(t, updates)
}

func TestPlanDowngradeIncrementsMetric(t *testing.T) {
	p := pool.New()
	x := mkPkg(p, "X", "2.0-1")
	local := alpmdb.PackageMap{x.Name: x}
	core := Repo{Name: "core", Pkgs: alpmdb.PackageMap{
		p.InternString("X"): mkPkg(p, "X", "1.0-1"),
	}}

	m := metrics.New()
	Plan(context.Background(), p, local, []Repo{core}, nil, nil, m)
	require.Equal(t, float64(1), testutil.ToFloat64(m.DowngradesDetected))
}

func TestPlanStopsWhenContextIsCancelled(t *testing.T) {
	p := pool.New()
	x := mkPkg(p, "X", "1.0-1")
	local := alpmdb.PackageMap{x.Name: x}
	core := Repo{Name: "core", Pkgs: alpmdb.PackageMap{
		p.InternString("X"): mkPkg(p, "X", "1.0-2"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	updates := Plan(ctx, p, local, []Repo{core}, nil, nil, nil)
	require.Empty(t, updates)
}

func TestPlanEqualVersionIsSkipped(t *testing.T) {
	p := pool.New()
	x := mkPkg(p, "X", "1.0-1")
	local := alpmdb.PackageMap{x.Name: x}
	core := Repo{Name: "core", Pkgs: alpmdb.PackageMap{
		p.InternString("X"): mkPkg(p, "X", "1.0-1"),
	}}

	updates := Plan(context.Background(), p, local, []Repo{core}, nil, nil, nil)
	require.Empty(t, updates)
}

func TestPlanInvariantEveryUpdateIsUpgradeOrReplace(t *testing.T) {
	p := pool.New()
	x := mkPkg(p, "X", "1.0-1")
	z := mkPkg(p, "Z", "1.0-1")
	local := alpmdb.PackageMap{x.Name: x, z.Name: z}
	core := Repo{Name: "core", Pkgs: alpmdb.PackageMap{
		p.InternString("X"): mkPkg(p, "X", "1.0-2"),
		p.InternString("Z"): mkPkg(p, "Z", "1.0-1"), // equal, no update
	}}

	updates := Plan(context.Background(), p, local, []Repo{core}, nil, nil, nil)
	for _, u := range updates {
		sameNameUpgrade := p.Resolve(u.From.Name) == p.Resolve(u.To.Name)
		if sameNameUpgrade {
			require.Equal(t, version.Less, version.Cmp(p.Resolve(u.From.Version), p.Resolve(u.To.Version)))
			continue
		}
		_, replaced := u.To.Replaces[u.From.Name]
		require.True(t, replaced)
	}
}
