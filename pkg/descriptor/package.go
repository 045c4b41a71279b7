// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package descriptor turns a pacman-style `%KEY%\nvalue\n\n` record into a
// typed Package, and defines the Package record itself.
package descriptor

import "github.com/archgo/alpmgo/pkg/pool"

// Arch enumerates the two architectures spec.md §3 recognizes.
type Arch uint8

const (
	ArchUnknown Arch = iota
	ArchX86_64
	ArchAny
)

// Validation enumerates the signature/checksum validation methods a
// package advertises. Bit values are kept for parity with the upstream
// implementation's bitmask intent (see SPEC_FULL.md §3); this module only
// ever stores one value per package (spec.md's "first entry wins" rule for
// a multi-line VALIDATION field), so the values are never OR'd together.
type Validation uint8

const (
	ValidationUnknown Validation = 0
	ValidationNone    Validation = 1
	ValidationMd5     Validation = 1 << 1
	ValidationSha256  Validation = 1 << 2
	ValidationPGP     Validation = 1 << 3
)

// XData enumerates the `pkgtype=<tag>` XDATA field.
type XData uint8

const (
	XDataNone XData = iota
	XDataPkg
	XDataSplit
	XDataDebug
)

// Package is the typed package record of spec.md §3. Interned fields are
// pool.Handle values; resolve them against the same Pool that loaded this
// Package.
type Package struct {
	Base     pool.Handle
	Name     pool.Handle
	Version  pool.Handle
	Packager pool.Handle
	Desc     pool.Handle
	URL      pool.Handle
	Arch     Arch
	License  []pool.Handle

	HasReason bool
	Reason    uint8 // 0 explicit, 1 dependency, 2 unknown

	HasInstallDate bool
	InstallDate    uint64 // milliseconds since Unix epoch

	BuildDate uint64 // milliseconds since Unix epoch, required

	HasISize bool
	ISize    uint64
	HasCSize bool
	CSize    uint64

	HasValidation bool
	Validation    Validation

	HasFilename bool
	Filename    pool.Handle

	HasMD5Sum bool
	MD5Sum    [24]byte // the 24 bytes decoded from the base64-no-pad MD5SUM value

	HasSHA256Sum bool
	SHA256Sum    [48]byte // the 48 bytes decoded from the base64-no-pad SHA256SUM value

	HasPGPSig bool
	PGPSig    pool.Handle

	HasXData bool
	XData    XData

	Provides     []pool.Handle
	Depends      []pool.Handle
	OptDepends   []pool.Handle
	MakeDepends  []pool.Handle
	CheckDepends []pool.Handle
	Groups       []pool.Handle
	Conflicts    []pool.Handle
	Replaces     map[pool.Handle]struct{}
}

// DisplayPackage is a fully-resolved, pool-free snapshot of a Package, for
// logging and output formatting. Grounded on original_source's QuickResolve
// trait, collapsed into one eager resolve since Go has no borrow-lifetime
// reason to keep it lazy.
type DisplayPackage struct {
	Name    string
	Version string
	Desc    string
	URL     string
}

// Resolve snapshots the handful of fields callers typically want to show a
// human, resolved against p.
func (pkg *Package) Resolve(p *pool.Pool) DisplayPackage {
	return DisplayPackage{
		Name:    p.Resolve(pkg.Name),
		Version: p.Resolve(pkg.Version),
		Desc:    p.Resolve(pkg.Desc),
		URL:     p.Resolve(pkg.URL),
	}
}
