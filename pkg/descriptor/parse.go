// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

package descriptor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"

	alpmerrors "github.com/archgo/alpmgo/internal/errors"
	"github.com/archgo/alpmgo/pkg/pool"
)

// record is the raw %KEY% -> value map produced by splitting a descriptor,
// with tracking of which keys the typed conversion below actually reads.
type record struct {
	fields   map[string][]byte
	consumed map[string]bool
}

func (r *record) get(key string) ([]byte, bool) {
	v, ok := r.fields[key]
	if ok {
		r.consumed[key] = true
	}
	return v, ok
}

// Parse decodes one descriptor (a concatenation of `%KEY%\nvalue\n\n`
// records terminated by a final blank line) into a Package, interning every
// string field into p. When checked is true, Parse additionally asserts
// that every key present in the descriptor was consumed by a known field,
// rejecting descriptors with keys this parser does not recognize.
func Parse(p *pool.Pool, data []byte, checked bool) (*Package, error) {
	fields, err := splitRecords(data)
	if err != nil {
		return nil, alpmerrors.NewSchemaError(
			"malformed package descriptor",
			err.Error(),
			"re-download or rebuild the database that produced this entry",
			err,
		)
	}

	r := &record{fields: fields, consumed: make(map[string]bool, len(fields))}
	pkg := &Package{}

	required := func(key string) ([]byte, error) {
		v, ok := r.get(key)
		if !ok {
			return nil, fmt.Errorf("missing required field %s", key)
		}
		return v, nil
	}

	schemaErr := func(field string, cause error) error {
		return alpmerrors.NewSchemaError(
			fmt.Sprintf("invalid %s field", field),
			cause.Error(),
			"the package database is likely corrupt or from an incompatible builder",
			cause,
		)
	}

	base, err := required("BASE")
	if err != nil {
		return nil, schemaErr("BASE", err)
	}
	pkg.Base = p.Intern(base)

	name, err := required("NAME")
	if err != nil {
		return nil, schemaErr("NAME", err)
	}
	pkg.Name = p.Intern(name)

	version, err := required("VERSION")
	if err != nil {
		return nil, schemaErr("VERSION", err)
	}
	pkg.Version = p.Intern(version)

	packager, err := required("PACKAGER")
	if err != nil {
		return nil, schemaErr("PACKAGER", err)
	}
	pkg.Packager = p.Intern(packager)

	desc, err := required("DESC")
	if err != nil {
		return nil, schemaErr("DESC", err)
	}
	pkg.Desc = p.Intern(desc)

	url, err := required("URL")
	if err != nil {
		return nil, schemaErr("URL", err)
	}
	pkg.URL = p.Intern(url)

	archRaw, err := required("ARCH")
	if err != nil {
		return nil, schemaErr("ARCH", err)
	}
	switch string(archRaw) {
	case "x86_64":
		pkg.Arch = ArchX86_64
	case "any":
		pkg.Arch = ArchAny
	default:
		return nil, schemaErr("ARCH", fmt.Errorf("unknown architecture %q", archRaw))
	}

	license, err := required("LICENSE")
	if err != nil {
		return nil, schemaErr("LICENSE", err)
	}
	pkg.License = internList(p, license)

	buildDate, err := required("BUILDDATE")
	if err != nil {
		return nil, schemaErr("BUILDDATE", err)
	}
	bd, perr := strconv.ParseUint(string(buildDate), 10, 64)
	if perr != nil {
		return nil, schemaErr("BUILDDATE", perr)
	}
	pkg.BuildDate = bd

	if v, ok := r.get("REASON"); ok {
		n, perr := strconv.ParseUint(string(v), 10, 8)
		if perr != nil {
			return nil, schemaErr("REASON", perr)
		}
		pkg.HasReason = true
		pkg.Reason = uint8(n)
	}

	if v, ok := r.get("INSTALLDATE"); ok {
		n, perr := strconv.ParseUint(string(v), 10, 64)
		if perr != nil {
			return nil, schemaErr("INSTALLDATE", perr)
		}
		pkg.HasInstallDate = true
		pkg.InstallDate = n
	}

	// ISIZE is the current key; SIZE is the legacy alias. SIZE is only
	// consulted when ISIZE is absent.
	if v, ok := r.get("ISIZE"); ok {
		n, perr := strconv.ParseUint(string(v), 10, 64)
		if perr != nil {
			return nil, schemaErr("ISIZE", perr)
		}
		pkg.HasISize = true
		pkg.ISize = n
	} else if v, ok := r.get("SIZE"); ok {
		n, perr := strconv.ParseUint(string(v), 10, 64)
		if perr != nil {
			return nil, schemaErr("SIZE", perr)
		}
		pkg.HasISize = true
		pkg.ISize = n
	}

	if v, ok := r.get("CSIZE"); ok {
		n, perr := strconv.ParseUint(string(v), 10, 64)
		if perr != nil {
			return nil, schemaErr("CSIZE", perr)
		}
		pkg.HasCSize = true
		pkg.CSize = n
	}

	if v, ok := r.get("VALIDATION"); ok {
		// Some descriptors carry multiple newline-separated validation
		// entries; only the first is kept.
		first := v
		if idx := bytes.IndexByte(v, '\n'); idx >= 0 {
			first = v[:idx]
		}
		switch string(first) {
		case "none":
			pkg.Validation = ValidationNone
		case "md5":
			pkg.Validation = ValidationMd5
		case "sha256":
			pkg.Validation = ValidationSha256
		case "pgp":
			pkg.Validation = ValidationPGP
		default:
			return nil, schemaErr("VALIDATION", fmt.Errorf("unknown validation method %q", first))
		}
		pkg.HasValidation = true
	}

	if v, ok := r.get("FILENAME"); ok {
		pkg.HasFilename = true
		pkg.Filename = p.Intern(v)
	}

	if v, ok := r.get("MD5SUM"); ok {
		if err := decodeDigest(pkg.MD5Sum[:], v); err != nil {
			return nil, schemaErr("MD5SUM", err)
		}
		pkg.HasMD5Sum = true
	}

	if v, ok := r.get("SHA256SUM"); ok {
		if err := decodeDigest(pkg.SHA256Sum[:], v); err != nil {
			return nil, schemaErr("SHA256SUM", err)
		}
		pkg.HasSHA256Sum = true
	}

	if v, ok := r.get("PGPSIG"); ok {
		pkg.HasPGPSig = true
		pkg.PGPSig = p.Intern(v)
	}

	if v, ok := r.get("XDATA"); ok {
		switch string(v) {
		case "pkgtype=pkg":
			pkg.XData = XDataPkg
		case "pkgtype=split":
			pkg.XData = XDataSplit
		case "pkgtype=debug":
			pkg.XData = XDataDebug
		default:
			return nil, schemaErr("XDATA", fmt.Errorf("unknown package type %q", v))
		}
		pkg.HasXData = true
	}

	if v, ok := r.get("DEPENDS"); ok {
		pkg.Depends = internList(p, v)
	}
	if v, ok := r.get("OPTDEPENDS"); ok {
		pkg.OptDepends = internList(p, v)
	}
	if v, ok := r.get("MAKEDEPENDS"); ok {
		pkg.MakeDepends = internList(p, v)
	}
	if v, ok := r.get("CHECKDEPENDS"); ok {
		pkg.CheckDepends = internList(p, v)
	}
	if v, ok := r.get("PROVIDES"); ok {
		pkg.Provides = internList(p, v)
	}
	if v, ok := r.get("GROUPS"); ok {
		pkg.Groups = internList(p, v)
	}
	if v, ok := r.get("CONFLICTS"); ok {
		pkg.Conflicts = internList(p, v)
	}
	if v, ok := r.get("REPLACES"); ok {
		handles := internList(p, v)
		pkg.Replaces = make(map[pool.Handle]struct{}, len(handles))
		for _, h := range handles {
			if h == pkg.Name {
				continue // a package never replaces itself
			}
			pkg.Replaces[h] = struct{}{}
		}
	}

	if checked {
		for key := range r.fields {
			if !r.consumed[key] {
				return nil, alpmerrors.NewSchemaError(
					"unrecognized descriptor field",
					fmt.Sprintf("field %s is not a known package field", key),
					"the database schema may have changed; update the loader",
					nil,
				)
			}
		}
	}

	return pkg, nil
}

// decodeDigest decodes a base64-no-pad digest into dst, which must be sized
// to the exact expected decoded length.
func decodeDigest(dst []byte, v []byte) error {
	if got := base64.RawStdEncoding.DecodedLen(len(v)); got != len(dst) {
		return fmt.Errorf("expected %d decoded bytes, encoding implies %d", len(dst), got)
	}
	n, err := base64.RawStdEncoding.Decode(dst, v)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return fmt.Errorf("expected %d decoded bytes, got %d", len(dst), n)
	}
	return nil
}

// internList splits a multi-line field value on single newlines and interns
// each line independently, preserving order.
func internList(p *pool.Pool, v []byte) []pool.Handle {
	lines := bytes.Split(v, []byte("\n"))
	handles := make([]pool.Handle, len(lines))
	for i, line := range lines {
		handles[i] = p.Intern(line)
	}
	return handles
}

// splitRecords tokenizes a descriptor into its raw key -> value-slice map.
// A descriptor is a sequence of `%KEY%\nvalue\n\n` records followed by a
// final "\n\n" trailer; both the trailer and each record's own "\n\n" are
// mandatory.
func splitRecords(data []byte) (map[string][]byte, error) {
	sep := []byte("\n\n")
	if !bytes.HasSuffix(data, sep) {
		return nil, fmt.Errorf("descriptor missing trailing blank line")
	}
	chunks := bytes.Split(data[:len(data)-len(sep)], sep)
	if len(chunks[len(chunks)-1]) != 0 {
		return nil, fmt.Errorf("last record is not terminated by a blank line")
	}
	chunks = chunks[:len(chunks)-1]

	fields := make(map[string][]byte, len(chunks))
	for _, chunk := range chunks {
		key, value, err := parseEntry(chunk)
		if err != nil {
			return nil, err
		}
		fields[key] = value
	}
	return fields, nil
}

// parseEntry parses a single `%KEY%\nvalue` chunk (the trailing "\n\n" has
// already been stripped by splitRecords).
func parseEntry(chunk []byte) (string, []byte, error) {
	if len(chunk) == 0 || chunk[0] != '%' {
		return "", nil, fmt.Errorf("record does not begin with '%%'")
	}
	end := bytes.IndexByte(chunk[1:], '%')
	if end < 0 {
		return "", nil, fmt.Errorf("unterminated record header")
	}
	end++ // absolute index of the closing '%' within chunk

	key := chunk[1:end]
	if len(key) == 0 || !isAlnumHeader(key) {
		return "", nil, fmt.Errorf("invalid record header %q", key)
	}
	if end+1 >= len(chunk) || chunk[end+1] != '\n' {
		return "", nil, fmt.Errorf("record header %%%s%% not followed by newline", key)
	}
	return string(key), chunk[end+2:], nil
}

func isAlnumHeader(b []byte) bool {
	for _, c := range b {
		alnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !alnum {
			return false
		}
	}
	return true
}
