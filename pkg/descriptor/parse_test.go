// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

package descriptor

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	alpmerrors "github.com/archgo/alpmgo/internal/errors"
	"github.com/archgo/alpmgo/pkg/pool"
)

func minimalDescriptor(extra string) string {
	var b strings.Builder
	b.WriteString("%BASE%\nfoo\n\n")
	b.WriteString("%NAME%\nfoo\n\n")
	b.WriteString("%VERSION%\n1.0-1\n\n")
	b.WriteString("%ARCH%\nx86_64\n\n")
	b.WriteString("%PACKAGER%\nSomeone <someone@example.com>\n\n")
	b.WriteString("%DESC%\na test package\n\n")
	b.WriteString("%URL%\nhttps://example.com\n\n")
	b.WriteString("%LICENSE%\nMIT\n\n")
	b.WriteString("%BUILDDATE%\n1700000000000\n\n")
	b.WriteString(extra)
	b.WriteString("\n\n")
	return b.String()
}

func TestParseMinimalRecord(t *testing.T) {
	p := pool.New()
	pkg, err := Parse(p, []byte(minimalDescriptor("")), false)
	require.NoError(t, err)
	require.Equal(t, "foo", p.Resolve(pkg.Base))
	require.Equal(t, "foo", p.Resolve(pkg.Name))
	require.Equal(t, "1.0-1", p.Resolve(pkg.Version))
	require.Equal(t, ArchX86_64, pkg.Arch)
	require.Equal(t, []pool.Handle{p.InternString("MIT")}, pkg.License)
	require.Equal(t, uint64(1700000000000), pkg.BuildDate)
	require.False(t, pkg.HasInstallDate)
}

func TestParseMissingRequiredFieldIsFatal(t *testing.T) {
	p := pool.New()
	data := "%BASE%\nfoo\n\n\n\n" // no NAME, etc.
	_, err := Parse(p, []byte(data), false)
	require.Error(t, err)
	var userErr *alpmerrors.UserError
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, alpmerrors.ExitSchema, userErr.ExitCode)
}

func TestParseMissingTrailerIsFatal(t *testing.T) {
	p := pool.New()
	data := "%BASE%\nfoo\n" // no blank-line trailer at all
	_, err := Parse(p, []byte(data), false)
	require.Error(t, err)
}

func TestParseOptionalFields(t *testing.T) {
	p := pool.New()
	extra := "%REASON%\n1\n\n%INSTALLDATE%\n1700000001000\n\n%ISIZE%\n4096\n\n%CSIZE%\n2048\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	require.True(t, pkg.HasReason)
	require.Equal(t, uint8(1), pkg.Reason)
	require.True(t, pkg.HasInstallDate)
	require.Equal(t, uint64(1700000001000), pkg.InstallDate)
	require.True(t, pkg.HasISize)
	require.Equal(t, uint64(4096), pkg.ISize)
	require.True(t, pkg.HasCSize)
	require.Equal(t, uint64(2048), pkg.CSize)
}

func TestParseLegacySizeKey(t *testing.T) {
	p := pool.New()
	extra := "%SIZE%\n8192\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	require.True(t, pkg.HasISize)
	require.Equal(t, uint64(8192), pkg.ISize)
}

func TestParseDependencyLists(t *testing.T) {
	p := pool.New()
	extra := "%DEPENDS%\nglibc\nbash\n\n%PROVIDES%\nfoo-lib\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	require.Len(t, pkg.Depends, 2)
	require.Equal(t, "glibc", p.Resolve(pkg.Depends[0]))
	require.Equal(t, "bash", p.Resolve(pkg.Depends[1]))
	require.Len(t, pkg.Provides, 1)
}

func TestParseReplacesExcludesOwnName(t *testing.T) {
	p := pool.New()
	extra := "%REPLACES%\nfoo\nbar\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	_, hasFoo := pkg.Replaces[pkg.Name]
	require.False(t, hasFoo)
	_, hasBar := pkg.Replaces[p.InternString("bar")]
	require.True(t, hasBar)
}

func TestParseValidationTakesFirstEntry(t *testing.T) {
	p := pool.New()
	extra := "%VALIDATION%\nmd5\nsha256\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	require.True(t, pkg.HasValidation)
	require.Equal(t, ValidationMd5, pkg.Validation)
}

func TestParseUnknownArchIsFatal(t *testing.T) {
	p := pool.New()
	data := strings.Replace(minimalDescriptor(""), "x86_64", "sparc", 1)
	_, err := Parse(p, []byte(data), false)
	require.Error(t, err)
}

func TestParseDigestRoundTrip(t *testing.T) {
	p := pool.New()
	raw := make([]byte, 24)
	for i := range raw {
		raw[i] = byte(i)
	}
	encoded := base64.RawStdEncoding.EncodeToString(raw)
	extra := "%MD5SUM%\n" + encoded + "\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	require.True(t, pkg.HasMD5Sum)
	require.Equal(t, raw, pkg.MD5Sum[:])
}

func TestParseBadDigestIsFatal(t *testing.T) {
	p := pool.New()
	extra := "%MD5SUM%\nnot-valid-base64!!\n\n"
	_, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.Error(t, err)
}

func TestParseXData(t *testing.T) {
	p := pool.New()
	extra := "%XDATA%\npkgtype=debug\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	require.True(t, pkg.HasXData)
	require.Equal(t, XDataDebug, pkg.XData)
}

func TestParseCheckedModeRejectsUnknownField(t *testing.T) {
	p := pool.New()
	extra := "%NOTAREALFIELD%\nwhatever\n\n"
	_, err := Parse(p, []byte(minimalDescriptor(extra)), true)
	require.Error(t, err)

	_, err = Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err) // unchecked mode tolerates schema drift
}

func TestParseMultilineValueWithInternalNewline(t *testing.T) {
	p := pool.New()
	extra := "%OPTDEPENDS%\nfoo: for extra stuff\nbar: for other stuff\n\n"
	pkg, err := Parse(p, []byte(minimalDescriptor(extra)), false)
	require.NoError(t, err)
	require.Len(t, pkg.OptDepends, 2)
	require.Equal(t, "foo: for extra stuff", p.Resolve(pkg.OptDepends[0]))
}
