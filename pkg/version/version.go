// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package version decomposes pacman-style version strings
// (`[epoch:]main[-pkgrel]`) and totally orders them to match the reference
// alpm/rpm vercmp behavior.
package version

import "strconv"

// segmentKind distinguishes a numeric segment from an alphabetic one.
// Numeric segments compare greater than alphabetic segments at the same
// position — see DESIGN.md's Open Questions log for why.
type segmentKind uint8

const (
	kindAlpha segmentKind = iota
	kindNumeric
)

// segment is one tokenized piece of a main or pkgrel component.
type segment struct {
	kind segmentKind
	text string // valid when kind == kindAlpha
	num  uint64 // valid when kind == kindNumeric
}

func compareSegment(a, b segment) int {
	if a.kind != b.kind {
		if a.kind == kindNumeric {
			return 1
		}
		return -1
	}
	if a.kind == kindNumeric {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	}
	if a.text < b.text {
		return -1
	}
	if a.text > b.text {
		return 1
	}
	return 0
}

// compareSegments implements the lexicographic order of §4.5: segment by
// segment using compareSegment, and a shorter prefix is strictly less than
// a longer one that starts with it.
func compareSegments(a, b []segment) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareSegment(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Version is the decomposed (epoch, main, pkgrel) triple of §4.5.
type Version struct {
	HasEpoch bool
	Epoch    uint64
	Main     []segment
	HasRel   bool
	Pkgrel   []segment
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }

// tokenize splits s into segments per §4.5 step 3: repeatedly consume one
// maximal run of letters OR one maximal run of digits, then at most one
// following non-alphanumeric separator (discarded).
func tokenize(s string) []segment {
	var segs []segment
	i := 0
	for i < len(s) {
		start := i
		if isDigit(s[i]) {
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			n, err := strconv.ParseUint(s[start:i], 10, 64)
			if err != nil {
				// Overflow: treat as an alphabetic segment rather than
				// failing, since the comparator must never reject a
				// well-formed-looking version (spec.md §7).
				segs = append(segs, segment{kind: kindAlpha, text: s[start:i]})
			} else {
				segs = append(segs, segment{kind: kindNumeric, num: n})
			}
		} else if isAlpha(s[i]) {
			for i < len(s) && isAlpha(s[i]) {
				i++
			}
			segs = append(segs, segment{kind: kindAlpha, text: s[start:i]})
		} else {
			// A lone separator with no letters/digits before it: skip it
			// as a zero-width boundary so tokenize always makes progress.
			i++
			continue
		}
		if i < len(s) && !isAlnum(s[i]) {
			i++ // discard exactly one separator
		}
	}
	return segs
}

// Decompose splits a version string into its (epoch, main, pkgrel) triple
// following spec.md §4.5.
func Decompose(s string) Version {
	var v Version

	if idx := indexByte(s, ':'); idx >= 0 && isAllDigits(s[:idx]) && idx > 0 {
		if n, err := strconv.ParseUint(s[:idx], 10, 64); err == nil {
			v.HasEpoch = true
			v.Epoch = n
			s = s[idx+1:]
		}
	}

	main := s
	if idx := lastIndexByte(s, '-'); idx >= 0 {
		main = s[:idx]
		v.HasRel = true
		v.Pkgrel = tokenize(s[idx+1:])
	}
	v.Main = tokenize(main)
	return v
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func lastIndexByte(s string, c byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// Compare totally orders two decomposed versions per spec.md §4.5: epoch
// first (absent treated as 0), then Main, then Pkgrel (absent compares
// less than any present Pkgrel; absent == absent).
func Compare(a, b Version) int {
	ea, eb := uint64(0), uint64(0)
	if a.HasEpoch {
		ea = a.Epoch
	}
	if b.HasEpoch {
		eb = b.Epoch
	}
	if ea != eb {
		if ea < eb {
			return -1
		}
		return 1
	}

	if c := compareSegments(a.Main, b.Main); c != 0 {
		return c
	}

	switch {
	case !a.HasRel && !b.HasRel:
		return 0
	case !a.HasRel && b.HasRel:
		return -1
	case a.HasRel && !b.HasRel:
		return 1
	default:
		return compareSegments(a.Pkgrel, b.Pkgrel)
	}
}

// Ordering mirrors spec.md §4.5's three-valued comparator result.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// Cmp is the public comparator named in spec.md §6: versioncmp(a, b).
func Cmp(a, b string) Ordering {
	return Ordering(Compare(Decompose(a), Decompose(b)))
}
