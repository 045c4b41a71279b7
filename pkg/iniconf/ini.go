// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package iniconf reads the permissive INI dialect pacman.conf and its
// repo files use: ';'-delimited statements packed onto one line, '#'
// comments, and an implicit empty-string section for anything preceding
// the first section header.
package iniconf

// Document is the parsed form of one INI-dialect file: a map of sections,
// each a set of keys, each holding the ordered list of values accumulated
// for that key in source order. The order of sections and of keys within a
// section is not kept.
type Document struct {
	Sections map[string]map[string][]string
}

func newDocument() *Document {
	return &Document{Sections: make(map[string]map[string][]string)}
}

func (d *Document) appendValue(section, key, value string) {
	s, ok := d.Sections[section]
	if !ok {
		s = make(map[string][]string)
		d.Sections[section] = s
	}
	s[key] = append(s[key], value)
}

// First returns the first accumulated value for section/key, if any.
func (d *Document) First(section, key string) (string, bool) {
	vals, ok := d.Sections[section][key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// All returns every accumulated value for section/key, in source order.
func (d *Document) All(section, key string) []string {
	return d.Sections[section][key]
}

func isHSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }
func isLineBreak(c byte) bool { return c == '\n' }
func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Parse reads the whole document s, returning the accumulated sections.
// Parse never fails: malformed fragments (a stray non-alphanumeric
// character where a key was expected) are skipped one byte at a time so
// parsing always makes forward progress, matching pacman's own
// permissive config reader.
func Parse(s string) *Document {
	d := newDocument()
	currentSection := ""
	i := 0
	n := len(s)

	skipToEOL := func() {
		for i < n && !isLineBreak(s[i]) {
			i++
		}
	}

	for i < n {
		// Skip blank lines and leading whitespace between statements.
		for i < n && (isHSpace(s[i]) || isLineBreak(s[i])) {
			i++
		}
		if i >= n {
			break
		}

		switch {
		case s[i] == '#':
			skipToEOL()

		case s[i] == '[':
			i++
			start := i
			for i < n && s[i] != ']' {
				i++
			}
			name := s[start:i]
			if i < n {
				i++ // consume ']'
			}
			skipToEOL()
			currentSection = name

		default:
			i = parseStatements(d, currentSection, s, i, n)
		}
	}
	return d
}

// parseStatements consumes one or more ';'-separated key[=value] statements
// up to the next newline, accumulating each into d under section.
func parseStatements(d *Document, section, s string, i, n int) int {
	skipHSpace := func() {
		for i < n && isHSpace(s[i]) {
			i++
		}
	}

	for {
		skipHSpace()
		if i >= n || s[i] == '\n' {
			return i
		}
		if s[i] == '#' {
			for i < n && s[i] != '\n' {
				i++
			}
			return i
		}

		keyStart := i
		for i < n && isAlnum(s[i]) {
			i++
		}
		key := s[keyStart:i]
		if key == "" {
			// Not a recognizable token; skip one byte to guarantee progress.
			i++
			continue
		}

		skipHSpace()
		if i < n && s[i] == '=' {
			i++
			skipHSpace()
			valStart := i
			for i < n && s[i] != '\n' && s[i] != ';' {
				i++
			}
			d.appendValue(section, key, s[valStart:i])
		}

		if i < n && s[i] == ';' {
			i++
			continue
		}
		return i
	}
}
