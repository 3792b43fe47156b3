// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spell suggests names for misspelled identifiers
// ("no scope named fo; did you mean foo?").
package spell // import "github.com/pyscope/pyscope/internal/spell"

import (
	"sort"
	"strings"
	"unicode"
)

// Nearest returns the element of candidates nearest to x using the
// Levenshtein metric, or "" if none is close enough.
func Nearest(x string, candidates []string) string {
	if s := Suggestions(x, candidates, 1); len(s) > 0 {
		return s[0]
	}
	return ""
}

// Suggestions returns up to n candidates close to x, nearest first.
// Case and underscores are ignored when matching, and at most half
// of the characters of x may differ.
func Suggestions(x string, candidates []string, n int) []string {
	type match struct {
		name string
		d    int
	}
	x = fold(x)
	limit := (len(x) + 1) / 2
	var matches []match
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		if d := distance(x, fold(c), limit); d < limit {
			matches = append(matches, match{c, d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].d != matches[j].d {
			return matches[i].d < matches[j].d
		}
		return matches[i].name < matches[j].name
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

func fold(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// distance returns the Levenshtein edit distance between the byte
// strings x and y. Once every entry of a row exceeds max, it returns
// early with an approximate value greater than max.
func distance(x, y string, max int) int {
	if len(x) > len(y) {
		x, y = y, x
	}
	for len(x) > 0 && x[0] == y[0] {
		x, y = x[1:], y[1:]
	}
	if x == "" {
		return len(y)
	}

	// A single row suffices: row[j] holds the distance between the
	// current prefix of x and y[:j].
	row := make([]int, len(y)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(x); i++ {
		diag := row[0]
		row[0] = i
		best := i
		for j := 1; j <= len(y); j++ {
			cost := diag
			if x[i-1] != y[j-1] {
				cost++
			}
			diag = row[j]
			row[j] = minInt(cost, minInt(row[j-1], row[j])+1)
			best = minInt(best, row[j])
		}
		if best > max {
			return best
		}
	}
	return row[len(y)]
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}
