// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that diagnostics
// are reported in the appropriate places.
//
// A chunked file consists of several chunks of input text separated by
// "---" lines.  Each chunk is an input to the program under test, such
// as the resolver.  Lines containing "###" are interpreted as
// expectations of diagnostics: the following text is an optional
// severity, "error" or "warning", followed by a Go string literal
// denoting a regular expression that should match the message.
// A bare literal expects an error.
//
// Example, for a chunk holding a YAML-encoded syntax tree:
//
//	- _type: Global
//	  names: [x] ### warning "used prior to global declaration"
//	---
//	- _type: Nonlocal
//	  names: [y] ### "not allowed at module level"
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError or chunk.GotWarning for each diagnostic
// that actually occurred.  Any discrepancy between the actual and
// expected diagnostics is reported using the client's reporter, which
// is typically a testing.T.
package chunkedfile // import "github.com/pyscope/pyscope/internal/chunkedfile"

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const debug = false

// A Chunk is a portion of a source file.
// It contains a set of expected diagnostics.
type Chunk struct {
	Source   string
	filename string
	report   Reporter
	want     map[int][]expectation // by line
}

type expectation struct {
	severity string // "error" or "warning"
	rx       *regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Error messages of the form "file:line: ..." are prefixed
// by a newline so that the Go source position added by (*testing.T).Errorf
// appears on a separate line so as not to confuse editors.
func Read(filename string, report Reporter) (chunks []Chunk) {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}
	return readBytes(filename, data, report)
}

func readBytes(filename string, data []byte, report Reporter) (chunks []Chunk) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	linenum := 1
	for i, chunk := range strings.Split(text, "\n---\n") {
		if debug {
			fmt.Printf("chunk %d at line %d: %s\n", i, linenum, chunk)
		}
		// Pad with newlines so the line numbers match the original file.
		src := strings.Repeat("\n", linenum-1) + chunk

		want := make(map[int][]expectation)

		// Parse comments of the form:
		// ### [error|warning] "expected message".
		lines := strings.Split(chunk, "\n")
		for j := 0; j < len(lines); j, linenum = j+1, linenum+1 {
			line := lines[j]
			hashes := strings.Index(line, "###")
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len("###"):])
			severity := "error"
			for _, s := range []string{"error", "warning"} {
				if strings.HasPrefix(rest, s+" ") {
					severity, rest = s, strings.TrimSpace(rest[len(s):])
				}
			}
			pattern, err := strconv.Unquote(rest)
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, rest)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%d: %v", filename, linenum, err)
				continue
			}
			want[linenum] = append(want[linenum], expectation{severity, rx})
			if debug {
				fmt.Printf("\t%d\t%s %s\n", linenum, severity, rx)
			}
		}
		linenum++

		chunks = append(chunks, Chunk{src, filename, report, want})
	}
	return chunks
}

// GotError should be called by the client to report an error at a particular line.
// GotError reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(linenum int, msg string) { chunk.got(linenum, "error", msg) }

// GotWarning is like GotError, for warnings.
func (chunk *Chunk) GotWarning(linenum int, msg string) { chunk.got(linenum, "warning", msg) }

func (chunk *Chunk) got(linenum int, severity, msg string) {
	exps := chunk.want[linenum]
	for i, exp := range exps {
		if exp.severity != severity {
			continue
		}
		exps = append(exps[:i:i], exps[i+1:]...)
		if len(exps) == 0 {
			delete(chunk.want, linenum)
		} else {
			chunk.want[linenum] = exps
		}
		if !exp.rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%d: %s %q does not match pattern %q", chunk.filename, linenum, severity, msg, exp.rx)
		}
		return
	}
	chunk.report.Errorf("\n%s:%d: unexpected %s: %v", chunk.filename, linenum, severity, msg)
}

// Done should be called by the client to indicate that the chunk has no more diagnostics.
// Done reports expected diagnostics that did not occur to the chunk's reporter.
func (chunk *Chunk) Done() {
	for linenum, exps := range chunk.want {
		for _, exp := range exps {
			chunk.report.Errorf("\n%s:%d: expected %s matching %q", chunk.filename, linenum, exp.severity, exp.rx)
		}
	}
}
