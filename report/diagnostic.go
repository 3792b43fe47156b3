// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/pyscope/pyscope/resolve"
)

// A Renderer formats diagnostics as annotated source snippets:
//
//	error: no binding for nonlocal 'y' found
//	  --> m.py:3:18
//	   |
//	 3 |          nonlocal y
//	   |                   ^
//	   |
type Renderer struct {
	Color ColorMode

	// Width is the column at which long messages are wrapped;
	// zero means no wrapping.
	Width int

	// Source returns the Python source of the named file, for
	// display. If nil, or if it fails, only the location is shown.
	Source func(path string) ([]byte, error)
}

// Render writes a single diagnostic about the named file to w.
func (r *Renderer) Render(w io.Writer, path string, d resolve.Diagnostic) error {
	p := choosePalette(r.Color, w)
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	r.writeSnippet(ew, path, d, p)

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes diags to w, separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, path string, diags []resolve.Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, path, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter records the first write error and discards later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err == nil {
		_, ew.err = fmt.Fprintf(ew.w, format, args...)
	}
}

func (r *Renderer) writeHeader(ew *errWriter, d resolve.Diagnostic, p palette) {
	color := p.boldRed
	if d.Severity == resolve.Warning {
		color = p.yellow
	}
	label := d.Severity.String()
	msg := d.Msg
	if r.Width > 0 {
		// Continuation lines align with the start of the message.
		indent := strings.Repeat(" ", len(label)+2)
		wrapped := wordwrap.String(msg, r.Width-len(indent))
		msg = strings.ReplaceAll(wrapped, "\n", "\n"+indent)
	}
	ew.printf("%s%s%s%s: %s%s%s\n", color, p.bold, label, p.reset, p.bold, msg, p.reset)
}

func (r *Renderer) writeSnippet(ew *errWriter, path string, d resolve.Diagnostic, p palette) {
	loc := path
	if d.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%s", path, d.Pos)
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source, ok := r.sourceLine(path, int(d.Pos.Line))
	if !ok {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}
	num := strconv.Itoa(int(d.Pos.Line))
	pad := strings.Repeat(" ", len(num))

	col := int(d.Pos.Col)
	if col < 1 {
		col = 1
	}
	end := col
	if d.End.Line == d.Pos.Line && int(d.End.Col) > col {
		end = int(d.End.Col) - 1 // End is exclusive
	}
	if col > len(source)+1 {
		col = len(source) + 1
	}
	if end > len(source) {
		end = len(source)
	}
	if end < col {
		end = col
	}

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, num, p.reset, source)
	ew.printf(" %s%s |%s  %s%s%s%s\n", p.boldBlue, pad, p.reset,
		blank(source[:col-1]), p.boldRed, strings.Repeat("^", end-col+1), p.reset)
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

// sourceLine returns the specified 1-based line of the named file.
func (r *Renderer) sourceLine(path string, line int) (string, bool) {
	if r.Source == nil || line < 1 {
		return "", false
	}
	data, err := r.Source(path)
	if err != nil {
		return "", false
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; sc.Scan(); i++ {
		if i == line {
			return sc.Text(), true
		}
	}
	return "", false
}

// blank replaces each character of s other than a tab with a space,
// so that an underline beneath s lines up with the source.
func blank(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, s)
}
