// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// A Position describes the location of a rune of input.
// Line and Col are 1-based; the zero value is "unknown".
type Position struct {
	Line int32 // 1-based line number; 0 if line unknown
	Col  int32 // 1-based column (rune) number; 0 if column unknown
}

// MakePosition returns position with the specified components.
func MakePosition(line, col int32) Position { return Position{line, col} }

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.Line >= 1 }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	for _, r := range s {
		if r == '\n' {
			p.Line++
			p.Col = 1
		} else {
			p.Col++
		}
	}
	return p
}

func (p Position) String() string {
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%d:%d", p.Line, p.Col)
		}
		return fmt.Sprintf("%d", p.Line)
	}
	return "?"
}

// Before reports whether p precedes q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}
