// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The pyscope command resolves the names of Python modules.
//
// Its input is a syntax tree dump, in YAML or JSON, as produced by
// Python's ast module. It can print the scope tree of a module,
// report scoping errors, or answer queries interactively.
package main // import "github.com/pyscope/pyscope/cmd/pyscope"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	os.Exit(doMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// An exitError carries the exit status of a command.
// A nil err means the command has already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// doMain runs the command line args and returns the exit status:
// 0 on success, 1 if errors were reported, and 2 for a bad
// invocation or unreadable input.
func doMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintf(stderr, "pyscope: %v\n", ee.err)
			}
			return ee.code
		}
		fmt.Fprintf(stderr, "pyscope: %v\n", err)
		return 2
	}
	return 0
}
