// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyscope/pyscope/repl"
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl FILE",
		Short: "Query the resolution of a module interactively",
		Long: `Start an interactive session over the resolution of one module.

Type "help" for the list of commands. Control-C abandons the current
line; Control-D or "quit" exits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return errors.New("repl reads commands from standard input; name a file")
			}
			results, err := a.resolveFiles(cmd, args, 0)
			if err != nil {
				return err
			}
			r := results[0]
			nerrs := len(r.Diagnostics.Errors())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scopes, %s, %s (Python %s)\n",
				r.Path, len(r.Resolution.Scopes),
				plural(nerrs, "error"), plural(len(r.Diagnostics)-nerrs, "warning"),
				r.Resolution.Version)
			return repl.REPL(r.Resolution, r.Diagnostics)
		},
	}
}
