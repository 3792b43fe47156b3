// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyscope/pyscope/report"
	"github.com/pyscope/pyscope/resolve"
)

func (a *app) scopesCmd() *cobra.Command {
	var (
		asJSON   bool
		flags    bool
		closure  bool
		skipRefs bool
	)
	cmd := &cobra.Command{
		Use:   "scopes [flags] FILE...",
		Short: "Print the scope tree of each module",
		Long: `Print the scope tree of each module: for every scope, its variables,
free and cell variables, referenced globals and flags.

With --json, print the complete resolution instead, including the
variable that each occurrence of a name resolves to.

Examples:
  pyscope scopes m.py.yaml
  pyscope scopes --closure --flags=false m.py.yaml
  pyscope scopes --json m.py.yaml | jq '.references[] | select(.variable == null)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode resolve.Mode
			if skipRefs {
				mode |= resolve.SkipReferences
			}
			results, err := a.resolveFiles(cmd, args, mode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range results {
				if asJSON {
					data, err := report.MarshalJSON(r.Resolution, len(results) == 1)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\n", data)
					continue
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, report.Tree(r.Resolution, report.TreeOptions{Flags: flags, Closure: closure}))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the resolution as JSON (one object per line for several files).")
	cmd.Flags().BoolVar(&flags, "flags", true, "Show the flags of each scope.")
	cmd.Flags().BoolVar(&closure, "closure", false, "Show the closure variables of each scope.")
	cmd.Flags().BoolVar(&skipRefs, "skip-references", false, "Do not record the resolution of each occurrence.")
	return cmd
}
