// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pyscope/pyscope/report"
	"github.com/pyscope/pyscope/resolve"
	"github.com/pyscope/pyscope/workspace"
)

func (a *app) checkCmd() *cobra.Command {
	var (
		asJSON   bool
		warnings bool
	)
	cmd := &cobra.Command{
		Use:   "check [flags] FILE...",
		Short: "Report scoping errors and warnings",
		Long: `Report the scoping errors and warnings of each module.

Errors are violations of the scoping rules that Python itself rejects,
such as a nonlocal declaration with no binding, or a parameter that is
also declared global. Warnings flag declarations that follow a use of
the same name.

When the dump file is named after the Python source, as in m.py.yaml,
and m.py exists, the offending source line is shown.

Exit codes:
  0  No errors (warnings alone do not fail)
  1  One or more errors were reported
  2  Bad invocation (invalid flags, unreadable or undecodable files)

Examples:
  pyscope check m.py.yaml
  pyscope check --warnings=false *.yaml
  pyscope check --json --python 2.7 legacy/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := a.colorMode()
			if err != nil {
				return err
			}
			results, err := a.resolveFiles(cmd, args, resolve.SkipReferences)
			if err != nil {
				return err
			}
			if !warnings {
				for i := range results {
					results[i].Diagnostics = results[i].Diagnostics.Errors()
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := diagnosticsJSON(results)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", data)
			} else if err := renderDiagnostics(out, color, results); err != nil {
				return err
			}

			if nerrs, _ := workspace.Summary(results); nerrs > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output diagnostics as a JSON array.")
	cmd.Flags().BoolVar(&warnings, "warnings", true, "Report warnings as well as errors.")
	return cmd
}

func renderDiagnostics(out io.Writer, color report.ColorMode, results []workspace.Result) error {
	r := &report.Renderer{
		Color:  color,
		Width:  report.TerminalWidth(out, 0),
		Source: pythonSource,
	}
	n := 0
	for _, res := range results {
		if len(res.Diagnostics) == 0 {
			continue
		}
		if n > 0 {
			fmt.Fprintln(out)
		}
		if err := r.RenderAll(out, displayName(res.Path), res.Diagnostics); err != nil {
			return err
		}
		n++
	}
	if n == 0 {
		return nil
	}
	nerrs, nwarns := workspace.Summary(results)
	_, err := fmt.Fprintf(out, "\n%s, %s\n", plural(nerrs, "error"), plural(nwarns, "warning"))
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// pythonSource returns the source of the module whose dump is at path,
// found by removing the dump's file extension.
func pythonSource(path string) ([]byte, error) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if strings.HasSuffix(path, ext) {
			return os.ReadFile(strings.TrimSuffix(path, ext))
		}
	}
	return nil, fmt.Errorf("%s: not a syntax tree dump", path)
}

func diagnosticsJSON(results []workspace.Result) ([]byte, error) {
	var diags []interface{}
	for _, r := range results {
		for _, d := range r.Diagnostics {
			m := map[string]interface{}{
				"path":     displayName(r.Path),
				"severity": d.Severity.String(),
				"line":     int64(d.Pos.Line),
				"col":      int64(d.Pos.Col),
				"message":  d.Msg,
			}
			if d.End.IsValid() {
				m["endLine"] = int64(d.End.Line)
				m["endCol"] = int64(d.End.Col)
			}
			diags = append(diags, m)
		}
	}
	list, err := structpb.NewList(diags)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(list)
}
