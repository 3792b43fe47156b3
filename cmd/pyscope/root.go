// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// An app holds the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	log     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logrus.New()}
	root := &cobra.Command{
		Use:   "pyscope",
		Short: "Resolve the names of Python modules",
		Long: `pyscope binds every name in a Python module to the variable it denotes,
following the scoping rules of the selected Python version, and reports
scoping errors such as a nonlocal declaration with no binding.

Input files are syntax tree dumps in YAML or JSON: the output of Python's
ast module, each node a mapping whose _type key names the node class.
A file name of "-" reads from standard input.

Getting started:
  pyscope scopes m.py.yaml          Print the scope tree
  pyscope check *.yaml              Report scoping errors and warnings
  pyscope check --python 2.7 -     Check a dump read from stdin
  pyscope repl m.py.yaml            Query a module interactively

Configuration:
  Flags may also be set in $HOME/.pyscope.yaml (or --config FILE) and
  through PYSCOPE_* environment variables, e.g. PYSCOPE_PYTHON=2.7.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.pyscope.yaml)")
	pf.String("python", "3.8", "Python `version` whose scoping rules apply")
	pf.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	pf.BoolP("verbose", "v", false, "log progress to stderr")
	pf.IntP("jobs", "j", 0, "maximum number of modules resolved at once (default GOMAXPROCS)")
	bindFlags(a.v, pf, "python", "color", "verbose", "jobs")

	root.AddCommand(
		a.scopesCmd(),
		a.checkCmd(),
		a.replCmd(),
		versionCmd(),
	)
	return root
}

// bindFlags makes the named flags of fs the defaults of the
// corresponding keys of v.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
