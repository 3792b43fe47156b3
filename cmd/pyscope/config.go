// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyscope/pyscope/report"
	"github.com/pyscope/pyscope/resolve"
	"github.com/pyscope/pyscope/workspace"
)

// initConfig reads the config file and environment, and sets up logging.
func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".pyscope")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("pyscope")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	a.log.SetLevel(logrus.WarnLevel)
	if a.v.GetBool("verbose") {
		a.log.SetLevel(logrus.DebugLevel)
	}
	if f := a.v.ConfigFileUsed(); f != "" && a.cfgFile == "" {
		a.log.WithField("file", f).Debug("using config file")
	}
	return nil
}

func (a *app) options() (workspace.Options, error) {
	pyver, err := resolve.ParseVersion(a.v.GetString("python"))
	if err != nil {
		return workspace.Options{}, err
	}
	return workspace.Options{
		Version: pyver,
		Jobs:    a.v.GetInt("jobs"),
		Logger:  a.log,
	}, nil
}

func (a *app) colorMode() (report.ColorMode, error) {
	return report.ParseColorMode(a.v.GetString("color"))
}

// resolveFiles loads and resolves the named dumps; "-" is standard input.
func (a *app) resolveFiles(cmd *cobra.Command, paths []string, mode resolve.Mode) ([]workspace.Result, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	opts.Mode = mode

	stdin := 0
	for _, path := range paths {
		if path == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return nil, errors.New("standard input (-) named more than once")
	}
	in := cmd.InOrStdin()
	opts.ReadFile = func(path string) ([]byte, error) {
		if path == "-" {
			return io.ReadAll(in)
		}
		return os.ReadFile(path)
	}

	ctx := cmd.Context()
	a.log.WithFields(logrus.Fields{
		"files":  len(paths),
		"python": opts.Version,
	}).Debug("loading")
	modules, err := workspace.Load(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	return workspace.BindAll(ctx, modules, opts)
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
