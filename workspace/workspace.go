// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workspace resolves many Python modules concurrently.
//
// Modules are independent: each is resolved by a single goroutine,
// and a bounded pool limits how many run at once. Cancellation is
// observed only between modules; a resolution, once started, runs to
// completion.
package workspace // import "github.com/pyscope/pyscope/workspace"

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pyscope/pyscope/resolve"
	"github.com/pyscope/pyscope/syntax"
)

const tracerName = "github.com/pyscope/pyscope/workspace"

// A Module is a decoded syntax tree and the path it was read from.
type Module struct {
	Path string
	File *syntax.File
}

// Options configures Load and BindAll.
// The zero value resolves Python 3.8 using GOMAXPROCS goroutines.
type Options struct {
	Version resolve.Version // default resolve.Python38
	Mode    resolve.Mode
	Jobs    int // maximum concurrency; default GOMAXPROCS

	Logger *logrus.Logger // default logrus.StandardLogger()
	Tracer trace.Tracer   // default: from the global TracerProvider

	// ReadFile reads an input file; default os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

func (opts *Options) version() resolve.Version {
	if opts.Version == (resolve.Version{}) {
		return resolve.Python38
	}
	return opts.Version
}

func (opts *Options) jobs() int {
	if opts.Jobs > 0 {
		return opts.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (opts *Options) logger() *logrus.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return logrus.StandardLogger()
}

func (opts *Options) tracer() trace.Tracer {
	if opts.Tracer != nil {
		return opts.Tracer
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (opts *Options) readFile(path string) ([]byte, error) {
	if opts.ReadFile != nil {
		return opts.ReadFile(path)
	}
	return os.ReadFile(path)
}

// A Result is the outcome of resolving one module.
// Resolution is nil if the module was never started.
type Result struct {
	Module
	Resolution  *resolve.Resolution
	Diagnostics resolve.ErrorList // sorted by position
}

// Load reads and decodes the named syntax tree dumps concurrently.
// It returns the modules in the order of paths, or the first error
// in that order.
func Load(ctx context.Context, paths []string, opts Options) ([]Module, error) {
	ctx, span := opts.tracer().Start(ctx, "workspace.Load",
		trace.WithAttributes(attribute.Int("pyscope.modules", len(paths))))
	defer span.End()

	modules := make([]Module, len(paths))
	errs := make([]error, len(paths))
	p := pool.New().WithMaxGoroutines(opts.jobs())
	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			data, err := opts.readFile(path)
			if err != nil {
				errs[i] = err
				return
			}
			f, err := syntax.Decode(path, data)
			if err != nil {
				errs[i] = err
				return
			}
			modules[i] = Module{Path: path, File: f}
		})
	}
	p.Wait()

	for _, err := range errs {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}
	return modules, nil
}

// BindAll resolves each module, at most opts.Jobs at a time, and
// returns the results in the order of modules.
//
// The context is checked before each module is started. If it has
// been cancelled, the remaining modules are skipped, and BindAll
// returns the partial results with an error wrapping ctx.Err().
func BindAll(ctx context.Context, modules []Module, opts Options) ([]Result, error) {
	version := opts.version()
	log := opts.logger()
	tracer := opts.tracer()

	ctx, span := tracer.Start(ctx, "workspace.BindAll", trace.WithAttributes(
		attribute.Int("pyscope.modules", len(modules)),
		attribute.String("pyscope.python_version", version.String()),
	))
	defer span.End()

	results := make([]Result, len(modules))
	skipped := make([]bool, len(modules))
	p := pool.New().WithMaxGoroutines(opts.jobs())
	for i, m := range modules {
		i, m := i, m
		results[i].Module = m
		p.Go(func() {
			if ctx.Err() != nil {
				skipped[i] = true
				return
			}
			results[i] = bind(ctx, tracer, log, m, version, opts.Mode)
		})
	}
	p.Wait()

	n := 0
	for _, skip := range skipped {
		if skip {
			n++
		}
	}
	if n > 0 {
		err := fmt.Errorf("%d of %d modules not resolved: %w", n, len(modules), ctx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return results, err
	}
	return results, nil
}

func bind(ctx context.Context, tracer trace.Tracer, log *logrus.Logger, m Module, version resolve.Version, mode resolve.Mode) Result {
	_, span := tracer.Start(ctx, "resolve.File", trace.WithAttributes(attribute.String("pyscope.module", m.Path)))
	defer span.End()

	var diags resolve.ErrorList
	res := resolve.File(m.File, version, &diags, mode)
	diags.Sort()

	nerrs := len(diags.Errors())
	span.SetAttributes(
		attribute.Int("pyscope.scopes", len(res.Scopes)),
		attribute.Int("pyscope.errors", nerrs),
		attribute.Int("pyscope.warnings", len(diags)-nerrs),
	)
	if nerrs > 0 {
		span.SetStatus(codes.Error, diags.Errors().Error())
	}
	log.WithFields(logrus.Fields{
		"module":   m.Path,
		"scopes":   len(res.Scopes),
		"errors":   nerrs,
		"warnings": len(diags) - nerrs,
	}).Debug("resolved")

	return Result{Module: m, Resolution: res, Diagnostics: diags}
}

// Summary returns the number of errors and warnings in results.
func Summary(results []Result) (errors, warnings int) {
	for _, r := range results {
		for _, d := range r.Diagnostics {
			if d.Severity == resolve.Warning {
				warnings++
			} else {
				errors++
			}
		}
	}
	return errors, warnings
}
