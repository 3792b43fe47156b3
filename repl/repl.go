// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides an interactive query loop over the
// resolution of a Python module.
//
// It supports readline-style command editing and completion.
// Control-C abandons the current line; Control-D exits.
// Type "help" for the list of commands.
package repl // import "github.com/pyscope/pyscope/repl"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/pyscope/pyscope/internal/spell"
	"github.com/pyscope/pyscope/report"
	"github.com/pyscope/pyscope/resolve"
)

// ErrQuit is returned by Session.Exec for the quit command.
var ErrQuit = errors.New("quit")

// REPL runs the query loop on the terminal until end of input.
func REPL(res *resolve.Resolution, diags resolve.ErrorList) error {
	sess := &Session{Res: res, Diags: diags, Out: os.Stdout}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "pyscope> ",
		AutoComplete: sess.completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if err := sess.Exec(line); err == ErrQuit {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	fmt.Println()
	return nil
}

// A Session answers queries about one resolution.
type Session struct {
	Res   *resolve.Resolution
	Diags resolve.ErrorList
	Out   io.Writer
}

type command struct {
	args  string
	help  string
	nargs [2]int // minimum and maximum
	run   func(s *Session, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"scopes": {"", "show the scope tree", [2]int{0, 0}, (*Session).scopes},
		"scope":  {"NAME", "describe the first scope named NAME", [2]int{1, 1}, (*Session).scope},
		"lookup": {"NAME [SCOPE]", "show what NAME denotes in SCOPE (default: the module)", [2]int{1, 2}, (*Session).lookup},
		"refs":   {"NAME", "list the occurrences of NAME", [2]int{1, 1}, (*Session).refs},
		"at":     {"LINE", "show the innermost scope and the references on LINE", [2]int{1, 1}, (*Session).at},
		"diags":  {"", "list the scoping diagnostics", [2]int{0, 0}, (*Session).diags},
		"help":   {"", "list the commands", [2]int{0, 0}, (*Session).help},
		"quit":   {"", "exit", [2]int{0, 0}, func(*Session, []string) error { return ErrQuit }},
	}
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exec executes one command line. Blank lines are ignored.
func (s *Session) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q%s", name, suggest(name, commandNames()))
	}
	if len(args) < cmd.nargs[0] || len(args) > cmd.nargs[1] {
		return fmt.Errorf("usage: %s %s", name, cmd.args)
	}
	return cmd.run(s, args)
}

func (s *Session) completer() *readline.PrefixCompleter {
	var scopes []readline.PrefixCompleterInterface
	seen := make(map[string]bool)
	for _, sc := range s.Res.Scopes {
		if !seen[sc.Name] {
			seen[sc.Name] = true
			scopes = append(scopes, readline.PcItem(sc.Name))
		}
	}
	var items []readline.PrefixCompleterInterface
	for _, name := range commandNames() {
		if name == "scope" {
			items = append(items, readline.PcItem(name, scopes...))
		} else {
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func suggest(x string, candidates []string) string {
	if n := spell.Nearest(x, candidates); n != "" {
		return fmt.Sprintf("; did you mean %s?", n)
	}
	return ""
}

// findScope returns the first scope, in pre-order, with the given name.
func (s *Session) findScope(name string) (*resolve.Scope, error) {
	if name == "<module>" || name == "module" {
		return s.Res.Module, nil
	}
	var names []string
	for _, sc := range s.Res.Scopes {
		if sc.Name == name {
			return sc, nil
		}
		names = append(names, sc.Name)
	}
	return nil, fmt.Errorf("no scope named %s%s", name, suggest(name, names))
}

func (s *Session) scopes(args []string) error {
	_, err := fmt.Fprintln(s.Out, report.Tree(s.Res, report.TreeOptions{Flags: true}))
	return err
}

func (s *Session) scope(args []string) error {
	sc, err := s.findScope(args[0])
	if err != nil {
		return err
	}
	w := s.Out
	fmt.Fprintln(w, sc)
	if sc.Parent != nil {
		fmt.Fprintf(w, "  parent:    %s\n", sc.Parent)
	}
	for _, v := range sc.Variables {
		fmt.Fprintf(w, "  variable:  %s\n", v)
	}
	printVars(w, "free:     ", sc.FreeVariables)
	printVars(w, "cell:     ", sc.CellVariables)
	printVars(w, "closure:  ", sc.ClosureVariables)
	if len(sc.ReferencedGlobals) > 0 {
		fmt.Fprintf(w, "  globals:   %s\n", strings.Join(sc.ReferencedGlobals, " "))
	}
	if flags := report.ScopeFlags(sc); len(flags) > 0 {
		fmt.Fprintf(w, "  flags:     %s\n", strings.Join(flags, " "))
	}
	return nil
}

func printVars(w io.Writer, label string, vars []*resolve.Variable) {
	if len(vars) == 0 {
		return
	}
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	fmt.Fprintf(w, "  %s %s\n", label, strings.Join(names, " "))
}

func (s *Session) lookup(args []string) error {
	name := args[0]
	sc := s.Res.Module
	if len(args) > 1 {
		var err error
		if sc, err = s.findScope(args[1]); err != nil {
			return err
		}
	}
	for _, ref := range s.Res.References() {
		if ref.Scope == sc && ref.Name == name {
			fmt.Fprintln(s.Out, describe(ref))
			return nil
		}
	}
	if v := sc.LookupLocal(name); v != nil {
		fmt.Fprintf(s.Out, "%s -> %s\n", name, v)
		return nil
	}
	var names []string
	for _, v := range sc.Variables {
		names = append(names, v.Name)
	}
	return fmt.Errorf("%s does not occur in %s%s", name, sc, suggest(name, names))
}

// describe returns a one-line account of the resolution of ref.
func describe(ref *resolve.Reference) string {
	switch {
	case ref.Variable != nil:
		return fmt.Sprintf("%s -> %s", ref.Name, ref.Variable)
	case ref.Target() != nil:
		return fmt.Sprintf("%s -> class namespace (%s)", ref.Name, ref.Target())
	default:
		return fmt.Sprintf("%s -> late-bound", ref.Name)
	}
}

func (s *Session) refs(args []string) error {
	n := 0
	for _, ref := range s.Res.References() {
		if ref.Name == args[0] {
			fmt.Fprintf(s.Out, "%s: in %s: %s\n", ref.Ident.NamePos, ref.Scope, describe(ref))
			n++
		}
	}
	if n == 0 {
		return fmt.Errorf("no references to %s", args[0])
	}
	return nil
}

func (s *Session) at(args []string) error {
	line, err := strconv.Atoi(args[0])
	if err != nil || line < 1 {
		return fmt.Errorf("invalid line %q", args[0])
	}
	inner, depth := s.Res.Module, 0
	for _, sc := range s.Res.Scopes[1:] {
		start, end := sc.Node.Span()
		if int(start.Line) <= line && line <= int(end.Line) {
			if d := depthOf(sc); d > depth {
				inner, depth = sc, d
			}
		}
	}
	fmt.Fprintf(s.Out, "scope: %s\n", inner)
	for _, ref := range s.Res.References() {
		if int(ref.Ident.NamePos.Line) == line {
			fmt.Fprintf(s.Out, "  %s: %s\n", ref.Ident.NamePos, describe(ref))
		}
	}
	return nil
}

func depthOf(sc *resolve.Scope) int {
	d := 0
	for ; sc.Parent != nil; sc = sc.Parent {
		d++
	}
	return d
}

func (s *Session) diags(args []string) error {
	if len(s.Diags) == 0 {
		fmt.Fprintln(s.Out, "no diagnostics")
		return nil
	}
	for _, d := range s.Diags {
		fmt.Fprintf(s.Out, "%s: %s: %s\n", d.Pos, d.Severity, d.Msg)
	}
	return nil
}

func (s *Session) help(args []string) error {
	for _, name := range commandNames() {
		cmd := commands[name]
		usage := strings.TrimSpace(name + " " + cmd.args)
		fmt.Fprintf(s.Out, "  %-22s %s\n", usage, cmd.help)
	}
	return nil
}
