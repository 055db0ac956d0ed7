// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tfctl/snapdiff/internal/command"
	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/version"
)

// Exit codes.
const (
	exitOK        = 0
	exitInit      = 1
	exitRun       = 2
	exitDifferent = 3
)

// boolFlags are the flags that never take a value. deduplicateFlags needs
// them to tell a positional snapshot argument from a flag value.
var boolFlags = map[string]bool{
	"c":             true,
	"color":         true,
	"exit-code":     true,
	"h":             true,
	"help":          true,
	"s3-path-style": true,
	"t":             true,
	"titles":        true,
	"v":             true,
	"version":       true,
}

// sliceFlags accumulate across occurrences, so deduplicateFlags keeps every
// one of them.
var sliceFlags = map[string]bool{
	"i":      true,
	"ignore": true,
}

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(w io.Writer, args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Fprintln(w, version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// hasHelp reports whether --help or -h appears anywhere.
func hasHelp(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

// expandSet replaces the first @name argument after the subcommand with the
// entries of the config list <subcommand>.<name>. Each entry is split on
// whitespace, so "--output json" becomes two arguments.
func expandSet(args []string) []string {
	if len(args) < 3 {
		return args
	}

	for i := 2; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "@") || len(args[i]) == 1 {
			continue
		}
		entries, err := config.GetStringSlice(args[1] + "." + args[i][1:])
		if err != nil {
			log.Warnf("unknown argument set %s: %v", args[i], err)
			entries = nil
		}
		return injectEntries(append(args[:i:i], args[i+1:]...), entries, i)
	}
	return args
}

// injectEntries splices the whitespace-split entries into args at idx.
func injectEntries(args []string, entries []string, idx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:idx]...)
	out = append(out, expanded...)
	return append(out, args[idx:]...)
}

// deduplicateFlags drops earlier occurrences of a repeated flag so the last
// one wins, which lets explicit flags override those injected by a set.
// --name=value and --name value count as the same flag. Slice flags are
// never dropped.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		name  string
		parts []string
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "-" || !strings.HasPrefix(a, "-") {
			tokens = append(tokens, token{parts: []string{a}})
			continue
		}

		name := strings.TrimLeft(a, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			tokens = append(tokens, token{name: name[:eq], parts: []string{a}})
			continue
		}

		if !boolFlags[name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			tokens = append(tokens, token{name: name, parts: []string{a, args[i+1]}})
			i++
			continue
		}
		tokens = append(tokens, token{name: name, parts: []string{a}})
	}

	last := map[string]int{}
	for i, tk := range tokens {
		if tk.name != "" && !sliceFlags[tk.name] {
			last[tk.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, tk := range tokens {
		if j, ok := last[tk.name]; ok && j != i {
			continue
		}
		out = append(out, tk.parts...)
	}
	return out
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string, stdout io.Writer, stderr io.Writer) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		log.Debugf("app init err: err=%v", err)
		return exitInit
	}
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, command.ErrDifferent) {
			return exitDifferent
		}
		fmt.Fprintln(stderr, err)
		log.Debugf("app run err: err=%v", err)
		return exitRun
	}

	return exitOK
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	log.Debugf("args captured: args=%v", args)

	if handleVersion(stdout, args) {
		return exitOK
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip argument processing and let the CLI
	// handle it.
	if !hasHelp(args) {
		args = deduplicateFlags(expandSet(args))
		log.Debugf("args after processing: args=%v", args)
	}
	args = command.PreserveStdinArgs(args)

	return initAndRunApp(args, stdout, stderr)
}

func realMain() int {
	log.InitLogger()
	return run(os.Args, os.Stdout, os.Stderr)
}
