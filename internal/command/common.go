// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/snapdiff/internal/aws"
	"github.com/tfctl/snapdiff/internal/cacheutil"
	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/driller"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/meta"
	"github.com/tfctl/snapdiff/internal/source"
)

// ErrDifferent is returned by diff and delta under --exit-code when the
// snapshots differ.
var ErrDifferent = errors.New("snapshots differ")

// errNoSelection means the user left the picker without choosing.
var errNoSelection = errors.New("no snapshots selected")

// Seams for tests.
var (
	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	selectSnapshots = differ.SelectSnapshots
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// PreserveStdinArgs returns a copy of args with every bare "-" after the
// subcommand replaced by source.StdinArg, which the flag parser keeps as a
// positional argument.
func PreserveStdinArgs(args []string) []string {
	out := append([]string{}, args...)
	for i := 2; i < len(out); i++ {
		if out[i] == source.Stdin {
			out[i] = source.StdinArg
		}
	}
	return out
}

// snapshotArgs turns the positional arguments into a before and after spec.
// A lone directory argument picks two of its snapshots: interactively on a
// terminal, otherwise the two newest.
func snapshotArgs(cmd *cli.Command) (before string, after string, err error) {
	args := cmd.Args().Slice()
	switch {
	case len(args) == 2:
		return args[0], args[1], nil
	case len(args) == 1 && source.IsDir(args[0]):
		return pickSnapshots(args[0])
	default:
		return "", "", fmt.Errorf("expected BEFORE and AFTER snapshots or a directory, got %d arguments", len(args))
	}
}

func pickSnapshots(dir string) (string, string, error) {
	entries, err := source.List(dir)
	if err != nil {
		return "", "", fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(entries) < 2 {
		return "", "", fmt.Errorf("need at least two *.json snapshots in %s, found %d", dir, len(entries))
	}

	if !isTerminal() {
		log.Debugf("not a terminal, using the two newest snapshots in %s", dir)
		return entries[1].Path, entries[0].Path, nil
	}

	chosen, err := selectSnapshots(entries)
	if err != nil {
		return "", "", err
	}
	if len(chosen) != 2 {
		return "", "", errNoSelection
	}
	return chosen[0].Path, chosen[1].Path, nil
}

// loadSnapshots resolves and reads both snapshots and applies --root.
func loadSnapshots(ctx context.Context, cmd *cli.Command) ([]byte, []byte, error) {
	beforeSpec, afterSpec, err := snapshotArgs(cmd)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("snapshots: before=%s after=%s", beforeSpec, afterSpec)

	before, after, err := newLoader(cmd).LoadPair(ctx, beforeSpec, afterSpec)
	if err != nil {
		return nil, nil, err
	}

	root := cmd.String("root")
	if before, err = driller.Drill(before, root); err != nil {
		return nil, nil, fmt.Errorf("before: %w", err)
	}
	if after, err = driller.Drill(after, root); err != nil {
		return nil, nil, fmt.Errorf("after: %w", err)
	}
	return before, after, nil
}

func newLoader(cmd *cli.Command) *source.Loader {
	var stdin io.Reader = os.Stdin
	if r := cmd.Root().Reader; r != nil {
		stdin = r
	}

	l := &source.Loader{
		AWS:   awsOptions(cmd),
		Stdin: stdin,
	}

	if store, ok := cacheutil.Open(); ok {
		hours, _ := config.GetInt("cache.clean", 0)
		l.Cache = &store
		l.CacheMaxAge = time.Duration(hours) * time.Hour
	}
	return l
}

// awsOptions maps the s3 flags and config onto aws options. s3.path_style and
// s3.max_attempts are only read from the config file.
func awsOptions(cmd *cli.Command) []aws.Option {
	var opts []aws.Option
	if v := cmd.String("s3-profile"); v != "" {
		opts = append(opts, aws.WithProfile(v))
	}
	if v := cmd.String("s3-region"); v != "" {
		opts = append(opts, aws.WithRegion(v))
	}
	if v := cmd.String("s3-endpoint"); v != "" {
		opts = append(opts, aws.WithEndpoint(v))
	}

	pathStyle := cmd.Bool("s3-path-style")
	if !cmd.IsSet("s3-path-style") {
		pathStyle, _ = config.GetBool("s3.path_style", false)
	}
	if pathStyle {
		opts = append(opts, aws.WithPathStyle(true))
	}

	if attempts, _ := config.GetInt("s3.max_attempts", 0); attempts > 0 {
		opts = append(opts, aws.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), attempts)
		}))
	}
	return opts
}

// ignoredFields returns --ignore, falling back to the ignore key of the
// config file.
func ignoredFields(cmd *cli.Command) []string {
	if cmd.IsSet("ignore") {
		return cmd.StringSlice("ignore")
	}
	fields, _ := config.GetStringSlice("ignore", nil)
	return fields
}
