// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/meta"
	"github.com/tfctl/snapdiff/internal/output"
)

// diffCommandAction is the action handler for the "diff" subcommand. It loads
// both snapshots, computes the metadata and candidate diff and renders the
// result.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	config.Config.Namespace = "diff"

	before, after, err := loadSnapshots(ctx, cmd)
	if errors.Is(err, errNoSelection) {
		return nil
	}
	if err != nil {
		return err
	}

	d, err := differ.New(cmd.String("zone"), differ.WithIgnoredFields(ignoredFields(cmd)...))
	if err != nil {
		return err
	}

	result, err := d.DiffJSON(before, after)
	if err != nil {
		return err
	}

	opts := output.Options{
		Format:  cmd.String("output"),
		Color:   cmd.Bool("color"),
		Titles:  cmd.Bool("titles"),
		Padding: cmd.Int("padding"),
	}
	if err := output.Render(cmd.Root().Writer, result, opts); err != nil {
		return err
	}

	if cmd.Bool("exit-code") && !result.Empty() {
		return ErrDifferent
	}
	return nil
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action handlers.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "diff metadata and candidates of two snapshots",
		UsageText: "snapdiff diff BEFORE AFTER [options]\nsnapdiff diff DIR [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(
			NewSnapshotFlags("diff", meta.ConfigFile()),
			NewDiffFlags("diff", meta.ConfigFile())...,
		),
		Action: diffCommandAction,
	}
}
