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
)

// deltaCommandAction is the action handler for the "delta" subcommand. It
// prints every difference between the two whole documents.
func deltaCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	config.Config.Namespace = "delta"

	before, after, err := loadSnapshots(ctx, cmd)
	if errors.Is(err, errNoSelection) {
		return nil
	}
	if err != nil {
		return err
	}

	changed, err := differ.Delta(cmd.Root().Writer, before, after, differ.DeltaOptions{
		Ignore: ignoredFields(cmd),
		Color:  cmd.Bool("color"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("exit-code") && changed {
		return ErrDifferent
	}
	return nil
}

// deltaCommandBuilder constructs the cli.Command for "delta".
func deltaCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "delta",
		Usage:     "show every difference between two whole snapshots",
		UsageText: "snapdiff delta BEFORE AFTER [options]\nsnapdiff delta DIR [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(NewSnapshotFlags("delta", meta.ConfigFile()),
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "exit with status 3 when the snapshots differ",
				Value: false,
			},
		),
		Action: deltaCommandAction,
	}
}
