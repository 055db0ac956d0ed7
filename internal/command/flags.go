// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/output"
)

// NewSnapshotFlags returns the flags shared by every command that reads a
// pair of snapshots. ns and path namespace the config file sources; an empty
// path leaves them out.
func NewSnapshotFlags(ns string, path string) []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.EnvVars("SNAPDIFF_COLOR"),
			Value:   false,
		},
		&cli.StringSliceFlag{
			Name:    "ignore",
			Aliases: []string{"i"},
			Usage:   "metadata fields to skip, comma-separated or repeated",
			Sources: cli.EnvVars("SNAPDIFF_IGNORE"),
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "dot path of the snapshot inside each input document",
			Sources: cli.EnvVars("SNAPDIFF_ROOT"),
		}),
	}
	flags = append(flags, NewS3Flags(path)...)
	return flags
}

// NewDiffFlags returns the flags specific to the diff command.
func NewDiffFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "exit-code",
			Usage: "exit with status 3 when the snapshots differ",
			Value: false,
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.EnvVars("SNAPDIFF_OUTPUT"),
			Value:   output.FormatText,
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		}),
		&cli.IntFlag{
			Name:    "padding",
			Aliases: []string{"p"},
			Usage:   "left padding between text columns",
			Value:   2,
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "zone",
			Aliases: []string{"z"},
			Usage:   "time zone dates are normalized into",
			Sources: cli.EnvVars("SNAPDIFF_ZONE"),
			Value:   differ.DefaultZone,
			Validator: func(value string) error {
				return FlagValidators(value, ZoneValidator)
			},
		}),
	}
}

// NewS3Flags returns the flags that tune access to s3:// snapshots. Their
// config file keys live under s3 regardless of the command.
func NewS3Flags(path string) []cli.Flag {
	return []cli.Flag{
		ValueChainFlagFromConfigFile(path, &cli.StringFlag{
			Name:    "s3-profile",
			Usage:   "AWS shared config profile for s3:// snapshots",
			Sources: cli.EnvVars("SNAPDIFF_S3_PROFILE"),
		}, "s3.profile"),
		ValueChainFlagFromConfigFile(path, &cli.StringFlag{
			Name:    "s3-region",
			Usage:   "AWS region for s3:// snapshots",
			Sources: cli.EnvVars("SNAPDIFF_S3_REGION"),
		}, "s3.region"),
		ValueChainFlagFromConfigFile(path, &cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "custom S3 endpoint URL, e.g. a MinIO server",
			Sources: cli.EnvVars("SNAPDIFF_S3_ENDPOINT"),
		}, "s3.endpoint"),
		&cli.BoolFlag{
			Name:    "s3-path-style",
			Usage:   "use path-style S3 addressing",
			Sources: cli.EnvVars("SNAPDIFF_S3_PATH_STYLE"),
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	keys := []string{flag.Name}
	if ns != "" {
		keys = []string{ns + "." + flag.Name, flag.Name}
	}
	return ValueChainFlagFromConfigFile(path, flag, keys...)
}

// ValueChainFlagFromConfigFile appends a config file source for each key, in
// order, to flag's Sources chain. An empty path leaves flag unchanged.
func ValueChainFlagFromConfigFile(path string, flag *cli.StringFlag, keys ...string) *cli.StringFlag {
	if path == "" {
		return flag
	}
	for _, key := range keys {
		flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	}
	return flag
}
