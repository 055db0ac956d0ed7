// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/snapdiff/internal/config"
)

// Meta contains runtime metadata shared by commands: the raw CLI arguments,
// the loaded configuration, the root context and the working directory at
// startup.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}

// ConfigFile returns the path of the loaded config file, or "" when none was
// found.
func (m Meta) ConfigFile() string {
	return m.Config.Source
}
