// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads snapdiff's optional YAML configuration file and offers
// typed accessors over dotted key paths. The file is looked up at
// SNAPDIFF_CFG_FILE, then in the user's configuration directory:
//   - Linux/macOS: $XDG_CONFIG_HOME/snapdiff.yaml or $HOME/.config/snapdiff.yaml
//   - Windows: %APPDATA%/snapdiff.yaml
//
// A typical file:
//
//	zone: Europe/Kyiv
//	diff:
//	  output: text
//	  ignore: [updated_at]
//	cache:
//	  clean: 72
//	s3:
//	  region: eu-central-1
package config
