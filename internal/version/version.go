// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other snapdiff packages to avoid import cycles.

package version

import "runtime/debug"

// Version is the module version stamped by `go install`, or "dev" for local
// builds.
var Version = func() string {
	return fromBuildInfo(debug.ReadBuildInfo())
}()

func fromBuildInfo(info *debug.BuildInfo, ok bool) string {
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
