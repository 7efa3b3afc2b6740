// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/polctl/polctl/internal/config"
)

// RootSpec holds the resolved inventory root. Exactly one of Dir or the
// Bucket/Prefix pair is populated, per the Kind.
type RootSpec struct {
	// Kind is "local" or "s3".
	Kind   string
	Dir    string
	Bucket string
	Prefix string
}

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the resolved inventory root, and the starting
// working directory.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	RootSpec
	StartingDir string
}
