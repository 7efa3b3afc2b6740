// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/meta"
)

// QueryCommandBuilder is a helper that constructs a cli.Command for the
// subcommands using a consistent pattern. It accepts the command name, usage
// text, optional UsageText, custom flags, the action handler, and meta. The
// builder automatically wires metadata and applies global flags.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags:  append(qcb.Flags, NewGlobalFlags()...),
		Action: qcb.Action,
	}
}
