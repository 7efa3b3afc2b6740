// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/attrs"
	"github.com/polctl/polctl/internal/config"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/output"
	"github.com/polctl/polctl/internal/resource"
)

// tqCommandAction is the action handler for the "tq" subcommand. It lists the
// registered resource types, their ARM provider types and the snapshot export
// each one reads.
func tqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "tq"

	types := resource.All()
	dataset := make([]map[string]interface{}, 0, len(types))
	for _, t := range types {
		dataset = append(dataset, map[string]interface{}{
			"name":     t.Name,
			"provider": t.Provider,
			"export":   t.Export + ".json",
		})
	}

	al := attrs.AttrList{}
	//nolint:errcheck
	{
		al.Set(".name,.provider,.export")
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
	}

	output.Spit(dataset, al, cmd, os.Stdout)

	return nil
}

// tqCommandBuilder constructs the "tq" subcommand.
func tqCommandBuilder(m meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "tq",
		Usage:     "type query",
		UsageText: "polctl tq [options]",
		Action:    tqCommandAction,
		Meta:      m,
	}).Build()
}
