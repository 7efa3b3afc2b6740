// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/config"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/output"
	"github.com/polctl/polctl/internal/resource"
)

// rqCommandAction is the action handler for the "rq" subcommand. It lists
// resources of the given type from the inventory root, optionally narrowed
// by --filter expressions.
func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "rq"

	name := cmd.Args().Get(0)
	if name == "" {
		return fmt.Errorf("usage: polctl rq <resource-type> [Root]")
	}
	rt, ok := resource.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown resource type %q (see 'polctl tq')", name)
	}

	if err := ResolveRoot(cmd, cmd.Args().Get(1)); err != nil {
		return err
	}

	resources, err := QueryResources(ctx, cmd, rt)
	if err != nil {
		return err
	}

	al := BuildAttrs(cmd, rt.ReportAttrs...)
	dataset := output.BuildDataset(resources, al)

	cmd.Metadata["footer"] = fmt.Sprintf("%d %s resources", len(dataset), rt.Name)
	output.Spit(dataset, al, cmd, os.Stdout)

	return nil
}

// rqCommandBuilder constructs the "rq" subcommand.
func rqCommandBuilder(m meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "rq",
		Usage:     "resource query",
		UsageText: "polctl rq <resource-type> [Root] [options]",
		Flags: []cli.Flag{
			passphraseFlag,
			NewRegionFlag("rq"),
		},
		Action: rqCommandAction,
		Meta:   m,
	}).Build()
}
