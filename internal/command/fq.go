// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/backend"
	"github.com/polctl/polctl/internal/config"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/output"
	"github.com/polctl/polctl/internal/resource"
)

// fqDefaultAttrs specifies the default attributes displayed for firewall
// policies in the "fq" command output.
var fqDefaultAttrs = []string{
	".name", ".location", ".resourceGroup",
	"policySettings.mode:mode", "policySettings.state:state",
}

// fqCommandAction is the action handler for the "fq" subcommand. It lists
// firewall policies through the same dedicated listing the waf filter
// consults, so what fq shows is exactly what a policy run sees.
func fqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "fq"

	if err := ResolveRoot(cmd, cmd.Args().Get(0)); err != nil {
		return err
	}

	evaluators, err := QuickFilters(cmd)
	if err != nil {
		return err
	}

	be, err := backend.NewBackend(ctx, cmd)
	if err != nil {
		return err
	}

	doc, err := be.FirewallPolicies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list firewall policies: %w", err)
	}

	var resources []resource.Resource
	for _, res := range resource.Parse(doc) {
		passed := true
		for _, ev := range evaluators {
			if !ev.Match(res) {
				passed = false
				break
			}
		}
		if passed {
			resources = append(resources, res)
		}
	}

	al := BuildAttrs(cmd, fqDefaultAttrs...)
	dataset := output.BuildDataset(resources, al)

	cmd.Metadata["footer"] = fmt.Sprintf("%d firewall policies", len(dataset))
	output.Spit(dataset, al, cmd, os.Stdout)

	return nil
}

// fqCommandBuilder constructs the "fq" subcommand.
func fqCommandBuilder(m meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "fq",
		Usage:     "firewall policy query",
		UsageText: "polctl fq [Root] [options]",
		Flags: []cli.Flag{
			passphraseFlag,
			NewRegionFlag("fq"),
		},
		Action: fqCommandAction,
		Meta:   m,
	}).Build()
}
