// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/backend"
	"github.com/polctl/polctl/internal/config"
	"github.com/polctl/polctl/internal/filter"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/output"
	"github.com/polctl/polctl/internal/policy"
	"github.com/polctl/polctl/internal/runner"
)

// runCommandAction is the action handler for the "run" subcommand. It loads
// the policy file, validates every policy up front, then executes each policy
// against the resolved root and reports the matching resources.
func runCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "run"

	polPath := cmd.Args().Get(0)
	if polPath == "" {
		return fmt.Errorf("usage: polctl run <policy-file> [Root]")
	}

	file, err := policy.Load(polPath)
	if err != nil {
		return err
	}

	if err := ResolveRoot(cmd, cmd.Args().Get(1)); err != nil {
		return err
	}

	be, err := backend.NewBackend(ctx, cmd)
	if err != nil {
		return err
	}

	run := runner.New(be, filter.DefaultRegistry())

	// Validate every policy before touching the backend. A bad spec anywhere
	// in the file fails the whole run without an enumeration round trip.
	var verrs *multierror.Error
	for _, pol := range file.Policies {
		if _, err := run.Validate(pol); err != nil {
			verrs = multierror.Append(verrs, err)
		}
	}
	if err := verrs.ErrorOrNil(); err != nil {
		return err
	}

	var rerrs *multierror.Error
	for _, pol := range file.Policies {
		result, err := run.Run(ctx, pol)
		if err != nil {
			rerrs = multierror.Append(rerrs, fmt.Errorf("policy %q: %w", pol.Name, err))
			continue
		}

		cmd.Metadata["header"] = fmt.Sprintf("\nPolicy %s (%s):", pol.Name, result.Type.Name)
		cmd.Metadata["footer"] = fmt.Sprintf("%d matched", len(result.Resources))

		al := BuildAttrs(cmd, result.Type.ReportAttrs...)
		dataset := output.BuildDataset(result.Resources, al)
		output.Spit(dataset, al, cmd, os.Stdout)
	}

	return rerrs.ErrorOrNil()
}

// runCommandBuilder constructs the "run" subcommand.
func runCommandBuilder(m meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "run",
		Usage:     "run policies against an inventory root",
		UsageText: "polctl run <policy-file> [Root] [options]",
		Flags: []cli.Flag{
			passphraseFlag,
			NewRegionFlag("run"),
		},
		Action: runCommandAction,
		Meta:   m,
	}).Build()
}
