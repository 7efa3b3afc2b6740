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

	"github.com/polctl/polctl/internal/attrs"
	"github.com/polctl/polctl/internal/config"
	"github.com/polctl/polctl/internal/filter"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/output"
	"github.com/polctl/polctl/internal/policy"
	"github.com/polctl/polctl/internal/runner"
)

// validateCommandAction is the action handler for the "validate" subcommand.
// It checks every policy in the file without touching any backend, reporting
// all failures rather than stopping at the first.
func validateCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "validate"

	polPath := cmd.Args().Get(0)
	if polPath == "" {
		return fmt.Errorf("usage: polctl validate <policy-file>")
	}

	file, err := policy.Load(polPath)
	if err != nil {
		return err
	}

	run := runner.New(nil, filter.DefaultRegistry())

	var errs *multierror.Error
	dataset := make([]map[string]interface{}, 0, len(file.Policies))
	for _, pol := range file.Policies {
		status := "ok"
		if _, err := run.Validate(pol); err != nil {
			errs = multierror.Append(errs, err)
			status = "invalid"
		}
		dataset = append(dataset, map[string]interface{}{
			"name":     pol.Name,
			"resource": pol.Resource,
			"filters":  float64(len(pol.Filters)),
			"status":   status,
		})
	}

	al := attrs.AttrList{}
	//nolint:errcheck
	al.Set(".name,.resource,.filters,.status")

	cmd.Metadata["header"] = fmt.Sprintf("\n%s:", polPath)
	output.Spit(dataset, al, cmd, os.Stdout)

	return errs.ErrorOrNil()
}

// validateCommandBuilder constructs the "validate" subcommand.
func validateCommandBuilder(m meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "validate",
		Usage:     "validate a policy file",
		UsageText: "polctl validate <policy-file> [options]",
		Action:    validateCommandAction,
		Meta:      m,
	}).Build()
}
