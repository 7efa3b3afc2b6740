// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/attrs"
	"github.com/polctl/polctl/internal/backend"
	"github.com/polctl/polctl/internal/filter"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/resource"
	"github.com/polctl/polctl/internal/util"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ResolveRoot parses the root argument (or falls back to the starting
// directory) and stores the result in command metadata for the backend
// resolution to pick up.
func ResolveRoot(cmd *cli.Command, root string) error {
	m := GetMeta(cmd)

	if root == "" {
		root = m.StartingDir
	}

	spec, err := util.ParseRoot(root)
	if err != nil {
		return fmt.Errorf("failed to parse root (%s): %w", root, err)
	}

	m.RootSpec = spec
	cmd.Metadata["meta"] = m
	return nil
}

// QuickFilters builds value evaluators from the --filter expression string.
// Expressions that fail validation abort the command.
func QuickFilters(cmd *cli.Command) ([]filter.Evaluator, error) {
	reg := filter.DefaultRegistry()

	specs := filter.BuildSpecs(cmd.String("filter"))
	evaluators := make([]filter.Evaluator, 0, len(specs))
	for _, spec := range specs {
		ev, err := reg.Build(spec)
		if err != nil {
			return nil, err
		}
		evaluators = append(evaluators, ev)
	}
	return evaluators, nil
}

// QueryResources is the shared enumerate-and-filter path behind the query
// commands: resolve the backend, list the resource type, and keep the
// resources that pass every quick filter.
func QueryResources(ctx context.Context, cmd *cli.Command, rt resource.Type) ([]resource.Resource, error) {
	evaluators, err := QuickFilters(cmd)
	if err != nil {
		return nil, err
	}

	be, err := backend.NewBackend(ctx, cmd)
	if err != nil {
		return nil, err
	}

	memo := backend.NewMemo(be)
	for _, ev := range evaluators {
		if err := ev.Prepare(ctx, memo); err != nil {
			return nil, err
		}
	}

	doc, err := memo.Resources(ctx, rt)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", rt.Name, err)
	}

	var results []resource.Resource
	for _, res := range resource.Parse(doc) {
		passed := true
		for _, ev := range evaluators {
			if !ev.Match(res) {
				passed = false
				break
			}
		}
		if passed {
			results = append(results, res)
		}
	}

	return results, nil
}
