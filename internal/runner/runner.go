// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/polctl/polctl/internal/backend"
	"github.com/polctl/polctl/internal/filter"
	"github.com/polctl/polctl/internal/log"
	"github.com/polctl/polctl/internal/policy"
	"github.com/polctl/polctl/internal/resource"
)

// ErrUnknownResource tags policies naming a resource type that is not
// registered.
var ErrUnknownResource = errors.New("unknown resource type")

// Runner executes policies against a backend. The filter registry is handed
// in at construction; nothing here is process-global.
type Runner struct {
	be  backend.Backend
	reg filter.Registry
}

// Result is the outcome of one policy run: the resources that passed every
// filter, in enumeration order.
type Result struct {
	Policy    policy.Policy
	Type      resource.Type
	Resources []resource.Resource
}

// New constructs a Runner.
func New(be backend.Backend, reg filter.Registry) *Runner {
	return &Runner{be: be, reg: reg}
}

// Validate checks a policy without running it: the resource type must be
// registered and every filter spec must build. Failures are aggregated so a
// policy author sees them all at once.
func (r *Runner) Validate(pol policy.Policy) ([]filter.Evaluator, error) {
	if _, ok := resource.Lookup(pol.Resource); !ok {
		return nil, fmt.Errorf("%w: %q in policy %q", ErrUnknownResource, pol.Resource, pol.Name)
	}

	var errs *multierror.Error
	evaluators := make([]filter.Evaluator, 0, len(pol.Filters))
	for i, spec := range pol.Filters {
		ev, err := r.reg.Build(spec)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("policy %q filter %d: %w", pol.Name, i, err))
			continue
		}
		evaluators = append(evaluators, ev)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return evaluators, nil
}

// Run executes one policy: validate, prepare, enumerate, filter. Validation
// happens strictly before enumeration so bad specs never cost a backend
// round trip. Filters are an AND chain in declaration order; a failing
// filter short-circuits the resource, but every resource is always
// enumerated and considered.
func (r *Runner) Run(ctx context.Context, pol policy.Policy) (*Result, error) {
	evaluators, err := r.Validate(pol)
	if err != nil {
		return nil, err
	}
	rt, _ := resource.Lookup(pol.Resource)

	// One memoized backend view per run, so batch lookups (the firewall-policy
	// listing in particular) are fetched at most once no matter how many
	// filters want them.
	be := backend.NewMemo(r.be)

	for _, ev := range evaluators {
		if err := ev.Prepare(ctx, be); err != nil {
			return nil, err
		}
	}

	doc, err := be.Resources(ctx, rt)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", rt.Name, err)
	}
	resources := resource.Parse(doc)
	log.Debugf("enumerated: type=%s count=%d", rt.Name, len(resources))

	result := &Result{Policy: pol, Type: rt}
	for _, res := range resources {
		passed := true
		for _, ev := range evaluators {
			if !ev.Match(res) {
				passed = false
				break
			}
		}
		if passed {
			result.Resources = append(result.Resources, res)
		}
	}

	log.Debugf("policy done: name=%s passed=%d of %d", pol.Name, len(result.Resources), len(resources))
	return result, nil
}
