// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/polctl/polctl/internal/backend"
	"github.com/polctl/polctl/internal/log"
	"github.com/polctl/polctl/internal/resource"
)

// Waf matches application gateways whose referenced firewall policy carries a
// managed-rule override in the requested state.
//
// Parameters:
//   - override_rule: numeric managed rule id (required)
//   - state: rule state, restricted to "disabled" (required)
type Waf struct {
	overrideRule int64
	state        string

	// policies is hoisted once per run in Prepare. Matching per resource is
	// pure lookup after that.
	policies []resource.Resource
}

// NewWaf validates the waf filter parameters and returns its evaluator.
func NewWaf(params map[string]any) (Evaluator, error) {
	var errs *multierror.Error

	rule, ok := numberParam(params, "override_rule")
	if !ok {
		errs = multierror.Append(errs,
			fmt.Errorf("%w: waf filter requires a numeric override_rule", ErrInvalidSpec))
	}

	state, ok := stringParam(params, "state")
	switch {
	case !ok:
		errs = multierror.Append(errs,
			fmt.Errorf("%w: waf filter requires a state", ErrInvalidSpec))
	case !strings.EqualFold(state, "disabled"):
		errs = multierror.Append(errs,
			fmt.Errorf("%w: waf filter state must be \"disabled\", got %q", ErrInvalidSpec, state))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Waf{overrideRule: int64(rule), state: state}, nil
}

// Prepare fetches the full firewall-policy set once for the run. Without the
// hoist this lookup would be O(resources x policies) network calls.
func (w *Waf) Prepare(ctx context.Context, be backend.Backend) error {
	doc, err := be.FirewallPolicies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list firewall policies: %w", err)
	}
	w.policies = resource.Parse(doc)
	log.Debugf("waf prepare: policies=%d", len(w.policies))
	return nil
}

// Match reports whether the resource references a firewall policy with an
// override rule in the requested state. The rule id compare is numeric, the
// state compare is case-insensitive. Any gap in the nested structure is a
// non-match, never an error.
func (w *Waf) Match(r resource.Resource) bool {
	ref := r.Get("properties.firewallPolicy.id")
	if !ref.Exists() {
		return false
	}

	// The id compare is exact. Duplicate policy ids are not expected from the
	// backend; the first match wins.
	var pol resource.Resource
	found := false
	for _, p := range w.policies {
		if p.ID() == ref.String() {
			pol = p
			found = true
			break
		}
	}
	if !found {
		return false
	}

	// The matching rule can sit in any rule set or group, so the whole
	// structure is walked until one hits.
	for _, ruleSet := range pol.Get("properties.managedRules.managedRuleSets").Array() {
		for _, group := range ruleSet.Get("ruleGroupOverrides").Array() {
			for _, rule := range group.Get("rules").Array() {
				if rule.Get("ruleId").Int() == w.overrideRule &&
					strings.EqualFold(rule.Get("state").String(), w.state) {
					return true
				}
			}
		}
	}

	return false
}
