// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polctl/polctl/internal/filter"
	"github.com/polctl/polctl/internal/policy"
	"github.com/polctl/polctl/internal/resource"
)

// countingBackend serves canned documents and records how often each listing
// is fetched.
type countingBackend struct {
	resources     map[string][]byte
	policies      []byte
	resourceCalls int
	policyCalls   int
}

func (b *countingBackend) Resources(ctx context.Context, rt resource.Type) ([]byte, error) {
	b.resourceCalls++
	return b.resources[rt.Name], nil
}

func (b *countingBackend) FirewallPolicies(ctx context.Context) ([]byte, error) {
	b.policyCalls++
	return b.policies, nil
}

func (b *countingBackend) String() string { return "counting" }

const gatewayDoc = `{
	"value": [
		{
			"id": "/subscriptions/s1/resourceGroups/rg1/providers/Microsoft.Network/applicationGateways/agw-a",
			"name": "agw-a",
			"location": "eastus",
			"properties": {}
		},
		{
			"id": "/subscriptions/s1/resourceGroups/rg1/providers/Microsoft.Network/applicationGateways/agw-b",
			"name": "agw-b",
			"location": "eastus",
			"properties": {
				"firewallPolicy": {"id": "/subscriptions/s1/resourceGroups/rg1/providers/Microsoft.Network/ApplicationGatewayWebApplicationFirewallPolicies/wafpol-b"}
			}
		},
		{
			"id": "/subscriptions/s1/resourceGroups/rg1/providers/Microsoft.Network/applicationGateways/agw-c",
			"name": "agw-c",
			"location": "westus",
			"properties": {
				"firewallPolicy": {"id": "/subscriptions/s1/resourceGroups/rg1/providers/Microsoft.Network/ApplicationGatewayWebApplicationFirewallPolicies/wafpol-c"}
			}
		}
	]
}`

const policyDoc = `{
	"value": [
		{
			"id": "/subscriptions/s1/resourceGroups/rg1/providers/Microsoft.Network/ApplicationGatewayWebApplicationFirewallPolicies/wafpol-b",
			"name": "wafpol-b",
			"properties": {
				"managedRules": {
					"managedRuleSets": [
						{
							"ruleGroupOverrides": [
								{"rules": [{"ruleId": "944240", "state": "Disabled"}]}
							]
						}
					]
				}
			}
		},
		{
			"id": "/subscriptions/s1/resourceGroups/rg1/providers/Microsoft.Network/ApplicationGatewayWebApplicationFirewallPolicies/wafpol-c",
			"name": "wafpol-c",
			"properties": {
				"managedRules": {
					"managedRuleSets": [
						{
							"ruleGroupOverrides": [
								{"rules": [{"ruleId": "944240", "state": "Enabled"}]}
							]
						}
					]
				}
			}
		}
	]
}`

func newCountingBackend() *countingBackend {
	return &countingBackend{
		resources: map[string][]byte{
			"application-gateway": []byte(gatewayDoc),
		},
		policies: []byte(policyDoc),
	}
}

func wafPolicy(name string) policy.Policy {
	return policy.Policy{
		Name:     name,
		Resource: "application-gateway",
		Filters: []policy.FilterSpec{
			{Type: "waf", Params: map[string]any{"override_rule": 944240, "state": "disabled"}},
		},
	}
}

func TestRunMatchesDisabledOverride(t *testing.T) {
	be := newCountingBackend()
	r := New(be, filter.DefaultRegistry())

	result, err := r.Run(context.Background(), wafPolicy("p1"))
	require.NoError(t, err)

	require.Len(t, result.Resources, 1)
	assert.Equal(t, "agw-b", result.Resources[0].Name())
	assert.Equal(t, "application-gateway", result.Type.Name)
}

func TestRunFetchesPolicyListingOnce(t *testing.T) {
	be := newCountingBackend()
	r := New(be, filter.DefaultRegistry())

	pol := wafPolicy("p1")
	// A second waf clause must not trigger a second listing fetch.
	pol.Filters = append(pol.Filters, policy.FilterSpec{
		Type:   "waf",
		Params: map[string]any{"override_rule": 944240, "state": "disabled"},
	})

	_, err := r.Run(context.Background(), pol)
	require.NoError(t, err)
	assert.Equal(t, 1, be.policyCalls)
	assert.Equal(t, 1, be.resourceCalls)
}

func TestRunValidatesBeforeEnumerating(t *testing.T) {
	be := newCountingBackend()
	r := New(be, filter.DefaultRegistry())

	pol := wafPolicy("p1")
	pol.Filters[0].Params = map[string]any{"state": "disabled"} // missing override_rule

	_, err := r.Run(context.Background(), pol)
	require.ErrorIs(t, err, filter.ErrInvalidSpec)
	assert.Zero(t, be.resourceCalls, "invalid spec must not cost an enumeration")
	assert.Zero(t, be.policyCalls)
}

func TestRunUnknownResourceType(t *testing.T) {
	be := newCountingBackend()
	r := New(be, filter.DefaultRegistry())

	pol := wafPolicy("p1")
	pol.Resource = "martian-gateway"

	_, err := r.Run(context.Background(), pol)
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestRunPreservesEnumerationOrder(t *testing.T) {
	be := newCountingBackend()
	r := New(be, filter.DefaultRegistry())

	pol := policy.Policy{
		Name:     "everything-in-order",
		Resource: "application-gateway",
		Filters: []policy.FilterSpec{
			{Type: "value", Params: map[string]any{"key": ".name", "op": "prefix", "value": "agw-"}},
		},
	}

	result, err := r.Run(context.Background(), pol)
	require.NoError(t, err)
	require.Len(t, result.Resources, 3)
	assert.Equal(t, "agw-a", result.Resources[0].Name())
	assert.Equal(t, "agw-b", result.Resources[1].Name())
	assert.Equal(t, "agw-c", result.Resources[2].Name())
}

func TestRunFilterChainIsAnd(t *testing.T) {
	be := newCountingBackend()
	r := New(be, filter.DefaultRegistry())

	pol := wafPolicy("p1")
	pol.Filters = append(pol.Filters, policy.FilterSpec{
		Type:   "value",
		Params: map[string]any{"key": ".location", "op": "eq", "value": "westus"},
	})

	// agw-b passes the waf clause but sits in eastus.
	result, err := r.Run(context.Background(), pol)
	require.NoError(t, err)
	assert.Empty(t, result.Resources)
}

func TestValidateAggregatesFilterErrors(t *testing.T) {
	r := New(nil, filter.DefaultRegistry())

	pol := policy.Policy{
		Name:     "doubly-broken",
		Resource: "application-gateway",
		Filters: []policy.FilterSpec{
			{Type: "nope", Params: map[string]any{}},
			{Type: "waf", Params: map[string]any{"state": "enabled"}},
		},
	}

	_, err := r.Validate(pol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter 0")
	assert.Contains(t, err.Error(), "filter 1")
}
