// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resource

import "sort"

// Type describes a registered resource type: the short name used in policy
// files, the ARM provider type, the snapshot document the backends read, and
// the default report attributes.
type Type struct {
	Name        string
	Provider    string
	Export      string
	ReportAttrs []string
}

// FirewallPolicyType is the type consulted by WAF filtering. It is registered
// like any other type so it can also be queried directly.
const FirewallPolicyType = "firewall-policy"

// types is the registry consulted by the runner and the query commands. It is
// package data, not process-mutable state; additions happen here.
var types = map[string]Type{
	"application-gateway": {
		Name:        "application-gateway",
		Provider:    "Microsoft.Network/applicationGateways",
		Export:      "applicationGateways",
		ReportAttrs: []string{".name", ".location", ".resourceGroup"},
	},
	FirewallPolicyType: {
		Name:        FirewallPolicyType,
		Provider:    "Microsoft.Network/ApplicationGatewayWebApplicationFirewallPolicies",
		Export:      "firewallPolicies",
		ReportAttrs: []string{".name", ".location", ".resourceGroup"},
	},
	"load-balancer": {
		Name:        "load-balancer",
		Provider:    "Microsoft.Network/loadBalancers",
		Export:      "loadBalancers",
		ReportAttrs: []string{".name", ".location", ".resourceGroup", ".sku.name:sku"},
	},
	"public-ip": {
		Name:        "public-ip",
		Provider:    "Microsoft.Network/publicIPAddresses",
		Export:      "publicIPAddresses",
		ReportAttrs: []string{".name", ".location", ".resourceGroup", "ipAddress"},
	},
}

// Lookup returns the registered Type for a short name.
func Lookup(name string) (Type, bool) {
	t, ok := types[name]
	return t, ok
}

// All returns every registered type sorted by name.
func All() []Type {
	result := make([]Type, 0, len(types))
	for _, t := range types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
