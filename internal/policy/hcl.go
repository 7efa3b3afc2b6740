// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
)

// hclFile mirrors the HCL policy layout:
//
//	policy "gateways-with-944240-disabled" {
//	  resource = "application-gateway"
//	  filter "waf" {
//	    override_rule = 944240
//	    state         = "disabled"
//	  }
//	}
type hclFile struct {
	Policies []hclPolicy `hcl:"policy,block"`
}

type hclPolicy struct {
	Name     string      `hcl:"name,label"`
	Resource string      `hcl:"resource"`
	Filters  []hclFilter `hcl:"filter,block"`
}

type hclFilter struct {
	Type   string   `hcl:"type,label"`
	Remain hcl.Body `hcl:",remain"`
}

// parseHCL decodes the HCL layout into the common File model. Filter bodies
// are free-form attribute sets; values are converted to plain Go values so
// the filter builders see the same shapes as with YAML.
func parseHCL(path string, data []byte) (*File, error) {
	var raw hclFile
	if err := hclsimple.Decode(path, data, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse policy HCL: %w", err)
	}

	file := &File{}
	for _, p := range raw.Policies {
		pol := Policy{Name: p.Name, Resource: p.Resource}
		for _, f := range p.Filters {
			attrs, diags := f.Remain.JustAttributes()
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid filter %q in policy %q: %s", f.Type, p.Name, diags.Error())
			}

			params := make(map[string]any, len(attrs))
			for name, attr := range attrs {
				val, valDiags := attr.Expr.Value(nil)
				if valDiags.HasErrors() {
					return nil, fmt.Errorf("invalid value for %q in policy %q: %s", name, p.Name, valDiags.Error())
				}
				params[name] = ctyToGo(val)
			}
			pol.Filters = append(pol.Filters, FilterSpec{Type: f.Type, Params: params})
		}
		file.Policies = append(file.Policies, pol)
	}

	return file, nil
}

// ctyToGo converts an HCL value into the plain Go shapes the YAML parser
// produces. HCL numbers come out as float64; the filter builders normalize
// numerics anyway.
func ctyToGo(v cty.Value) any {
	if v.IsNull() {
		return nil
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString()
	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case t == cty.Bool:
		return v.True()
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ctyToGo(ev))
		}
		return out
	case t.IsObjectType() || t.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			out[kv.AsString()] = ctyToGo(ev)
		}
		return out
	default:
		return nil
	}
}
