// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/polctl/polctl/internal/backend"
	"github.com/polctl/polctl/internal/log"
	"github.com/polctl/polctl/internal/resource"
)

// valueOps are the comparison semantics supported by the value filter.
var valueOps = map[string]bool{
	"eq":       true,
	"ne":       true,
	"like":     true,
	"prefix":   true,
	"contains": true,
	"regex":    true,
	"gt":       true,
	"lt":       true,
}

// Value is a generic attribute filter: resolve a drill path against the
// resource and compare it with the target value.
//
// Parameters:
//   - key: drill path into the resource (required). Keys resolve under
//     .properties unless prefixed with '.', which anchors them at the root
//     (.name, .location, .resourceGroup).
//   - op: one of eq, ne, like, prefix, contains, regex, gt, lt (default eq)
//   - value: target to compare against (required)
//   - negate: invert the outcome (optional)
type Value struct {
	key    string
	op     string
	negate bool
	target string
	re     *regexp.Regexp
}

// NewValue validates the value filter parameters and returns its evaluator.
func NewValue(params map[string]any) (Evaluator, error) {
	key, ok := stringParam(params, "key")
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: value filter requires a key", ErrInvalidSpec)
	}

	// Same key convention as report attrs: a leading '.' anchors at the
	// resource root, everything else is relative to .properties where ARM
	// nests the configuration.
	if strings.HasPrefix(key, ".") {
		key = key[1:]
	} else {
		key = "properties." + key
	}

	op := "eq"
	if v, ok := params["op"]; ok {
		op, _ = v.(string)
	}
	if !valueOps[op] {
		return nil, fmt.Errorf("%w: unsupported value filter op %q", ErrInvalidSpec, op)
	}

	raw, ok := params["value"]
	if !ok {
		return nil, fmt.Errorf("%w: value filter requires a value", ErrInvalidSpec)
	}
	var target string
	switch v := raw.(type) {
	case string:
		target = v
	case bool:
		target = strconv.FormatBool(v)
	default:
		if n, ok := toFloat64(raw); ok {
			target = strconv.FormatFloat(n, 'f', -1, 64)
		} else {
			return nil, fmt.Errorf("%w: value filter value must be a scalar", ErrInvalidSpec)
		}
	}

	negate := false
	if v, ok := params["negate"]; ok {
		negate, _ = v.(bool)
	}
	if op == "ne" {
		op = "eq"
		negate = !negate
	}

	f := &Value{key: key, op: op, negate: negate, target: target}

	// Compile regexes at validation time so malformed patterns fail the run
	// before any enumeration.
	if op == "regex" {
		re, err := regexp.Compile(target)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid regex %q: %v", ErrInvalidSpec, target, err)
		}
		f.re = re
	}

	return f, nil
}

// Prepare is a no-op; the value filter needs nothing from the backend.
func (f *Value) Prepare(ctx context.Context, be backend.Backend) error {
	return nil
}

// Match resolves the key against the resource and applies the op. A missing
// or non-scalar value simply doesn't match.
func (f *Value) Match(r resource.Resource) bool {
	value := r.Field(f.key)
	if value == nil {
		return false
	}

	var result bool
	if s, ok := value.(string); ok {
		result = f.checkString(s)
	} else if b, ok := value.(bool); ok {
		result = f.checkString(strconv.FormatBool(b))
	} else if num, ok := toFloat64(value); ok {
		result = f.checkNumeric(num)
	} else if f.op == "contains" {
		result = f.checkMembership(value)
	} else {
		log.Tracef("unsupported value type: key=%s type=%T", f.key, value)
		return false
	}

	return result
}

// checkString evaluates a string comparison using the op semantics.
func (f *Value) checkString(value string) bool {
	switch f.op {
	case "eq":
		return (value == f.target) == !f.negate
	case "like":
		return strings.EqualFold(value, f.target) == !f.negate
	case "prefix":
		return strings.HasPrefix(value, f.target) == !f.negate
	case "contains":
		return strings.Contains(value, f.target) == !f.negate
	case "regex":
		return f.re.MatchString(value) == !f.negate
	case "gt":
		return (value > f.target) == !f.negate
	case "lt":
		return (value < f.target) == !f.negate
	default:
		return false
	}
}

// checkNumeric compares a numeric value against the target using numeric
// semantics. Ops without a numeric meaning fall back to string semantics on
// the formatted value.
func (f *Value) checkNumeric(value float64) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(f.target), 64)
	if err != nil {
		return f.checkString(strconv.FormatFloat(value, 'f', -1, 64))
	}

	switch f.op {
	case "eq":
		return (value == tgt) == !f.negate
	case "gt":
		return (value > tgt) == !f.negate
	case "lt":
		return (value < tgt) == !f.negate
	default:
		return f.checkString(strconv.FormatFloat(value, 'f', -1, 64))
	}
}

// checkMembership evaluates contains against slice or map values.
func (f *Value) checkMembership(value interface{}) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprintf("%v", item) == f.target {
				return !f.negate
			}
		}
		return f.negate
	case map[string]any:
		_, found := val[f.target]
		if f.negate {
			return !found
		}
		return found
	default:
		log.Tracef("unsupported type for contains: type=%T", value)
		return false
	}
}
