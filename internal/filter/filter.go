// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/polctl/polctl/internal/backend"
	"github.com/polctl/polctl/internal/policy"
	"github.com/polctl/polctl/internal/resource"
)

// ErrInvalidSpec tags every filter validation failure. Validation happens
// when evaluators are built, before any enumeration.
var ErrInvalidSpec = errors.New("invalid filter spec")

// Evaluator evaluates one filter clause against one resource. Prepare runs
// once per policy run and is where batch lookups are hoisted; Match must not
// touch the backend. A resource that cannot be matched (missing fields,
// absent references) simply doesn't match, it is never an error.
type Evaluator interface {
	Prepare(ctx context.Context, be backend.Backend) error
	Match(r resource.Resource) bool
}

// Builder validates filter parameters and returns an evaluator for them.
type Builder func(params map[string]any) (Evaluator, error)

// Registry is the dispatch table from filter kind to builder. It is plain
// data handed to the runner at construction, not process-global state.
type Registry map[string]Builder

// DefaultRegistry returns the built-in filter kinds.
func DefaultRegistry() Registry {
	return Registry{
		"value": NewValue,
		"waf":   NewWaf,
	}
}

// Build validates a spec and returns its evaluator. Unknown filter types are
// rejected here.
func (reg Registry) Build(spec policy.FilterSpec) (Evaluator, error) {
	builder, ok := reg[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown filter type %q", ErrInvalidSpec, spec.Type)
	}
	return builder(spec.Params)
}

// stringParam extracts a required string parameter.
func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// numberParam extracts a required numeric parameter. YAML yields int, HCL
// yields float64; both are accepted.
func numberParam(params map[string]any, key string) (float64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	return toFloat64(v)
}

// toFloat64 attempts to normalize various numeric types to float64.
// Returns (0, false) if v is not a recognized numeric type.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
