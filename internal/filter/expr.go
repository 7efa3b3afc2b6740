// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"

	"github.com/polctl/polctl/internal/policy"
)

// exprRegex is the pattern used to parse quick-filter expressions into key,
// operator, and target components. It matches a key, and optionally an
// operator (with optional negation) and target. Operators are one of
// = ^ ~ < > @ or /, optionally prefixed with '!'. Examples:
// "location=eastus", "name^agw-", "sku~waf_v2", "name!/^tmp-/".
var exprRegex = regexp.MustCompile(`^([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// exprOps maps expression operator characters onto value filter ops.
var exprOps = map[string]string{
	"=": "eq",
	"~": "like",
	"^": "prefix",
	"@": "contains",
	"/": "regex",
	">": "gt",
	"<": "lt",
}

// BuildSpecs parses a --filter expression string into value FilterSpecs.
// Invalid entries (unsupported operand or malformed expression) are skipped.
func BuildSpecs(spec string) []policy.FilterSpec {
	// Don't prealloc because we don't know what len will be and performance is
	// not critical.
	//nolint:prealloc
	var specs []policy.FilterSpec

	// If there are no filters specified, go home early.
	if spec == "" {
		return specs
	}

	// Default delimiter is ",", allow an override for situations where the value
	// contains commas.
	delim := ","
	if d, ok := os.LookupEnv("POLCTL_FILTER_DELIM"); ok {
		delim = d
	}

	// Split the spec and iterate over each filter expression.
	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		parts := exprRegex.FindStringSubmatch(expr)

		// Regex should always match, so check for nil just in case.
		if parts == nil {
			log.Error("invalid filter: " + expr)
			continue
		}

		// parts[1] is the key
		// parts[2] is the optional operator (may include negation like "!")
		// parts[3] is the optional target

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		target := parts[3]

		if key == "" {
			log.Error("invalid filter: empty key in " + expr)
			continue
		}

		// Handle operator negation.
		negate := strings.HasPrefix(operand, "!")
		if negate {
			operand = strings.TrimPrefix(operand, "!")
		}

		op, ok := exprOps[operand]
		if !ok {
			log.Error("unsupported filter operand in " + expr)
			continue
		}

		// We've got a valid filter, append it to the result set.
		specs = append(specs, policy.FilterSpec{
			Type: "value",
			Params: map[string]any{
				"key":    key,
				"op":     op,
				"value":  target,
				"negate": negate,
			},
		})
	}

	return specs
}
