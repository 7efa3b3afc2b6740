// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package drill

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segmentRe = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+|\*)?\])?$`)

// Drill navigates JSON using a flexible dot path supporting arrays. A missing
// intermediate key, a non-container where a container is expected, or an
// out-of-range index all produce a non-existent Result. That is a legitimate
// "does not apply" outcome for filtering, not an error.
func Drill(jsonData string, path string) gjson.Result {
	parts := strings.Split(path, ".")
	current := gjson.Parse(jsonData)

	for _, p := range parts {
		matches := segmentRe.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{} // Invalid path segment
		}

		key := matches[1]

		// matches[2] is the [], which we can throw away.

		index := -1
		if matches[3] != "" && matches[3] != "*" {
			// Array index specified
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		val := current.Get(key)
		if val.IsArray() {
			// If index is specified, use it; otherwise default to [0]
			arr := val.Array()
			switch {
			case index == -1:
				if len(arr) == 1 {
					val = arr[0]
				}
				// Otherwise do nothing. We'll dump the whole list.
			case index >= 0 && index < len(arr):
				val = arr[index]
			default:
				return gjson.Result{}
			}
		}

		current = val
	}

	return current
}

// DrillAll resolves a path that may cross arrays and returns every matching
// value. Segments written as key[] or key[*] fan out across the array at that
// level; a concrete index selects one element. Gaps in the structure simply
// contribute no results.
func DrillAll(jsonData string, path string) []gjson.Result {
	parts := strings.Split(path, ".")
	current := []gjson.Result{gjson.Parse(jsonData)}

	for _, p := range parts {
		matches := segmentRe.FindStringSubmatch(p)
		if len(matches) == 0 {
			return nil // Invalid path segment
		}

		key := matches[1]
		fanOut := matches[2] != "" && (matches[3] == "" || matches[3] == "*")

		index := -1
		if matches[3] != "" && matches[3] != "*" {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return nil
			}
			index = i
		}

		var next []gjson.Result
		for _, c := range current {
			val := c.Get(key)
			if !val.Exists() {
				continue
			}

			if !val.IsArray() {
				next = append(next, val)
				continue
			}

			arr := val.Array()
			switch {
			case fanOut:
				next = append(next, arr...)
			case index >= 0 && index < len(arr):
				next = append(next, arr[index])
			case index == -1:
				next = append(next, val)
			}
		}

		current = next
	}

	return current
}
