// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/polctl/polctl/internal/drill"
)

// Resource is an immutable view over one serialized cloud object. Identity is
// the ARM id field. All attribute access goes through the raw JSON so that
// callers never depend on a partially-typed model.
type Resource struct {
	raw gjson.Result
}

// Parse extracts the resources from a raw list document. Both bare JSON
// arrays (az CLI exports) and ARM list envelopes ({"value": [...]}) are
// accepted. Anything else yields an empty set.
func Parse(doc []byte) []Resource {
	parsed := gjson.ParseBytes(doc)

	list := parsed
	if !parsed.IsArray() {
		list = parsed.Get("value")
	}
	if !list.IsArray() {
		return nil
	}

	items := list.Array()
	resources := make([]Resource, 0, len(items))
	for _, item := range items {
		resources = append(resources, Resource{raw: item})
	}
	return resources
}

// FromJSON wraps a single serialized object.
func FromJSON(doc string) Resource {
	return Resource{raw: gjson.Parse(doc)}
}

// Raw returns the underlying JSON document.
func (r Resource) Raw() string {
	return r.raw.Raw
}

// ID returns the ARM resource id.
func (r Resource) ID() string {
	return r.raw.Get("id").String()
}

// Name returns the resource name.
func (r Resource) Name() string {
	return r.raw.Get("name").String()
}

// Location returns the resource region.
func (r Resource) Location() string {
	return r.raw.Get("location").String()
}

// ResourceGroup derives the resource group from the id path. ARM list
// responses don't carry the group as a field, so we parse
// /subscriptions/<sub>/resourceGroups/<group>/... case-insensitively.
func (r Resource) ResourceGroup() string {
	segments := strings.Split(r.ID(), "/")
	for i, s := range segments {
		if strings.EqualFold(s, "resourceGroups") && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}

// Get resolves a drill path against the resource.
func (r Resource) Get(path string) gjson.Result {
	return drill.Drill(r.raw.Raw, path)
}

// Field resolves a report attribute key. The synthesized resourceGroup key is
// handled here; everything else drills into the raw JSON.
func (r Resource) Field(key string) any {
	if key == "resourceGroup" {
		return r.ResourceGroup()
	}
	return drill.Drill(r.raw.Raw, key).Value()
}
