// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/polctl/polctl/internal/log"
)

// FilterSpec is one declarative filter clause: a kind tag plus kind-specific
// parameters. Parameter shapes are validated by the filter builders before a
// run starts, never during evaluation.
type FilterSpec struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:",inline"`
}

// Policy names a resource type and the filters a resource must pass. Filters
// are applied as an AND chain in declaration order.
type Policy struct {
	Name     string       `yaml:"name"`
	Resource string       `yaml:"resource"`
	Filters  []FilterSpec `yaml:"filters"`
}

// File is a parsed policy file.
type File struct {
	Policies []Policy `yaml:"policies"`
}

// Load parses a policy file. YAML (.yaml/.yml) and HCL (.hcl) layouts are
// supported; the extension picks the parser.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var file *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		file, err = parseHCL(path, data)
	case ".yaml", ".yml":
		file, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported policy file extension: %s", path)
	}
	if err != nil {
		return nil, err
	}

	if err := file.check(); err != nil {
		return nil, err
	}

	log.Debugf("policy file loaded: path=%s policies=%d", path, len(file.Policies))
	return file, nil
}

// ParseYAML parses the YAML policy layout:
//
//	policies:
//	  - name: gateways-with-944240-disabled
//	    resource: application-gateway
//	    filters:
//	      - type: waf
//	        override_rule: 944240
//	        state: disabled
func ParseYAML(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}
	return &file, nil
}

// check enforces the minimal structural shape. Filter parameters are the
// filter builders' concern.
func (f *File) check() error {
	if len(f.Policies) == 0 {
		return fmt.Errorf("policy file contains no policies")
	}
	for i, p := range f.Policies {
		if p.Name == "" {
			return fmt.Errorf("policy %d has no name", i)
		}
		if p.Resource == "" {
			return fmt.Errorf("policy %q has no resource type", p.Name)
		}
	}
	return nil
}
