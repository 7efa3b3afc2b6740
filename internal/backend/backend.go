// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/backend/local"
	"github.com/polctl/polctl/internal/backend/s3"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/resource"
)

// Backend abstracts where inventory snapshots live. Implementations return
// raw list documents; parsing into resources happens in the resource package.
// A backend failure is fatal to the run, there are no partial results.
type Backend interface {
	// Resources returns the raw list document for a resource type.
	Resources(ctx context.Context, rt resource.Type) ([]byte, error)
	// FirewallPolicies returns the raw firewall-policy list document.
	FirewallPolicies(ctx context.Context) ([]byte, error)
	String() string
}

// NewBackend returns the Backend implementation for the resolved inventory
// root in command metadata.
func NewBackend(ctx context.Context, cmd *cli.Command) (Backend, error) {
	m, ok := cmd.Metadata["meta"].(meta.Meta)
	if !ok {
		return nil, fmt.Errorf("no meta in command metadata")
	}
	log.Debugf("NewBackend: root: kind=%s dir=%s bucket=%s", m.Kind, m.Dir, m.Bucket)

	switch m.Kind {
	case "s3":
		return s3.NewBackendS3(ctx, cmd,
			s3.FromBucket(m.Bucket, m.Prefix),
			s3.WithRegion(cmd.String("region")),
		)
	case "local", "":
		return local.NewBackendLocal(ctx, cmd,
			local.FromRootDir(m.Dir),
			local.WithPassphrase(cmd.String("passphrase")),
		)
	default:
		return nil, fmt.Errorf("unknown backend kind %s", m.Kind)
	}
}

// Memo wraps a Backend and memoizes list calls for the duration of one run.
// The firewall-policy listing in particular must be fetched at most once per
// run no matter how many resources or filters consult it.
type Memo struct {
	Backend

	resources map[string][]byte
	policies  []byte
	havePol   bool
}

// NewMemo returns a memoizing view over be.
func NewMemo(be Backend) *Memo {
	return &Memo{Backend: be, resources: make(map[string][]byte)}
}

// Resources returns the cached document for rt, fetching it on first use.
func (m *Memo) Resources(ctx context.Context, rt resource.Type) ([]byte, error) {
	if doc, ok := m.resources[rt.Name]; ok {
		return doc, nil
	}
	doc, err := m.Backend.Resources(ctx, rt)
	if err != nil {
		return nil, err
	}
	m.resources[rt.Name] = doc
	return doc, nil
}

// FirewallPolicies returns the cached policy document, fetching it on first
// use.
func (m *Memo) FirewallPolicies(ctx context.Context) ([]byte, error) {
	if m.havePol {
		return m.policies, nil
	}
	doc, err := m.Backend.FirewallPolicies(ctx)
	if err != nil {
		return nil, err
	}
	m.policies = doc
	m.havePol = true
	return doc, nil
}
