// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/resource"
	"github.com/polctl/polctl/internal/snapshot"
)

// BackendLocal reads inventory snapshots from a directory of JSON export
// files, one document per resource type (the shape produced by
// `az resource list` and friends). Encrypted snapshot bundles are decrypted
// transparently.
type BackendLocal struct {
	Ctx        context.Context
	Cmd        *cli.Command
	RootDir    string
	Passphrase string
}

// Option customizes a BackendLocal during construction.
type Option func(*BackendLocal)

// FromRootDir sets the snapshot directory.
func FromRootDir(dir string) Option {
	return func(be *BackendLocal) { be.RootDir = dir }
}

// WithPassphrase sets the passphrase used for encrypted snapshot bundles. An
// empty value falls back to POLCTL_PASSPHRASE and then an interactive prompt,
// but only when an encrypted bundle is actually encountered.
func WithPassphrase(passphrase string) Option {
	return func(be *BackendLocal) { be.Passphrase = passphrase }
}

// NewBackendLocal constructs a local backend for the given root directory.
func NewBackendLocal(ctx context.Context, cmd *cli.Command, opts ...Option) (*BackendLocal, error) {
	be := &BackendLocal{Ctx: ctx, Cmd: cmd}
	for _, opt := range opts {
		opt(be)
	}

	if be.RootDir == "" {
		return nil, fmt.Errorf("local backend requires a root directory")
	}
	if r, err := os.Stat(be.RootDir); err != nil {
		return nil, err
	} else if !r.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", be.RootDir)
	}

	return be, nil
}

// Resources returns the raw list document for the given resource type.
func (be *BackendLocal) Resources(ctx context.Context, rt resource.Type) ([]byte, error) {
	return be.readExport(rt.Export)
}

// FirewallPolicies returns the raw firewall-policy list document.
func (be *BackendLocal) FirewallPolicies(ctx context.Context) ([]byte, error) {
	rt, _ := resource.Lookup(resource.FirewallPolicyType)
	return be.readExport(rt.Export)
}

func (be *BackendLocal) String() string {
	return "local: " + be.RootDir
}

// readExport loads <RootDir>/<export>.json, decrypting it first if it is an
// encrypted bundle.
func (be *BackendLocal) readExport(export string) ([]byte, error) {
	path := filepath.Join(be.RootDir, export+".json")
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	log.Debugf("read snapshot: path=%s bytes=%d", path, len(doc))

	if !snapshot.Encrypted(doc) {
		return doc, nil
	}

	passphrase := be.Passphrase
	if passphrase == "" {
		passphrase = os.Getenv("POLCTL_PASSPHRASE")
	}
	if passphrase == "" {
		passphrase, _ = snapshot.GetPassphrase()
	}

	doc, err = snapshot.Decrypt(doc, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", path, err)
	}
	return doc, nil
}
