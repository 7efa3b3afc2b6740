// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/polctl/polctl/internal/meta"
)

// ParseRoot parses an inventory root argument and returns the resolved
// RootSpec. A root of the form s3://bucket/prefix selects the S3 backend.
// Anything else is treated as a local directory and must exist.
func ParseRoot(root string) (meta.RootSpec, error) {

	if root == "" {
		return meta.RootSpec{}, os.ErrInvalid
	}

	if after, ok := strings.CutPrefix(root, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(after, "/")
		if bucket == "" {
			return meta.RootSpec{}, os.ErrInvalid
		}
		return meta.RootSpec{
			Kind:   "s3",
			Bucket: bucket,
			Prefix: strings.TrimSuffix(prefix, "/"),
		}, nil
	}

	// A relative directory is resolved against the CWD.
	dir := root
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return meta.RootSpec{}, err
		}
		dir = filepath.Join(cwd, dir)
	}

	// If the root is not a directory, return an error.
	if r, err := os.Stat(dir); err != nil {
		return meta.RootSpec{}, err
	} else if !r.IsDir() {
		return meta.RootSpec{}, os.ErrInvalid
	}

	return meta.RootSpec{Kind: "local", Dir: dir}, nil
}
