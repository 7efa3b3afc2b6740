// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRootS3(t *testing.T) {
	spec, err := ParseRoot("s3://my-bucket/snapshots/prod")
	require.NoError(t, err)
	assert.Equal(t, "s3", spec.Kind)
	assert.Equal(t, "my-bucket", spec.Bucket)
	assert.Equal(t, "snapshots/prod", spec.Prefix)
}

func TestParseRootS3NoPrefix(t *testing.T) {
	spec, err := ParseRoot("s3://my-bucket")
	require.NoError(t, err)
	assert.Equal(t, "s3", spec.Kind)
	assert.Equal(t, "my-bucket", spec.Bucket)
	assert.Empty(t, spec.Prefix)
}

func TestParseRootS3TrailingSlash(t *testing.T) {
	spec, err := ParseRoot("s3://my-bucket/snapshots/")
	require.NoError(t, err)
	assert.Equal(t, "snapshots", spec.Prefix)
}

func TestParseRootS3EmptyBucket(t *testing.T) {
	_, err := ParseRoot("s3://")
	assert.Error(t, err)
}

func TestParseRootLocalAbsolute(t *testing.T) {
	dir := t.TempDir()
	spec, err := ParseRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, "local", spec.Kind)
	assert.Equal(t, dir, spec.Dir)
}

func TestParseRootLocalRelative(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "snapshots")
	require.NoError(t, os.Mkdir(sub, 0o755))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	// Getwd may resolve symlinks in the temp dir, so derive the expectation
	// from it rather than from dir.
	wd, err := os.Getwd()
	require.NoError(t, err)
	sub = filepath.Join(wd, "snapshots")

	spec, err := ParseRoot("snapshots")
	require.NoError(t, err)
	assert.Equal(t, "local", spec.Kind)
	assert.Equal(t, sub, spec.Dir)
}

func TestParseRootLocalMissing(t *testing.T) {
	_, err := ParseRoot(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParseRootLocalFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))

	_, err := ParseRoot(file)
	assert.Error(t, err)
}

func TestParseRootEmpty(t *testing.T) {
	_, err := ParseRoot("")
	assert.Error(t, err)
}
