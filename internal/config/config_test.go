// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setupTestConfig sets POLCTL_CFG_FILE to point to a test config file.
// Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	configPath := filepath.Join("testdata", testdataFile)
	absPath, err := filepath.Abs(configPath)
	assert.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("POLCTL_CFG_FILE", absPath)

	// Reset the global Config to force reload
	Config = Type{}

	return func() {
		Config = Type{}
	}
}

// withConfig is a helper that sets up a test config and executes a test function.
func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()
	cleanup := setupTestConfig(t, testFile)
	defer cleanup()
	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	cleanup := setupTestConfig(t, "simple.yaml")
	defer cleanup()

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotEmpty(t, cfg.Source)
	assert.Equal(t, "us-east-1", cfg.Data["region"])
	assert.Equal(t, "my-snapshots", cfg.Data["bucket"])
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("POLCTL_CFG_FILE", "/nonexistent/path/polctl.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgFileIsDirectory(t *testing.T) {
	t.Setenv("POLCTL_CFG_FILE", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "region",
			want:     "us-east-1",
		},
		{
			name:     "nested string value",
			testFile: "nested.yaml",
			key:      "colors.header",
			want:     "#00afff",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []string{"default-value"},
			want:         "default-value",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "version",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			_, _ = Load()

			got, err := GetString(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{
			name:     "int value",
			testFile: "mixed-types.yaml",
			key:      "version",
			want:     1,
		},
		{
			name:     "float value converted to int",
			testFile: "mixed-types.yaml",
			key:      "timeout",
			want:     30,
		},
		{
			name:     "nested int value",
			testFile: "nested.yaml",
			key:      "cache.clean",
			want:     48,
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []int{60},
			want:         60,
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-int value",
			testFile: "simple.yaml",
			key:      "region",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			_, _ = Load()

			got, err := GetInt(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNamespaceFallback(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		// The rq namespace carries its own region and output; other keys fall
		// back to the root.
		Config.Namespace = "rq"

		val, err := Config.get("region")
		assert.NoError(t, err)
		assert.Equal(t, "us-west-2", val)

		val, err = Config.get("output")
		assert.NoError(t, err)
		assert.Equal(t, "json", val)

		// run has no namespaced keys, so the root values win.
		Config.Namespace = "run"
		val, err = Config.get("region")
		assert.NoError(t, err)
		assert.Equal(t, "us-east-1", val)
	})
}

func TestGetStringSlice(t *testing.T) {
	withConfig(t, "sets.yaml", func(t *testing.T) {
		vals, err := GetStringSlice("run.defaults")
		assert.NoError(t, err)
		assert.Equal(t, []string{"--output json", "--sort name"}, vals)

		// Namespace fallback.
		Config.Namespace = "rq"
		vals, err = GetStringSlice("wide")
		assert.NoError(t, err)
		assert.Equal(t, []string{"--titles --color"}, vals)

		// Non-string element in list.
		_, err = GetStringSlice("nonstring_list")
		assert.Error(t, err)

		// Not a list.
		_, err = GetStringSlice("not_a_list")
		assert.Error(t, err)

		// Missing key with default slice returns provided default.
		def := []string{"x", "y"}
		vals, err = GetStringSlice("does.not.exist", def)
		assert.NoError(t, err)
		assert.Equal(t, def, vals)
	})
}
