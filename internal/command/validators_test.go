// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/meta"
)

func TestOutputValidator(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "text"},
		{value: "json"},
		{value: "yaml"},
		{value: "raw"},
		{value: "csv", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("output="+tt.value, func(t *testing.T) {
			err := OutputValidator(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlagValidatorsStopsAtFirstError(t *testing.T) {
	calls := 0
	failing := func(any) error {
		calls++
		return fmt.Errorf("nope")
	}
	never := func(any) error {
		calls++
		return nil
	}

	err := FlagValidators("x", failing, never)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()

	cmd := &cli.Command{}
	cmd.Metadata = map[string]any{
		"meta": meta.Meta{StartingDir: dir},
	}

	t.Run("explicit local root", func(t *testing.T) {
		assert.NoError(t, ResolveRoot(cmd, dir))
		m := GetMeta(cmd)
		assert.Equal(t, "local", m.Kind)
		assert.Equal(t, dir, m.Dir)
	})

	t.Run("defaults to starting dir", func(t *testing.T) {
		assert.NoError(t, ResolveRoot(cmd, ""))
		m := GetMeta(cmd)
		assert.Equal(t, "local", m.Kind)
		assert.Equal(t, dir, m.Dir)
	})

	t.Run("s3 root", func(t *testing.T) {
		assert.NoError(t, ResolveRoot(cmd, "s3://inventory/prod"))
		m := GetMeta(cmd)
		assert.Equal(t, "s3", m.Kind)
		assert.Equal(t, "inventory", m.Bucket)
		assert.Equal(t, "prod", m.Prefix)
	})

	t.Run("missing dir", func(t *testing.T) {
		assert.Error(t, ResolveRoot(cmd, dir+"/nope"))
	})
}
