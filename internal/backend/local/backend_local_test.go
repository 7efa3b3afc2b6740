// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package local

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	"github.com/polctl/polctl/internal/resource"
)

const gatewayDoc = `{"value":[{"id":"x","name":"agw-1"}]}`

func writeExport(t *testing.T, dir string, export string, doc []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, export+".json"), doc, 0o600))
}

func TestNewBackendLocal(t *testing.T) {
	dir := t.TempDir()

	be, err := NewBackendLocal(context.Background(), nil, FromRootDir(dir))
	require.NoError(t, err)
	assert.Contains(t, be.String(), dir)

	_, err = NewBackendLocal(context.Background(), nil)
	assert.Error(t, err, "missing root directory")

	_, err = NewBackendLocal(context.Background(), nil, FromRootDir(filepath.Join(dir, "nope")))
	assert.Error(t, err, "nonexistent root directory")
}

func TestResources(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "applicationGateways", []byte(gatewayDoc))

	be, err := NewBackendLocal(context.Background(), nil, FromRootDir(dir))
	require.NoError(t, err)

	rt, ok := resource.Lookup("application-gateway")
	require.True(t, ok)

	doc, err := be.Resources(context.Background(), rt)
	require.NoError(t, err)
	assert.JSONEq(t, gatewayDoc, string(doc))

	// A type with no export file in the root is a backend failure.
	missing, _ := resource.Lookup("public-ip")
	_, err = be.Resources(context.Background(), missing)
	assert.Error(t, err)
}

func TestFirewallPolicies(t *testing.T) {
	dir := t.TempDir()
	policyDoc := `{"value":[{"id":"p","name":"wafpol-1"}]}`
	writeExport(t, dir, "firewallPolicies", []byte(policyDoc))

	be, err := NewBackendLocal(context.Background(), nil, FromRootDir(dir))
	require.NoError(t, err)

	doc, err := be.FirewallPolicies(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, policyDoc, string(doc))
}

func TestEncryptedExport(t *testing.T) {
	dir := t.TempDir()
	passphrase := "test-passphrase"
	writeExport(t, dir, "applicationGateways", encryptBundle(t, []byte(gatewayDoc), passphrase))

	rt, _ := resource.Lookup("application-gateway")

	t.Run("explicit passphrase", func(t *testing.T) {
		be, err := NewBackendLocal(context.Background(), nil,
			FromRootDir(dir), WithPassphrase(passphrase))
		require.NoError(t, err)

		doc, err := be.Resources(context.Background(), rt)
		require.NoError(t, err)
		assert.JSONEq(t, gatewayDoc, string(doc))
	})

	t.Run("passphrase from environment", func(t *testing.T) {
		t.Setenv("POLCTL_PASSPHRASE", passphrase)

		be, err := NewBackendLocal(context.Background(), nil, FromRootDir(dir))
		require.NoError(t, err)

		doc, err := be.Resources(context.Background(), rt)
		require.NoError(t, err)
		assert.JSONEq(t, gatewayDoc, string(doc))
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		be, err := NewBackendLocal(context.Background(), nil,
			FromRootDir(dir), WithPassphrase("wrong"))
		require.NoError(t, err)

		_, err = be.Resources(context.Background(), rt)
		assert.Error(t, err)
	})
}

// encryptBundle builds an encrypted snapshot bundle the way the export
// tooling does.
func encryptBundle(t *testing.T, plaintext []byte, passphrase string) []byte {
	t.Helper()

	salt := []byte("test-salt-12345")
	iterations := 200000

	key := pbkdf2.Key([]byte(passphrase), salt, iterations, 32, sha512.New)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	aesGCM, err := cipher.NewGCM(block)
	require.NoError(t, err)

	nonce := make([]byte, aesGCM.NonceSize())
	ciphertext := aesGCM.Seal(nonce, nonce, plaintext, nil)

	kpConfigJSON, err := json.Marshal(map[string]interface{}{
		"salt":          base64.StdEncoding.EncodeToString(salt),
		"iterations":    iterations,
		"hash_function": "sha512",
		"key_length":    32,
	})
	require.NoError(t, err)

	doc, err := json.Marshal(map[string]interface{}{
		"meta": map[string]interface{}{
			"key_provider.pbkdf2.snapkey": base64.StdEncoding.EncodeToString(kpConfigJSON),
		},
		"encrypted_data": base64.StdEncoding.EncodeToString(ciphertext),
	})
	require.NoError(t, err)
	return doc
}
