// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package snapshot

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

// createEncryptedBundle is a helper that builds a properly encrypted snapshot
// bundle for testing.
func createEncryptedBundle(
	t *testing.T,
	plaintext []byte,
	passphrase string,
) []byte {
	t.Helper()

	salt := []byte("test-salt-12345")
	iterations := 200000

	key := pbkdf2.Key(
		[]byte(passphrase),
		salt,
		iterations,
		32, // key length for AES-256
		sha512.New,
	)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	aesGCM, err := cipher.NewGCM(block)
	require.NoError(t, err)

	nonce := make([]byte, aesGCM.NonceSize())
	ciphertext := aesGCM.Seal(nonce, nonce, plaintext, nil)

	kpConfig := map[string]interface{}{
		"salt":          base64.StdEncoding.EncodeToString(salt),
		"iterations":    iterations,
		"hash_function": "sha512",
		"key_length":    32,
	}

	kpConfigJSON, err := json.Marshal(kpConfig)
	require.NoError(t, err)

	bundle := map[string]interface{}{
		"meta": map[string]interface{}{
			"key_provider.pbkdf2.snapkey": base64.StdEncoding.EncodeToString(
				kpConfigJSON,
			),
		},
		"encrypted_data": base64.StdEncoding.EncodeToString(ciphertext),
	}

	doc, err := json.Marshal(bundle)
	require.NoError(t, err)
	return doc
}

func TestEncrypted(t *testing.T) {
	bundle := createEncryptedBundle(t, []byte(`{"value":[]}`), "pw")
	assert.True(t, Encrypted(bundle))

	assert.False(t, Encrypted([]byte(`{"value":[]}`)))
	assert.False(t, Encrypted([]byte(`[]`)))
	assert.False(t, Encrypted([]byte(`not json`)))
}

func TestDecryptRoundTrip(t *testing.T) {
	t.Parallel()
	passphrase := "test-passphrase"
	plaintext := []byte(`{"value":[{"id":"x","name":"agw-1"}]}`)

	bundle := createEncryptedBundle(t, plaintext, passphrase)

	result, err := Decrypt(bundle, passphrase)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, result)
}

func TestDecryptWrongPassphrase(t *testing.T) {
	t.Parallel()
	bundle := createEncryptedBundle(t, []byte(`{"value":[]}`), "correct-passphrase")

	_, err := Decrypt(bundle, "wrong-passphrase")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

func TestDecryptInvalidJSON(t *testing.T) {
	t.Parallel()
	result, err := Decrypt([]byte("not valid json"), "pw")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestDecryptInvalidBase64Key(t *testing.T) {
	t.Parallel()
	doc, err := json.Marshal(map[string]interface{}{
		"meta": map[string]interface{}{
			"key_provider.pbkdf2.snapkey": "not-valid-base64!@#$",
		},
		"encrypted_data": "dGVzdA==",
	})
	require.NoError(t, err)

	result, err := Decrypt(doc, "pw")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestDecryptCorruptedCiphertext(t *testing.T) {
	t.Parallel()
	passphrase := "test-passphrase"
	bundle := createEncryptedBundle(t, []byte(`{"value":[]}`), passphrase)

	var parsed struct {
		Meta struct {
			Key string `json:"key_provider.pbkdf2.snapkey"`
		} `json:"meta"`
		EncryptedData string `json:"encrypted_data"`
	}
	require.NoError(t, json.Unmarshal(bundle, &parsed))

	// Corrupt by truncating.
	parsed.EncryptedData = parsed.EncryptedData[:len(parsed.EncryptedData)-10]
	corrupted, err := json.Marshal(map[string]interface{}{
		"meta":           map[string]interface{}{"key_provider.pbkdf2.snapkey": parsed.Meta.Key},
		"encrypted_data": parsed.EncryptedData,
	})
	require.NoError(t, err)

	result, err := Decrypt(corrupted, passphrase)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestDecryptUnicodePassphrase(t *testing.T) {
	t.Parallel()
	passphrase := "测试密码🔐🔑" //nolint:gosec
	plaintext := []byte(`{"value":[]}`)

	bundle := createEncryptedBundle(t, plaintext, passphrase)

	result, err := Decrypt(bundle, passphrase)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, result)
}
