package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testKey = "3f7a1c9e5b2d8f4a6c0e2b4d6f8a1c3e5b7d9f1a3c5e7b9d1f3a5c7e9b1d3f5a"

func TestNewAESEncryptionService(t *testing.T) {
	t.Run("accepts a 64-char hex key", func(t *testing.T) {
		svc, err := NewAESEncryptionService(testKey)
		assert.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects non-hex input", func(t *testing.T) {
		svc, err := NewAESEncryptionService(strings.Repeat("z", 64))
		assert.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("rejects a short key", func(t *testing.T) {
		svc, err := NewAESEncryptionService("deadbeef")
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestAESEncryptionService_RoundTrip(t *testing.T) {
	svc, err := NewAESEncryptionService(testKey)
	assert.NoError(t, err)

	plaintext := []byte(`{"version":1,"access_token":"tok","refresh_token":"ref"}`)

	ciphertext, iv, err := svc.Encrypt(plaintext)
	assert.NoError(t, err)
	assert.NotEmpty(t, ciphertext)
	assert.NotEmpty(t, iv)
	assert.NotContains(t, ciphertext, "access_token")

	decrypted, err := svc.Decrypt(ciphertext, iv)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAESEncryptionService_Decrypt(t *testing.T) {
	svc, err := NewAESEncryptionService(testKey)
	assert.NoError(t, err)

	t.Run("fails with the wrong key", func(t *testing.T) {
		ciphertext, iv, err := svc.Encrypt([]byte("secret"))
		assert.NoError(t, err)

		otherKey := strings.Repeat("ab", 32)
		other, err := NewAESEncryptionService(otherKey)
		assert.NoError(t, err)

		_, err = other.Decrypt(ciphertext, iv)
		assert.Error(t, err)
	})

	t.Run("fails with a mismatched IV", func(t *testing.T) {
		ciphertext, _, err := svc.Encrypt([]byte("secret"))
		assert.NoError(t, err)
		_, iv2, err := svc.Encrypt([]byte("other"))
		assert.NoError(t, err)

		_, err = svc.Decrypt(ciphertext, iv2)
		assert.Error(t, err)
	})

	t.Run("fails on malformed base64", func(t *testing.T) {
		_, err := svc.Decrypt("not base64!!", "also not")
		assert.Error(t, err)
	})
}

func TestAESEncryptionService_UniqueIVs(t *testing.T) {
	svc, err := NewAESEncryptionService(testKey)
	assert.NoError(t, err)

	_, iv1, err := svc.Encrypt([]byte("same plaintext"))
	assert.NoError(t, err)
	_, iv2, err := svc.Encrypt([]byte("same plaintext"))
	assert.NoError(t, err)

	assert.NotEqual(t, iv1, iv2)
}
