package cardvault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateKey(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "secret.key")

	// First call generates and persists
	key1, err := LoadOrCreateKey(path, logger)
	require.NoError(t, err)
	assert.Len(t, key1, keySize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second call loads the same key
	key2, err := LoadOrCreateKey(path, logger)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

func TestLoadOrCreateKey_BadSize(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "secret.key")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	_, err := LoadOrCreateKey(path, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected size")
}

func TestVault_EncryptDecrypt(t *testing.T) {
	logger := zerolog.Nop()
	key, err := LoadOrCreateKey(filepath.Join(t.TempDir(), "secret.key"), logger)
	require.NoError(t, err)

	vault, err := New(key, logger)
	require.NoError(t, err)

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "Plain digits",
			raw:      "4276123412341234",
			expected: "4276123412341234",
		},
		{
			name:     "Spaces and dashes stripped",
			raw:      "4276 1234-1234 1234",
			expected: "4276123412341234",
		},
		{
			name:     "Letters stripped",
			raw:      "card: 1111222233334444",
			expected: "1111222233334444",
		},
		{
			name:     "Empty input becomes placeholder",
			raw:      "",
			expected: "0000000000000000",
		},
		{
			name:     "No digits becomes placeholder",
			raw:      "not a card",
			expected: "0000000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := vault.EncryptCardNumber(tt.raw)
			require.NoError(t, err)
			assert.NotContains(t, encrypted, tt.expected)

			plain, err := vault.DecryptCardNumber(encrypted)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, plain)
		})
	}
}

func TestVault_EncryptIsRandomised(t *testing.T) {
	logger := zerolog.Nop()
	key, err := LoadOrCreateKey(filepath.Join(t.TempDir(), "secret.key"), logger)
	require.NoError(t, err)

	vault, err := New(key, logger)
	require.NoError(t, err)

	first, err := vault.EncryptCardNumber("4276123412341234")
	require.NoError(t, err)
	second, err := vault.EncryptCardNumber("4276123412341234")
	require.NoError(t, err)

	// Fresh nonce per encryption
	assert.NotEqual(t, first, second)
}

func TestVault_DecryptRejectsGarbage(t *testing.T) {
	logger := zerolog.Nop()
	key, err := LoadOrCreateKey(filepath.Join(t.TempDir(), "secret.key"), logger)
	require.NoError(t, err)

	vault, err := New(key, logger)
	require.NoError(t, err)

	_, err = vault.DecryptCardNumber("not base64!!!")
	assert.Error(t, err)

	_, err = vault.DecryptCardNumber("YWJj") // valid base64, too short
	assert.Error(t, err)
}
