// Package cardvault encrypts stored card numbers with a process-wide
// symmetric key. The key is generated on first run and persisted to a local
// file; callers receive the vault as an explicit dependency rather than
// reading ambient state.
package cardvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"
)

const keySize = 32 // AES-256

// placeholderCardNumber stands in for submissions with no digits at all.
const placeholderCardNumber = "0000000000000000"

var nonDigits = regexp.MustCompile(`\D`)

// Vault encrypts and decrypts card numbers at rest.
type Vault struct {
	aead   cipher.AEAD
	logger zerolog.Logger
}

// LoadOrCreateKey returns the key stored at path, generating and persisting a
// fresh one when the file does not exist yet.
func LoadOrCreateKey(path string, logger zerolog.Logger) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != keySize {
			return nil, fmt.Errorf("card key file %s has unexpected size %d", path, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read card key file %s: %w", path, err)
	}

	key = make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate card key: %w", err)
	}

	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist card key to %s: %w", path, err)
	}

	logger.Info().Str("file", path).Msg("generated new card encryption key")
	return key, nil
}

// New creates a vault from a 32-byte key.
func New(key []byte, logger zerolog.Logger) (*Vault, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise card cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise card cipher: %w", err)
	}

	return &Vault{
		aead:   aead,
		logger: logger.With().Str("component", "cardvault").Logger(),
	}, nil
}

// EncryptCardNumber strips every non-digit character from raw, substitutes a
// sixteen-zero placeholder when nothing remains, and returns the encrypted
// representation to be stored on the profile.
func (v *Vault) EncryptCardNumber(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		digits = placeholderCardNumber
	}

	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(digits), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptCardNumber reverses EncryptCardNumber.
func (v *Vault) DecryptCardNumber(encrypted string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode card number: %w", err)
	}

	if len(sealed) < v.aead.NonceSize() {
		return "", fmt.Errorf("encrypted card number too short")
	}

	nonce, ciphertext := sealed[:v.aead.NonceSize()], sealed[v.aead.NonceSize():]
	plain, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt card number: %w", err)
	}

	return string(plain), nil
}
