// Package fieldcrypt provides reversible field-level encryption for PII
// columns. It is an explicit encode/decode step owned by storage adapters;
// domain code treats the fields as opaque strings and never touches this
// package directly.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Cipher encrypts and decrypts individual field values with AES-256-GCM.
// The key is derived from a configured secret via HKDF so the raw secret is
// never used as key material directly.
type Cipher struct {
	aead cipher.AEAD
}

// New derives the field key from the configured secret.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("field encryption secret is required")
	}
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("pii-field-encryption"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive field key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init field cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init field aead: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals a plaintext field value. Output is base64 so it fits text
// columns; a fresh nonce is prepended per value.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("field nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode field value: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("field value too short")
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt field value: %w", err)
	}
	return string(plaintext), nil
}
