// Package cryptox implements at-rest encryption of message bodies with
// AES-256-GCM under a key derived once from the platform secret.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/uniboe/messaging/internal/common"
)

// Key derivation parameters. The salt is fixed so every process derives
// the same key from the same secret without distributing key material.
// A single global key means any holder of the secret can decrypt all
// conversations; per-conversation keys would change the schema and the
// key-distribution story, so this stays as is.
const (
	kdfIterations = 100_000
	keyLength     = 32
)

var kdfSalt = []byte("uniboe_chat_salt_2024")

// Cipher encrypts and decrypts message bodies. The derived key is
// read-only after construction, so a single instance is safe for
// concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// New derives the symmetric key from secret (PBKDF2-SHA256) and prepares
// the AEAD. Construct once at startup; derivation is deliberately slow.
func New(secret string) (*Cipher, error) {
	key := pbkdf2.Key([]byte(secret), kdfSalt, kdfIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals content under a fresh random nonce and returns the
// ciphertext token: base64url(nonce || ciphertext || tag). Empty or
// whitespace-only content fails with common.ErrorEmptyContent.
func (c *Cipher) Encrypt(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", common.ErrorEmptyContent
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(content), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Malformed, truncated, or tampered tokens and
// tokens produced under a different key all fail with a wrapped
// common.ErrorDecryptionFailed; callers treat this as a per-message
// failure, not a per-call-site one.
func (c *Cipher) Decrypt(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding: %v", common.ErrorDecryptionFailed, err)
	}

	n := c.aead.NonceSize()
	if len(raw) < n {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrorDecryptionFailed)
	}

	plaintext, err := c.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorDecryptionFailed, err)
	}

	return string(plaintext), nil
}
