package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// deriveKey derives a 256-bit AES key from the master secret using HKDF-SHA256.
// label is the HKDF info parameter and keeps keys for different records apart.
func deriveKey(master, label []byte) ([]byte, error) {
	if len(master) == 0 {
		return nil, errors.New("empty master key")
	}
	r := hkdf.New(sha256.New, master, nil, label)
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("hkdf derive: %w", err)
	}
	return key, nil
}

func newGCM(master, label []byte) (cipher.AEAD, error) {
	key, err := deriveKey(master, label)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aes gcm: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext with AES-256-GCM under a key derived from master and label.
// The result is [nonce | ciphertext | tag]; label is also bound as additional data.
func Seal(master, label, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(master, label)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, label), nil
}

// Open reverses Seal. master and label must match the values used to seal.
func Open(master, label, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(master, label)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ct := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	pt, err := gcm.Open(nil, nonce, ct, label)
	if err != nil {
		return nil, fmt.Errorf("aes gcm decrypt: %w", err)
	}
	return pt, nil
}
