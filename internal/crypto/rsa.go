package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
)

// ErrPSSHash is returned for digests PSS cannot run MGF1 over.
var ErrPSSHash = errors.New("hash unusable with pss")

// PSSHashUsable reports whether h can drive PSS padding. MD5SHA1 has no
// implementation of its own, so rsa would panic on it.
func PSSHashUsable(h crypto.Hash) bool {
	return h != 0 && h != crypto.MD5SHA1 && h.Available()
}

// pssOptions fixes the salt to the digest length, which TLS 1.3 requires.
func pssOptions(h crypto.Hash) *rsa.PSSOptions {
	return &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: h}
}

// GenerateRSAKey creates a new RSA key with the given modulus size.
func GenerateRSAKey(bits int) (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return key, nil
}

// SignPKCS1v15 signs a precomputed digest with PKCS#1 v1.5 padding.
func SignPKCS1v15(key *rsa.PrivateKey, h crypto.Hash, digest []byte) ([]byte, error) {
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, h, digest)
	if err != nil {
		return nil, fmt.Errorf("rsa pkcs1 sign: %w", err)
	}
	return sig, nil
}

// VerifyPKCS1v15 reports whether sig is a valid PKCS#1 v1.5 signature of digest.
func VerifyPKCS1v15(pub *rsa.PublicKey, h crypto.Hash, digest, sig []byte) bool {
	return rsa.VerifyPKCS1v15(pub, h, digest, sig) == nil
}

// SignPSS signs a precomputed digest with PSS padding.
func SignPSS(key *rsa.PrivateKey, h crypto.Hash, digest []byte) ([]byte, error) {
	if !PSSHashUsable(h) {
		return nil, fmt.Errorf("rsa pss sign: %w: %v", ErrPSSHash, h)
	}
	sig, err := rsa.SignPSS(rand.Reader, key, h, digest, pssOptions(h))
	if err != nil {
		return nil, fmt.Errorf("rsa pss sign: %w", err)
	}
	return sig, nil
}

// VerifyPSS reports whether sig is a valid PSS signature of digest.
func VerifyPSS(pub *rsa.PublicKey, h crypto.Hash, digest, sig []byte) bool {
	if !PSSHashUsable(h) {
		return false
	}
	return rsa.VerifyPSS(pub, h, digest, sig, pssOptions(h)) == nil
}

// EncryptPKCS1v15 encrypts a TLS premaster secret for RSA key exchange.
func EncryptPKCS1v15(pub *rsa.PublicKey, msg []byte) ([]byte, error) {
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, msg)
	if err != nil {
		return nil, fmt.Errorf("rsa encrypt: %w", err)
	}
	return ct, nil
}

// DecryptPKCS1v15 decrypts a ciphertext produced by EncryptPKCS1v15.
func DecryptPKCS1v15(key *rsa.PrivateKey, ct []byte) ([]byte, error) {
	pt, err := rsa.DecryptPKCS1v15(rand.Reader, key, ct)
	if err != nil {
		return nil, fmt.Errorf("rsa decrypt: %w", err)
	}
	return pt, nil
}
