package provider

import (
	"crypto"
	"fmt"

	tlscrypto "github.com/glinharesb/tlskey/internal/crypto"
)

var _ Provider = (*Software)(nil)

// Software is a Provider backed by the Go standard crypto packages.
type Software struct{}

func NewSoftware() *Software {
	return &Software{}
}

// ParseRSA accepts PKCS#8, PKCS#1 private, SubjectPublicKeyInfo and PKCS#1
// public encodings, with either the rsaEncryption or id-RSASSA-PSS identifier.
func (s *Software) ParseRSA(der []byte) (*RSAKey, error) {
	if alg, inner, err := tlscrypto.UnwrapPKCS8(der); err == nil {
		if alg != tlscrypto.AlgorithmRSA && alg != tlscrypto.AlgorithmRSAPSS {
			return nil, fmt.Errorf("%w: pkcs8 algorithm %s", ErrNotRSA, alg)
		}
		priv, err := tlscrypto.ParsePKCS1PrivateKey(inner)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs8 rsa key: %w", err)
		}
		return NewRSAPrivateKey(priv, alg == tlscrypto.AlgorithmRSAPSS), nil
	}

	if priv, err := tlscrypto.ParsePKCS1PrivateKey(der); err == nil {
		return NewRSAPrivateKey(priv, false), nil
	}

	if alg, bits, err := tlscrypto.UnwrapSPKI(der); err == nil {
		if alg != tlscrypto.AlgorithmRSA && alg != tlscrypto.AlgorithmRSAPSS {
			return nil, fmt.Errorf("%w: spki algorithm %s", ErrNotRSA, alg)
		}
		pub, err := tlscrypto.ParsePKCS1PublicKey(bits)
		if err != nil {
			return nil, fmt.Errorf("parse spki rsa key: %w", err)
		}
		return NewRSAPublicKey(pub, alg == tlscrypto.AlgorithmRSAPSS), nil
	}

	if pub, err := tlscrypto.ParsePKCS1PublicKey(der); err == nil {
		return NewRSAPublicKey(pub, false), nil
	}

	return nil, fmt.Errorf("%w: no rsa encoding matched", ErrUnsupportedFormat)
}

// ParseEC accepts SEC1 and PKCS#8 private keys and SubjectPublicKeyInfo public keys.
func (s *Software) ParseEC(der []byte) (*ECKey, error) {
	if priv, err := tlscrypto.ParseECPrivateKey(der); err == nil {
		return NewECPrivateKey(priv), nil
	}
	pub, err := tlscrypto.ParseECPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotEC, err)
	}
	return NewECPublicKey(pub), nil
}

// CheckRSA validates the relationship between modulus, exponents and primes.
func (s *Software) CheckRSA(key *RSAKey) error {
	priv := key.Private()
	if priv == nil {
		return ErrNoPrivateKey
	}
	if err := priv.Validate(); err != nil {
		return fmt.Errorf("rsa key check: %w", err)
	}
	priv.Precompute()
	return nil
}

func (s *Software) SignPKCS1v15(key *RSAKey, h crypto.Hash, digest []byte) ([]byte, error) {
	priv := key.Private()
	if priv == nil {
		return nil, ErrNoPrivateKey
	}
	return tlscrypto.SignPKCS1v15(priv, h, digest)
}

func (s *Software) VerifyPKCS1v15(key *RSAKey, h crypto.Hash, digest, sig []byte) bool {
	pub := key.Public()
	if pub == nil {
		return false
	}
	return tlscrypto.VerifyPKCS1v15(pub, h, digest, sig)
}

func (s *Software) SignPSS(key *RSAKey, h crypto.Hash, digest []byte) ([]byte, error) {
	priv := key.Private()
	if priv == nil {
		return nil, ErrNoPrivateKey
	}
	return tlscrypto.SignPSS(priv, h, digest)
}

func (s *Software) VerifyPSS(key *RSAKey, h crypto.Hash, digest, sig []byte) bool {
	pub := key.Public()
	if pub == nil {
		return false
	}
	return tlscrypto.VerifyPSS(pub, h, digest, sig)
}

func (s *Software) EncryptPKCS1v15(key *RSAKey, msg []byte) ([]byte, error) {
	pub := key.Public()
	if pub == nil {
		return nil, ErrNotRSA
	}
	return tlscrypto.EncryptPKCS1v15(pub, msg)
}

func (s *Software) DecryptPKCS1v15(key *RSAKey, ct []byte) ([]byte, error) {
	priv := key.Private()
	if priv == nil {
		return nil, ErrNoPrivateKey
	}
	return tlscrypto.DecryptPKCS1v15(priv, ct)
}

func (s *Software) SignECDSA(key *ECKey, digest []byte) ([]byte, error) {
	priv := key.Private()
	if priv == nil {
		return nil, ErrNoPrivateKey
	}
	return tlscrypto.SignECDSA(priv, digest)
}

func (s *Software) VerifyECDSA(key *ECKey, digest, sig []byte) bool {
	pub := key.Public()
	if pub == nil {
		return false
	}
	return tlscrypto.VerifyECDSA(pub, digest, sig)
}

// SupportsRSAPSS is always true for the standard library.
func (s *Software) SupportsRSAPSS() bool {
	return true
}
