//go:generate mockgen -destination mock_provider/mock_provider.go github.com/glinharesb/tlskey/internal/provider Provider
package provider

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"errors"
)

var (
	ErrNotRSA            = errors.New("not an RSA key")
	ErrNotEC             = errors.New("not an EC key")
	ErrNoPrivateKey      = errors.New("key has no private component")
	ErrUnsupportedFormat = errors.New("unsupported key encoding")
)

// Provider abstracts the native cryptographic primitives the key layer is built on.
// Parsing is structural only; consistency of RSA private keys is checked by CheckRSA.
type Provider interface {
	ParseRSA(der []byte) (*RSAKey, error)
	ParseEC(der []byte) (*ECKey, error)
	CheckRSA(key *RSAKey) error

	SignPKCS1v15(key *RSAKey, h crypto.Hash, digest []byte) ([]byte, error)
	VerifyPKCS1v15(key *RSAKey, h crypto.Hash, digest, sig []byte) bool
	SignPSS(key *RSAKey, h crypto.Hash, digest []byte) ([]byte, error)
	VerifyPSS(key *RSAKey, h crypto.Hash, digest, sig []byte) bool
	EncryptPKCS1v15(key *RSAKey, msg []byte) ([]byte, error)
	DecryptPKCS1v15(key *RSAKey, ct []byte) ([]byte, error)

	SignECDSA(key *ECKey, digest []byte) ([]byte, error)
	VerifyECDSA(key *ECKey, digest, sig []byte) bool

	// SupportsRSAPSS reports whether RSA-PSS certificates and signatures are available.
	SupportsRSAPSS() bool
}

// RSAKey is native RSA material: a modulus and public exponent, plus the
// private exponent and primes when present.
type RSAKey struct {
	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
	pss  bool
}

func NewRSAPrivateKey(priv *rsa.PrivateKey, pss bool) *RSAKey {
	return &RSAKey{pub: &priv.PublicKey, priv: priv, pss: pss}
}

func NewRSAPublicKey(pub *rsa.PublicKey, pss bool) *RSAKey {
	return &RSAKey{pub: pub, pss: pss}
}

// HasPrivate reports whether the private exponent is present.
func (k *RSAKey) HasPrivate() bool {
	return k != nil && k.priv != nil && k.priv.D != nil && k.priv.D.Sign() > 0
}

func (k *RSAKey) Public() *rsa.PublicKey {
	if k == nil {
		return nil
	}
	return k.pub
}

func (k *RSAKey) Private() *rsa.PrivateKey {
	if !k.HasPrivate() {
		return nil
	}
	return k.priv
}

// PSS reports whether the key was encoded with the id-RSASSA-PSS algorithm identifier.
func (k *RSAKey) PSS() bool {
	return k != nil && k.pss
}

// Size returns the modulus length in bytes.
func (k *RSAKey) Size() int {
	if k == nil || k.pub == nil || k.pub.N == nil {
		return 0
	}
	return (k.pub.N.BitLen() + 7) / 8
}

// Free drops the key material. It is safe to call more than once.
func (k *RSAKey) Free() {
	if k == nil {
		return
	}
	k.pub = nil
	k.priv = nil
}

// ECKey is native EC material: a curve, a public point and the optional private scalar.
type ECKey struct {
	pub  *ecdsa.PublicKey
	priv *ecdsa.PrivateKey
}

func NewECPrivateKey(priv *ecdsa.PrivateKey) *ECKey {
	return &ECKey{pub: &priv.PublicKey, priv: priv}
}

func NewECPublicKey(pub *ecdsa.PublicKey) *ECKey {
	return &ECKey{pub: pub}
}

func (k *ECKey) HasPrivate() bool {
	return k != nil && k.priv != nil
}

// Curve returns the curve the key is defined over, or nil once freed.
func (k *ECKey) Curve() elliptic.Curve {
	if k == nil || k.pub == nil {
		return nil
	}
	return k.pub.Curve
}

func (k *ECKey) Public() *ecdsa.PublicKey {
	if k == nil {
		return nil
	}
	return k.pub
}

func (k *ECKey) Private() *ecdsa.PrivateKey {
	if k == nil {
		return nil
	}
	return k.priv
}

func (k *ECKey) Free() {
	if k == nil {
		return
	}
	k.pub = nil
	k.priv = nil
}
