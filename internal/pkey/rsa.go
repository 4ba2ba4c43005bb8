package pkey

import (
	"fmt"

	"github.com/glinharesb/tlskey/internal/blob"
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/provider"
)

// RSAKey signs with PKCS#1 v1.5 or, for rsa_pss_rsae schemes, PSS padding.
// It is the only variant that supports RSA key exchange.
type RSAKey struct {
	provider provider.Provider
	key      *provider.RSAKey
}

// newRSAKey takes ownership of mat. It is freed if construction fails.
func newRSAKey(p provider.Provider, mat *provider.RSAKey, private bool) (k *RSAKey, err error) {
	defer func() {
		if err != nil {
			mat.Free()
		}
	}()
	if mat == nil {
		return nil, fmt.Errorf("%w: rsa key material", ErrNullReference)
	}
	if mat.PSS() {
		return nil, fmt.Errorf("%w: key encoded for RSA-PSS only", ErrKeyMismatch)
	}
	if err := checkComponents(p, mat, private); err != nil {
		return nil, err
	}
	return &RSAKey{provider: p, key: mat}, nil
}

// checkComponents enforces the private/public split shared by both RSA variants.
// The consistency check only runs once a private component is known to exist.
func checkComponents(p provider.Provider, mat *provider.RSAKey, private bool) error {
	if !private {
		if mat.HasPrivate() {
			return fmt.Errorf("%w: public key has a private component", ErrKeyMismatch)
		}
		return nil
	}
	if !mat.HasPrivate() {
		return fmt.Errorf("%w: private key has no private exponent", ErrKeyMismatch)
	}
	if err := p.CheckRSA(mat); err != nil {
		return fmt.Errorf("%w: %w", ErrKeyCheckFailure, err)
	}
	return nil
}

func (k *RSAKey) Variant() Variant { return VariantRSA }

func (k *RSAKey) material() (*provider.RSAKey, error) {
	if k == nil || k.key == nil {
		return nil, fmt.Errorf("%w: rsa key released", ErrNullReference)
	}
	return k.key, nil
}

func (k *RSAKey) Size() (int, error) {
	mat, err := k.material()
	if err != nil {
		return 0, err
	}
	return mat.Size(), nil
}

func (k *RSAKey) HasPrivate() bool {
	return k != nil && k.key.HasPrivate()
}

func (k *RSAKey) Sign(alg SignatureAlgorithm, digest *hash.State, out *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if err := CheckSignatureAlgorithm(VariantRSA, alg); err != nil {
		return err
	}
	if alg == SignatureRSAPSSRSAE && !rsaPSSAvailable(k.provider) {
		return fmt.Errorf("%w: rsa_pss_rsae signing", ErrUnsupportedFeature)
	}
	if !mat.HasPrivate() {
		return fmt.Errorf("%w: sign with public key", ErrKeyMismatch)
	}
	if err := checkOutput(out, mat.Size()); err != nil {
		return err
	}
	finish := finalize
	if alg == SignatureRSAPSSRSAE {
		finish = finalizePSS
	}
	h, sum, err := finish(digest)
	if err != nil {
		return err
	}

	var sig []byte
	if alg == SignatureRSAPSSRSAE {
		sig, err = k.provider.SignPSS(mat, h, sum)
	} else {
		sig, err = k.provider.SignPKCS1v15(mat, h, sum)
	}
	if err != nil {
		return providerFailure("rsa sign", err)
	}
	return writeOutput(out, sig)
}

func (k *RSAKey) Verify(alg SignatureAlgorithm, digest *hash.State, sig *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if err := CheckSignatureAlgorithm(VariantRSA, alg); err != nil {
		return err
	}
	if alg == SignatureRSAPSSRSAE && !rsaPSSAvailable(k.provider) {
		return fmt.Errorf("%w: rsa_pss_rsae verification", ErrUnsupportedFeature)
	}
	if mat.HasPrivate() {
		return fmt.Errorf("%w: verify with private key", ErrKeyMismatch)
	}
	if err := checkInput(sig); err != nil {
		return err
	}
	finish := finalize
	if alg == SignatureRSAPSSRSAE {
		finish = finalizePSS
	}
	h, sum, err := finish(digest)
	if err != nil {
		return err
	}

	var ok bool
	if alg == SignatureRSAPSSRSAE {
		ok = k.provider.VerifyPSS(mat, h, sum, sig.Bytes())
	} else {
		ok = k.provider.VerifyPKCS1v15(mat, h, sum, sig.Bytes())
	}
	if !ok {
		return ErrBadSignature
	}
	return nil
}

// Encrypt encrypts a premaster secret to the peer's public key. out must hold
// at least Size bytes.
func (k *RSAKey) Encrypt(in, out *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if in == nil || out == nil {
		return fmt.Errorf("%w: encrypt buffers", ErrNullReference)
	}
	if mat.HasPrivate() {
		return fmt.Errorf("%w: encrypt with private key", ErrKeyMismatch)
	}
	if err := checkOutput(out, mat.Size()); err != nil {
		return err
	}
	ct, err := k.provider.EncryptPKCS1v15(mat, in.Bytes())
	if err != nil {
		return providerFailure("rsa encrypt", err)
	}
	return writeOutput(out, ct)
}

// Decrypt recovers a premaster secret. out's capacity bounds the plaintext.
func (k *RSAKey) Decrypt(in, out *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if in == nil || out == nil {
		return fmt.Errorf("%w: decrypt buffers", ErrNullReference)
	}
	if !mat.HasPrivate() {
		return fmt.Errorf("%w: decrypt with public key", ErrKeyMismatch)
	}
	pt, err := k.provider.DecryptPKCS1v15(mat, in.Bytes())
	if err != nil {
		return providerFailure("rsa decrypt", err)
	}
	return writeOutput(out, pt)
}

func (k *RSAKey) Release() error {
	if k == nil || k.key == nil {
		return nil
	}
	k.key.Free()
	k.key = nil
	return nil
}
