package pkey

import (
	"fmt"

	"github.com/glinharesb/tlskey/internal/blob"
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/provider"
)

// RSAPSSKey is an RSA key restricted to PSS signatures by its encoding.
// It has no encryption methods; PSS keys are never used for key exchange.
type RSAPSSKey struct {
	provider provider.Provider
	key      *provider.RSAKey
}

// newRSAPSSKey takes ownership of mat. It is freed if construction fails.
func newRSAPSSKey(p provider.Provider, mat *provider.RSAKey, private bool) (k *RSAPSSKey, err error) {
	defer func() {
		if err != nil {
			mat.Free()
		}
	}()
	if !rsaPSSAvailable(p) {
		return nil, fmt.Errorf("%w: rsa-pss keys", ErrUnsupportedFeature)
	}
	if mat == nil {
		return nil, fmt.Errorf("%w: rsa-pss key material", ErrNullReference)
	}
	if !mat.PSS() {
		return nil, fmt.Errorf("%w: key not encoded as id-RSASSA-PSS", ErrKeyMismatch)
	}
	if err := checkComponents(p, mat, private); err != nil {
		return nil, err
	}
	return &RSAPSSKey{provider: p, key: mat}, nil
}

func (k *RSAPSSKey) Variant() Variant { return VariantRSAPSS }

// material fails closed when the gate is off, so no PSS path is reachable.
func (k *RSAPSSKey) material() (*provider.RSAKey, error) {
	if k == nil {
		return nil, fmt.Errorf("%w: rsa-pss key", ErrNullReference)
	}
	if !rsaPSSAvailable(k.provider) {
		return nil, fmt.Errorf("%w: rsa-pss keys", ErrUnsupportedFeature)
	}
	if k.key == nil {
		return nil, fmt.Errorf("%w: rsa-pss key released", ErrNullReference)
	}
	return k.key, nil
}

func (k *RSAPSSKey) Size() (int, error) {
	mat, err := k.material()
	if err != nil {
		return 0, err
	}
	return mat.Size(), nil
}

func (k *RSAPSSKey) HasPrivate() bool {
	return k != nil && k.key.HasPrivate()
}

func (k *RSAPSSKey) Sign(alg SignatureAlgorithm, digest *hash.State, out *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if err := CheckSignatureAlgorithm(VariantRSAPSS, alg); err != nil {
		return err
	}
	if !mat.HasPrivate() {
		return fmt.Errorf("%w: sign with public key", ErrKeyMismatch)
	}
	if err := checkOutput(out, mat.Size()); err != nil {
		return err
	}
	h, sum, err := finalizePSS(digest)
	if err != nil {
		return err
	}
	sig, err := k.provider.SignPSS(mat, h, sum)
	if err != nil {
		return providerFailure("rsa-pss sign", err)
	}
	return writeOutput(out, sig)
}

func (k *RSAPSSKey) Verify(alg SignatureAlgorithm, digest *hash.State, sig *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if err := CheckSignatureAlgorithm(VariantRSAPSS, alg); err != nil {
		return err
	}
	if mat.HasPrivate() {
		return fmt.Errorf("%w: verify with private key", ErrKeyMismatch)
	}
	if err := checkInput(sig); err != nil {
		return err
	}
	h, sum, err := finalizePSS(digest)
	if err != nil {
		return err
	}
	if !k.provider.VerifyPSS(mat, h, sum, sig.Bytes()) {
		return ErrBadSignature
	}
	return nil
}

func (k *RSAPSSKey) Release() error {
	if k == nil || k.key == nil {
		return nil
	}
	k.key.Free()
	k.key = nil
	return nil
}
