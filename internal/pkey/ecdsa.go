package pkey

import (
	"fmt"

	"github.com/glinharesb/tlskey/internal/blob"
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/provider"
)

// ECDSAKey signs with ECDSA over a named curve. Signatures are ASN.1 DER and
// vary in length, so Size is an upper bound.
type ECDSAKey struct {
	provider provider.Provider
	key      *provider.ECKey
	curve    Curve
}

// newECDSAKey takes ownership of mat. It is freed if construction fails.
func newECDSAKey(p provider.Provider, mat *provider.ECKey, private bool) (k *ECDSAKey, err error) {
	defer func() {
		if err != nil {
			mat.Free()
		}
	}()
	if mat == nil {
		return nil, fmt.Errorf("%w: ec key material", ErrNullReference)
	}
	curve := CurveOf(mat.Curve())
	if curve == CurveUnknown {
		return nil, fmt.Errorf("%w: curve %s", ErrUnsupportedFeature, mat.Curve().Params().Name)
	}
	if private && !mat.HasPrivate() {
		return nil, fmt.Errorf("%w: private key has no scalar", ErrKeyMismatch)
	}
	if !private && mat.HasPrivate() {
		return nil, fmt.Errorf("%w: public key has a private scalar", ErrKeyMismatch)
	}
	return &ECDSAKey{provider: p, key: mat, curve: curve}, nil
}

func (k *ECDSAKey) Variant() Variant { return VariantECDSA }

func (k *ECDSAKey) material() (*provider.ECKey, error) {
	if k == nil || k.key == nil {
		return nil, fmt.Errorf("%w: ecdsa key released", ErrNullReference)
	}
	return k.key, nil
}

// Size is the longest DER encoding of an ECDSA signature over the key's curve.
func (k *ECDSAKey) Size() (int, error) {
	mat, err := k.material()
	if err != nil {
		return 0, err
	}
	return maxSignatureSize(mat.Curve().Params().BitSize), nil
}

func (k *ECDSAKey) HasPrivate() bool {
	return k != nil && k.key.HasPrivate()
}

// Curve returns CurveUnknown once the key is released.
func (k *ECDSAKey) Curve() Curve {
	if k == nil || k.key == nil {
		return CurveUnknown
	}
	return k.curve
}

// MatchesCurve fails with ErrKeyMismatch unless the key is defined over c.
func (k *ECDSAKey) MatchesCurve(c Curve) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if got := CurveOf(mat.Curve()); got != c {
		return fmt.Errorf("%w: key curve %s, want %s", ErrKeyMismatch, got, c)
	}
	return nil
}

func (k *ECDSAKey) Sign(alg SignatureAlgorithm, digest *hash.State, out *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if err := CheckSignatureAlgorithm(VariantECDSA, alg); err != nil {
		return err
	}
	if !mat.HasPrivate() {
		return fmt.Errorf("%w: sign with public key", ErrKeyMismatch)
	}
	size, err := k.Size()
	if err != nil {
		return err
	}
	if err := checkOutput(out, size); err != nil {
		return err
	}
	_, sum, err := finalize(digest)
	if err != nil {
		return err
	}
	sig, err := k.provider.SignECDSA(mat, sum)
	if err != nil {
		return providerFailure("ecdsa sign", err)
	}
	return writeOutput(out, sig)
}

func (k *ECDSAKey) Verify(alg SignatureAlgorithm, digest *hash.State, sig *blob.Blob) error {
	mat, err := k.material()
	if err != nil {
		return err
	}
	if err := CheckSignatureAlgorithm(VariantECDSA, alg); err != nil {
		return err
	}
	if mat.HasPrivate() {
		return fmt.Errorf("%w: verify with private key", ErrKeyMismatch)
	}
	if err := checkInput(sig); err != nil {
		return err
	}
	_, sum, err := finalize(digest)
	if err != nil {
		return err
	}
	if !k.provider.VerifyECDSA(mat, sum, sig.Bytes()) {
		return ErrBadSignature
	}
	return nil
}

func (k *ECDSAKey) Release() error {
	if k == nil || k.key == nil {
		return nil
	}
	k.key.Free()
	k.key = nil
	return nil
}

// maxSignatureSize is the length of SEQUENCE { INTEGER r, INTEGER s } when
// both integers take their longest form, including a leading zero byte.
func maxSignatureSize(bits int) int {
	n := (bits + 7) / 8
	if bits%8 == 0 {
		n++
	}
	integer := 1 + derLengthSize(n) + n
	body := 2 * integer
	return 1 + derLengthSize(body) + body
}

func derLengthSize(n int) int {
	size := 1
	if n >= 0x80 {
		for ; n > 0; n >>= 8 {
			size++
		}
	}
	return size
}
