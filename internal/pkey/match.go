package pkey

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/glinharesb/tlskey/internal/blob"
	"github.com/glinharesb/tlskey/internal/hash"
)

// DefaultSignatureAlgorithm is the algorithm Match uses for each variant.
func DefaultSignatureAlgorithm(v Variant) SignatureAlgorithm {
	switch v {
	case VariantRSA:
		return SignatureRSA
	case VariantRSAPSS:
		return SignatureRSAPSSPSS
	case VariantECDSA:
		return SignatureECDSA
	default:
		return SignatureAnonymous
	}
}

// Match checks that pub and priv are the two halves of one key pair by
// signing a random SHA-256 digest with priv and verifying it with pub.
func Match(pub, priv Key) error {
	if pub == nil || priv == nil {
		return fmt.Errorf("%w: match requires both keys", ErrNullReference)
	}
	if pub.Variant() != priv.Variant() {
		return fmt.Errorf("%w: %s public key with %s private key", ErrKeyMismatch, pub.Variant(), priv.Variant())
	}

	input := make([]byte, 32)
	if _, err := rand.Read(input); err != nil {
		return fmt.Errorf("match input: %w", err)
	}
	signDigest, err := digestOf(input)
	if err != nil {
		return err
	}
	verifyDigest, err := digestOf(input)
	if err != nil {
		return err
	}

	size, err := priv.Size()
	if err != nil {
		return err
	}
	sig := blob.Alloc(size)
	defer sig.Zero()

	alg := DefaultSignatureAlgorithm(priv.Variant())
	if err := priv.Sign(alg, signDigest, sig); err != nil {
		return err
	}
	if err := pub.Verify(alg, verifyDigest, sig); err != nil {
		if errors.Is(err, ErrBadSignature) {
			return fmt.Errorf("%w: public key does not match private key", ErrKeyMismatch)
		}
		return err
	}
	return nil
}

func digestOf(data []byte) (*hash.State, error) {
	h := hash.New()
	if err := h.Init(hash.SHA256); err != nil {
		return nil, err
	}
	if err := h.Update(data); err != nil {
		return nil, err
	}
	return h, nil
}
