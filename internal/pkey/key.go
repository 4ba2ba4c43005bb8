// Package pkey binds RSA, RSA-PSS and ECDSA key material to handles the TLS
// handshake signs and verifies with.
//
// A handle only exposes the capabilities of its variant: encryption exists
// on *RSAKey alone and curve matching on *ECDSAKey alone. Handles are not
// safe for concurrent Release; concurrent Verify is fine if the provider is.
package pkey

import (
	"crypto"
	"fmt"

	"github.com/glinharesb/tlskey/internal/blob"
	tlscrypto "github.com/glinharesb/tlskey/internal/crypto"
	"github.com/glinharesb/tlskey/internal/hash"
)

// Key is a handle over exclusively owned key material.
type Key interface {
	Variant() Variant
	// Size is the maximum signature length the key can produce.
	Size() (int, error)
	// Sign finalizes digest and writes the signature into out, which must be
	// at least Size bytes. out's used length is set to the signature length.
	Sign(alg SignatureAlgorithm, digest *hash.State, out *blob.Blob) error
	// Verify finalizes digest and checks sig against it. Handles holding a
	// private component refuse to verify.
	Verify(alg SignatureAlgorithm, digest *hash.State, sig *blob.Blob) error
	HasPrivate() bool
	// Release frees the key material. Later calls are no-ops and every other
	// operation fails with ErrNullReference.
	Release() error
}

// Encrypter is implemented by variants usable for RSA key exchange.
type Encrypter interface {
	Encrypt(in, out *blob.Blob) error
}

// Decrypter is implemented by variants usable for RSA key exchange.
type Decrypter interface {
	Decrypt(in, out *blob.Blob) error
}

// CurveMatcher is implemented by EC variants.
type CurveMatcher interface {
	Curve() Curve
	MatchesCurve(c Curve) error
}

var (
	_ Key          = (*RSAKey)(nil)
	_ Encrypter    = (*RSAKey)(nil)
	_ Decrypter    = (*RSAKey)(nil)
	_ Key          = (*RSAPSSKey)(nil)
	_ Key          = (*ECDSAKey)(nil)
	_ CurveMatcher = (*ECDSAKey)(nil)
)

func finalize(digest *hash.State) (crypto.Hash, []byte, error) {
	if digest == nil {
		return 0, nil, fmt.Errorf("%w: hash state", ErrNullReference)
	}
	sum, err := digest.Digest()
	if err != nil {
		return 0, nil, fmt.Errorf("finalize digest: %w", err)
	}
	return digest.Algorithm().CryptoHash(), sum, nil
}

// finalizePSS is finalize for PSS padding. Digests MGF1 cannot use are
// refused before the state is consumed. An uninitialized state is left to
// finalize to report.
func finalizePSS(digest *hash.State) (crypto.Hash, []byte, error) {
	if alg := digest.Algorithm(); alg != hash.None && !tlscrypto.PSSHashUsable(alg.CryptoHash()) {
		return 0, nil, fmt.Errorf("%w: pss over %s", ErrUnsupportedFeature, alg)
	}
	return finalize(digest)
}

func checkOutput(out *blob.Blob, size int) error {
	if out == nil {
		return fmt.Errorf("%w: signature output", ErrNullReference)
	}
	if out.Capacity() < size {
		return fmt.Errorf("%w: capacity %d, need %d", ErrSizeMismatch, out.Capacity(), size)
	}
	return nil
}

func writeOutput(out *blob.Blob, sig []byte) error {
	if err := out.Write(sig); err != nil {
		return fmt.Errorf("%w: %w", ErrSizeMismatch, err)
	}
	return nil
}

func checkInput(sig *blob.Blob) error {
	if sig == nil {
		return fmt.Errorf("%w: signature input", ErrNullReference)
	}
	return nil
}

func providerFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrProviderFailure, op, err)
}
