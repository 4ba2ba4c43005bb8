// Package chain loads a certificate chain and its private key into handles
// that are known to belong together.
package chain

import (
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/glinharesb/tlskey/internal/pkey"
	"github.com/glinharesb/tlskey/internal/stuffer"
)

var ErrEmptyChain = errors.New("chain: no certificates")

// ChainAndKey owns the leaf public handle and the private handle. Release
// frees both.
type ChainAndKey struct {
	certs    [][]byte
	leaf     *x509.Certificate
	public   pkey.Key
	private  pkey.Key
	curve    pkey.Curve
	keyPEM   []byte
	chainPEM []byte
}

// Load decodes certPEM and keyPEM, builds both handles and checks that they
// form a pair. ECDSA keys must also be on the leaf certificate's curve.
func Load(loader *pkey.Loader, certPEM, keyPEM []byte) (*ChainAndKey, error) {
	framed := stuffer.Alloc(len(certPEM))
	if err := stuffer.CertificateFromPEM(stuffer.FromBytes(certPEM), framed); err != nil {
		return nil, fmt.Errorf("decode certificate chain: %w", err)
	}
	var certs [][]byte
	for framed.DataAvailable() > 0 {
		der, err := framed.ReadCertificate()
		if err != nil {
			return nil, fmt.Errorf("read certificate %d: %w", len(certs), err)
		}
		certs = append(certs, der)
	}
	if len(certs) == 0 {
		return nil, ErrEmptyChain
	}

	leaf, err := x509.ParseCertificate(certs[0])
	if err != nil {
		return nil, fmt.Errorf("parse leaf certificate: %w", err)
	}

	keyDER := stuffer.Alloc(len(keyPEM))
	defer keyDER.Wipe()
	hint, err := stuffer.PrivateKeyFromPEM(stuffer.FromBytes(keyPEM), keyDER)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}

	pub, err := loader.PublicKeyFromCertificate(certs[0])
	if err != nil {
		return nil, fmt.Errorf("leaf public key: %w", err)
	}
	priv, err := loader.PrivateKeyFromDER(keyDER.Remaining(), hint)
	if err != nil {
		pub.Release()
		return nil, fmt.Errorf("private key: %w", err)
	}

	ck := &ChainAndKey{
		certs:    certs,
		leaf:     leaf,
		public:   pub,
		private:  priv,
		keyPEM:   append([]byte(nil), keyPEM...),
		chainPEM: append([]byte(nil), certPEM...),
	}
	if err := ck.verify(); err != nil {
		ck.Release()
		return nil, err
	}
	return ck, nil
}

func (ck *ChainAndKey) verify() error {
	if err := pkey.Match(ck.public, ck.private); err != nil {
		return fmt.Errorf("certificate does not match private key: %w", err)
	}
	m, ok := ck.public.(pkey.CurveMatcher)
	if !ok {
		return nil
	}
	ck.curve = m.Curve()
	pm, ok := ck.private.(pkey.CurveMatcher)
	if !ok {
		return fmt.Errorf("%w: private key has no curve", pkey.ErrKeyMismatch)
	}
	if err := pm.MatchesCurve(ck.curve); err != nil {
		return fmt.Errorf("private key curve: %w", err)
	}
	return nil
}

// RequireCurve fails unless the leaf key is on c.
func (ck *ChainAndKey) RequireCurve(c pkey.Curve) error {
	m, ok := ck.private.(pkey.CurveMatcher)
	if !ok {
		return fmt.Errorf("%w: %s key has no curve", pkey.ErrKeyMismatch, ck.private.Variant())
	}
	return m.MatchesCurve(c)
}

func (ck *ChainAndKey) Leaf() *x509.Certificate { return ck.leaf }

// Certificates returns the DER certificates, leaf first.
func (ck *ChainAndKey) Certificates() [][]byte { return ck.certs }

func (ck *ChainAndKey) PublicKey() pkey.Key  { return ck.public }
func (ck *ChainAndKey) PrivateKey() pkey.Key { return ck.private }

// Curve is CurveUnknown for RSA keys.
func (ck *ChainAndKey) Curve() pkey.Curve { return ck.curve }

// PEM returns the encodings the chain was loaded from.
func (ck *ChainAndKey) PEM() (certPEM, keyPEM []byte) { return ck.chainPEM, ck.keyPEM }

// Release frees both handles and wipes the retained key encoding.
func (ck *ChainAndKey) Release() error {
	if ck == nil {
		return nil
	}
	var errs []error
	if ck.private != nil {
		errs = append(errs, ck.private.Release())
	}
	if ck.public != nil {
		errs = append(errs, ck.public.Release())
	}
	clear(ck.keyPEM)
	return errors.Join(errs...)
}
