package pkey

import (
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"

	tlscrypto "github.com/glinharesb/tlskey/internal/crypto"
	"github.com/glinharesb/tlskey/internal/provider"
	"github.com/glinharesb/tlskey/internal/stuffer"
)

// Loader turns decoded DER into key handles. A handle is returned only when
// every check passed; on failure the decoded material is freed.
type Loader struct {
	provider provider.Provider
	logger   *slog.Logger
}

func NewLoader(p provider.Provider, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{provider: p, logger: logger}
}

// Provider returns the provider handles from this loader are bound to.
func (l *Loader) Provider() provider.Provider {
	return l.provider
}

// PublicKey builds a public handle of variant v.
func (l *Loader) PublicKey(v Variant, der []byte) (Key, error) {
	return l.load(v, der, false)
}

// PrivateKey builds a private handle of variant v.
func (l *Loader) PrivateKey(v Variant, der []byte) (Key, error) {
	return l.load(v, der, true)
}

// PrivateKeyFromDER builds a private handle without a caller-chosen variant.
// A PKCS#8 algorithm identifier decides the variant. Otherwise hint is tried
// first, then RSA, then EC; the first encoding that decodes is used.
func (l *Loader) PrivateKeyFromDER(der []byte, hint stuffer.KeyType) (Key, error) {
	if len(der) == 0 {
		return nil, fmt.Errorf("%w: private key bytes", ErrNullReference)
	}
	if alg, _, err := tlscrypto.UnwrapPKCS8(der); err == nil {
		if v := variantOfAlgorithm(alg); v != VariantUnknown {
			if hinted := variantOfKeyType(hint); hinted != VariantUnknown && hinted != v {
				l.logger.Debug("key type hint ignored", "hint", hint, "encoded", v)
			}
			return l.PrivateKey(v, der)
		}
	}

	candidates := []Variant{VariantRSA, VariantECDSA}
	if v := variantOfKeyType(hint); v == VariantECDSA {
		candidates = []Variant{VariantECDSA, VariantRSA}
	}
	var lastErr error
	for _, v := range candidates {
		key, err := l.decodeAndBuild(v, der, true)
		if err == nil {
			return key, nil
		}
		if !isDecodeError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// PublicKeyFromCertificate builds a public handle from the subject key of a
// DER certificate. id-RSASSA-PSS keys map to the RSA-PSS variant.
func (l *Loader) PublicKeyFromCertificate(der []byte) (Key, error) {
	if len(der) == 0 {
		return nil, fmt.Errorf("%w: certificate bytes", ErrNullReference)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, providerFailure("parse certificate", err)
	}
	spki := cert.RawSubjectPublicKeyInfo

	switch cert.PublicKeyAlgorithm {
	case x509.RSA:
		return l.PublicKey(VariantRSA, spki)
	case x509.ECDSA:
		return l.PublicKey(VariantECDSA, spki)
	}
	alg, _, err := tlscrypto.UnwrapSPKI(spki)
	if err != nil {
		return nil, providerFailure("certificate public key", err)
	}
	if alg == tlscrypto.AlgorithmRSAPSS {
		return l.PublicKey(VariantRSAPSS, spki)
	}
	return nil, fmt.Errorf("%w: certificate key algorithm %s", ErrUnsupportedFeature, cert.PublicKeyAlgorithm)
}

func (l *Loader) load(v Variant, der []byte, private bool) (Key, error) {
	if len(der) == 0 {
		return nil, fmt.Errorf("%w: key bytes", ErrNullReference)
	}
	key, err := l.decodeAndBuild(v, der, private)
	if err != nil {
		l.logger.Debug("key construction failed", "variant", v, "private", private, "error", err)
		return nil, err
	}
	return key, nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	var de *decodeError
	return errors.As(err, &de)
}

func (l *Loader) decodeAndBuild(v Variant, der []byte, private bool) (Key, error) {
	switch v {
	case VariantRSA:
		mat, err := l.provider.ParseRSA(der)
		if err != nil {
			return nil, &decodeError{providerFailure("decode rsa key", err)}
		}
		return newRSAKey(l.provider, mat, private)
	case VariantRSAPSS:
		if !rsaPSSAvailable(l.provider) {
			return nil, fmt.Errorf("%w: rsa-pss keys", ErrUnsupportedFeature)
		}
		mat, err := l.provider.ParseRSA(der)
		if err != nil {
			return nil, &decodeError{providerFailure("decode rsa-pss key", err)}
		}
		return newRSAPSSKey(l.provider, mat, private)
	case VariantECDSA:
		mat, err := l.provider.ParseEC(der)
		if err != nil {
			return nil, &decodeError{providerFailure("decode ec key", err)}
		}
		return newECDSAKey(l.provider, mat, private)
	default:
		return nil, fmt.Errorf("%w: variant %s", ErrUnsupportedFeature, v)
	}
}

func variantOfAlgorithm(alg tlscrypto.KeyAlgorithm) Variant {
	switch alg {
	case tlscrypto.AlgorithmRSA:
		return VariantRSA
	case tlscrypto.AlgorithmRSAPSS:
		return VariantRSAPSS
	case tlscrypto.AlgorithmEC:
		return VariantECDSA
	default:
		return VariantUnknown
	}
}

func variantOfKeyType(t stuffer.KeyType) Variant {
	switch t {
	case stuffer.KeyTypeRSA:
		return VariantRSA
	case stuffer.KeyTypeRSAPSS:
		return VariantRSAPSS
	case stuffer.KeyTypeEC:
		return VariantECDSA
	default:
		return VariantUnknown
	}
}
