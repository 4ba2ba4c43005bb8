package pkey

import (
	"crypto/elliptic"
	"fmt"
	"strings"
)

// Variant is the kind of key bound to a handle. It never changes after construction.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantRSA
	VariantRSAPSS
	VariantECDSA
)

func (v Variant) String() string {
	switch v {
	case VariantRSA:
		return "RSA"
	case VariantRSAPSS:
		return "RSA_PSS"
	case VariantECDSA:
		return "ECDSA"
	default:
		return "UNKNOWN"
	}
}

// SignatureAlgorithm is the signature half of a TLS signature scheme.
type SignatureAlgorithm int

const (
	SignatureAnonymous SignatureAlgorithm = iota
	// SignatureRSA is RSASSA-PKCS1-v1_5.
	SignatureRSA
	// SignatureRSAPSSRSAE is PSS padding over a key encoded as rsaEncryption.
	SignatureRSAPSSRSAE
	// SignatureRSAPSSPSS is PSS padding over a key encoded as id-RSASSA-PSS.
	SignatureRSAPSSPSS
	SignatureECDSA
)

func (a SignatureAlgorithm) String() string {
	switch a {
	case SignatureAnonymous:
		return "ANONYMOUS"
	case SignatureRSA:
		return "RSA_PKCS1"
	case SignatureRSAPSSRSAE:
		return "RSA_PSS_RSAE"
	case SignatureRSAPSSPSS:
		return "RSA_PSS_PSS"
	case SignatureECDSA:
		return "ECDSA"
	default:
		return "UNKNOWN"
	}
}

// Family returns the key variant a signature algorithm may be used with.
// Anonymous and unknown algorithms have no family.
func (a SignatureAlgorithm) Family() Variant {
	switch a {
	case SignatureRSA, SignatureRSAPSSRSAE:
		return VariantRSA
	case SignatureRSAPSSPSS:
		return VariantRSAPSS
	case SignatureECDSA:
		return VariantECDSA
	default:
		return VariantUnknown
	}
}

// Curve is a named elliptic curve, identified by its TLS supported_groups value.
type Curve uint16

const (
	CurveUnknown Curve = 0
	CurveP256    Curve = 23
	CurveP384    Curve = 24
	CurveP521    Curve = 25
)

func (c Curve) String() string {
	switch c {
	case CurveP256:
		return "P-256"
	case CurveP384:
		return "P-384"
	case CurveP521:
		return "P-521"
	default:
		return "UNKNOWN"
	}
}

// Elliptic returns the curve implementation, or nil for CurveUnknown.
func (c Curve) Elliptic() elliptic.Curve {
	switch c {
	case CurveP256:
		return elliptic.P256()
	case CurveP384:
		return elliptic.P384()
	case CurveP521:
		return elliptic.P521()
	default:
		return nil
	}
}

// CurveOf maps an elliptic curve to its identifier.
func CurveOf(c elliptic.Curve) Curve {
	if c == nil {
		return CurveUnknown
	}
	switch c.Params().Name {
	case "P-256":
		return CurveP256
	case "P-384":
		return CurveP384
	case "P-521":
		return CurveP521
	default:
		return CurveUnknown
	}
}

// ParseCurve accepts NIST and SEC names, e.g. "P-384" or "secp384r1".
func ParseCurve(name string) (Curve, error) {
	switch strings.ToLower(name) {
	case "p-256", "p256", "secp256r1", "prime256v1":
		return CurveP256, nil
	case "p-384", "p384", "secp384r1":
		return CurveP384, nil
	case "p-521", "p521", "secp521r1":
		return CurveP521, nil
	default:
		return CurveUnknown, fmt.Errorf("%w: curve %q", ErrUnsupportedFeature, name)
	}
}
