package policy

import (
	"crypto/tls"
	"fmt"

	"github.com/glinharesb/tlskey/internal/pkey"
)

// Preferences is an ordered, read-only list of signature schemes.
type Preferences struct {
	Name    string
	Schemes []*SignatureScheme
}

// TestAll offers every known scheme.
var TestAll = &Preferences{Name: "test_all", Schemes: All}

// Default prefers PSS and curve-bound ECDSA and omits SHA-1 and MD5.
var Default = &Preferences{
	Name: "default",
	Schemes: []*SignatureScheme{
		ECDSASecp256r1SHA256, ECDSASecp384r1SHA384, ECDSASecp521r1SHA512,
		ECDSASHA256, ECDSASHA384, ECDSASHA512,
		RSAPSSPSSSHA256, RSAPSSPSSSHA384, RSAPSSPSSSHA512,
		RSAPSSRSAESHA256, RSAPSSRSAESHA384, RSAPSSRSAESHA512,
		RSAPKCS1SHA256, RSAPKCS1SHA384, RSAPKCS1SHA512,
	},
}

// LookupPreferences returns a built-in table by name. The empty name is Default.
func LookupPreferences(name string) (*Preferences, error) {
	switch name {
	case "", Default.Name:
		return Default, nil
	case TestAll.Name:
		return TestAll, nil
	default:
		return nil, fmt.Errorf("unknown signature preferences %q", name)
	}
}

// ForVersion returns the schemes of p that are valid in the given TLS
// protocol version, such as tls.VersionTLS12. Zero returns p unchanged.
func (p *Preferences) ForVersion(version uint16) *Preferences {
	if version == 0 {
		return p
	}
	out := &Preferences{Name: fmt.Sprintf("%s/%s", p.Name, tls.VersionName(version))}
	for _, s := range p.Schemes {
		if s.AllowedIn(version) {
			out.Schemes = append(out.Schemes, s)
		}
	}
	return out
}

// AllowedIn reports whether the scheme may be negotiated in version.
func (s *SignatureScheme) AllowedIn(version uint16) bool {
	if s.MinTLS13 && version < tls.VersionTLS13 {
		return false
	}
	if s.MaxTLS12 && version > tls.VersionTLS12 {
		return false
	}
	return true
}

// ParseVersion maps "1.0" through "1.3" onto the crypto/tls version numbers.
// The empty string gives zero, which does not filter.
func ParseVersion(name string) (uint16, error) {
	switch name {
	case "":
		return 0, nil
	case "1.0":
		return tls.VersionTLS10, nil
	case "1.1":
		return tls.VersionTLS11, nil
	case "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unknown tls version %q", name)
	}
}

// Compatible returns, in preference order, the schemes key can sign or
// verify with. RSA-PSS schemes are left out when the platform lacks PSS.
func (p *Preferences) Compatible(key pkey.Key) []*SignatureScheme {
	var out []*SignatureScheme
	for _, s := range p.Schemes {
		if s.Usable(key) {
			out = append(out, s)
		}
	}
	return out
}

// Usable reports whether key's variant and curve fit the scheme.
func (s *SignatureScheme) Usable(key pkey.Key) bool {
	if key == nil || pkey.CheckSignatureAlgorithm(key.Variant(), s.SigAlg) != nil {
		return false
	}
	if s.SigAlg == pkey.SignatureRSAPSSRSAE || s.SigAlg == pkey.SignatureRSAPSSPSS {
		if !pkey.IsRSAPSSSupported() {
			return false
		}
	}
	if s.Curve != pkey.CurveUnknown {
		m, ok := key.(pkey.CurveMatcher)
		if !ok || m.MatchesCurve(s.Curve) != nil {
			return false
		}
	}
	return true
}
