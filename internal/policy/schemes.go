// Package policy holds the TLS signature schemes and the ordered preference
// tables the handshake layer offers them from.
package policy

import (
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/pkey"
)

// SignatureScheme pairs a digest with a signature algorithm.
type SignatureScheme struct {
	IANA   uint16
	Name   string
	Hash   hash.Algorithm
	SigAlg pkey.SignatureAlgorithm
	// Curve binds TLS 1.3 ECDSA schemes to one curve. CurveUnknown means any.
	Curve pkey.Curve
	// MinTLS13 schemes are only valid in TLS 1.3 and later.
	MinTLS13 bool
	// MaxTLS12 schemes are only valid up to TLS 1.2.
	MaxTLS12 bool
}

func (s *SignatureScheme) String() string {
	return s.Name
}

// RSAPKCS1MD5SHA1 is the TLS 1.0 and 1.1 scheme. It has no IANA code point.
var RSAPKCS1MD5SHA1 = &SignatureScheme{IANA: 0xffff, Name: "rsa_pkcs1_md5_sha1", Hash: hash.MD5SHA1, SigAlg: pkey.SignatureRSA, MaxTLS12: true}

var (
	RSAPKCS1SHA1   = &SignatureScheme{IANA: 0x0201, Name: "rsa_pkcs1_sha1", Hash: hash.SHA1, SigAlg: pkey.SignatureRSA, MaxTLS12: true}
	RSAPKCS1SHA224 = &SignatureScheme{IANA: 0x0301, Name: "rsa_pkcs1_sha224", Hash: hash.SHA224, SigAlg: pkey.SignatureRSA, MaxTLS12: true}
	RSAPKCS1SHA256 = &SignatureScheme{IANA: 0x0401, Name: "rsa_pkcs1_sha256", Hash: hash.SHA256, SigAlg: pkey.SignatureRSA, MaxTLS12: true}
	RSAPKCS1SHA384 = &SignatureScheme{IANA: 0x0501, Name: "rsa_pkcs1_sha384", Hash: hash.SHA384, SigAlg: pkey.SignatureRSA, MaxTLS12: true}
	RSAPKCS1SHA512 = &SignatureScheme{IANA: 0x0601, Name: "rsa_pkcs1_sha512", Hash: hash.SHA512, SigAlg: pkey.SignatureRSA, MaxTLS12: true}
)

// TLS 1.2 ECDSA schemes work with any curve.
var (
	ECDSASHA1   = &SignatureScheme{IANA: 0x0203, Name: "ecdsa_sha1", Hash: hash.SHA1, SigAlg: pkey.SignatureECDSA, MaxTLS12: true}
	ECDSASHA224 = &SignatureScheme{IANA: 0x0303, Name: "ecdsa_sha224", Hash: hash.SHA224, SigAlg: pkey.SignatureECDSA, MaxTLS12: true}
	ECDSASHA256 = &SignatureScheme{IANA: 0x0403, Name: "ecdsa_sha256", Hash: hash.SHA256, SigAlg: pkey.SignatureECDSA, MaxTLS12: true}
	ECDSASHA384 = &SignatureScheme{IANA: 0x0503, Name: "ecdsa_sha384", Hash: hash.SHA384, SigAlg: pkey.SignatureECDSA, MaxTLS12: true}
	ECDSASHA512 = &SignatureScheme{IANA: 0x0603, Name: "ecdsa_sha512", Hash: hash.SHA512, SigAlg: pkey.SignatureECDSA, MaxTLS12: true}
)

// TLS 1.3 reuses the ECDSA code points but binds each to a curve.
var (
	ECDSASecp256r1SHA256 = &SignatureScheme{IANA: 0x0403, Name: "ecdsa_secp256r1_sha256", Hash: hash.SHA256, SigAlg: pkey.SignatureECDSA, Curve: pkey.CurveP256, MinTLS13: true}
	ECDSASecp384r1SHA384 = &SignatureScheme{IANA: 0x0503, Name: "ecdsa_secp384r1_sha384", Hash: hash.SHA384, SigAlg: pkey.SignatureECDSA, Curve: pkey.CurveP384, MinTLS13: true}
	ECDSASecp521r1SHA512 = &SignatureScheme{IANA: 0x0603, Name: "ecdsa_secp521r1_sha512", Hash: hash.SHA512, SigAlg: pkey.SignatureECDSA, Curve: pkey.CurveP521, MinTLS13: true}
)

var (
	RSAPSSRSAESHA256 = &SignatureScheme{IANA: 0x0804, Name: "rsa_pss_rsae_sha256", Hash: hash.SHA256, SigAlg: pkey.SignatureRSAPSSRSAE}
	RSAPSSRSAESHA384 = &SignatureScheme{IANA: 0x0805, Name: "rsa_pss_rsae_sha384", Hash: hash.SHA384, SigAlg: pkey.SignatureRSAPSSRSAE}
	RSAPSSRSAESHA512 = &SignatureScheme{IANA: 0x0806, Name: "rsa_pss_rsae_sha512", Hash: hash.SHA512, SigAlg: pkey.SignatureRSAPSSRSAE}

	RSAPSSPSSSHA256 = &SignatureScheme{IANA: 0x0809, Name: "rsa_pss_pss_sha256", Hash: hash.SHA256, SigAlg: pkey.SignatureRSAPSSPSS}
	RSAPSSPSSSHA384 = &SignatureScheme{IANA: 0x080a, Name: "rsa_pss_pss_sha384", Hash: hash.SHA384, SigAlg: pkey.SignatureRSAPSSPSS}
	RSAPSSPSSSHA512 = &SignatureScheme{IANA: 0x080b, Name: "rsa_pss_pss_sha512", Hash: hash.SHA512, SigAlg: pkey.SignatureRSAPSSPSS}
)

// All lists every known scheme. Curve-bound ECDSA entries follow the
// unbound ones sharing their code point.
var All = []*SignatureScheme{
	RSAPSSPSSSHA256, RSAPSSPSSSHA384, RSAPSSPSSSHA512,
	RSAPSSRSAESHA256, RSAPSSRSAESHA384, RSAPSSRSAESHA512,
	ECDSASHA256, ECDSASHA384, ECDSASHA512, ECDSASHA224, ECDSASHA1,
	ECDSASecp256r1SHA256, ECDSASecp384r1SHA384, ECDSASecp521r1SHA512,
	RSAPKCS1SHA256, RSAPKCS1SHA384, RSAPKCS1SHA512, RSAPKCS1SHA224, RSAPKCS1SHA1,
	RSAPKCS1MD5SHA1,
}

// Lookup returns the first scheme with the given code point.
func Lookup(iana uint16) (*SignatureScheme, bool) {
	for _, s := range All {
		if s.IANA == iana {
			return s, true
		}
	}
	return nil, false
}

// ByName returns the scheme with the given IANA name.
func ByName(name string) (*SignatureScheme, bool) {
	for _, s := range All {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
