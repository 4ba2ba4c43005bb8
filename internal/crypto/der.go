package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	encoding_asn1 "encoding/asn1"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidRSAEncryption = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidRSASSAPSS     = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10}
	oidECPublicKey   = encoding_asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
)

var ErrMalformedDER = errors.New("malformed DER")

// KeyAlgorithm is the algorithm named by a PKCS#8 or SubjectPublicKeyInfo AlgorithmIdentifier.
type KeyAlgorithm int

const (
	AlgorithmUnknown KeyAlgorithm = iota
	AlgorithmRSA
	AlgorithmRSAPSS
	AlgorithmEC
)

func (a KeyAlgorithm) String() string {
	switch a {
	case AlgorithmRSA:
		return "RSA"
	case AlgorithmRSAPSS:
		return "RSA_PSS"
	case AlgorithmEC:
		return "EC"
	default:
		return "UNKNOWN"
	}
}

func algorithmFromOID(oid encoding_asn1.ObjectIdentifier) KeyAlgorithm {
	switch {
	case oid.Equal(oidRSAEncryption):
		return AlgorithmRSA
	case oid.Equal(oidRSASSAPSS):
		return AlgorithmRSAPSS
	case oid.Equal(oidECPublicKey):
		return AlgorithmEC
	default:
		return AlgorithmUnknown
	}
}

func readAlgorithmIdentifier(s *cryptobyte.String) (KeyAlgorithm, error) {
	var algID cryptobyte.String
	var oid encoding_asn1.ObjectIdentifier
	if !s.ReadASN1(&algID, asn1.SEQUENCE) || !algID.ReadASN1ObjectIdentifier(&oid) {
		return AlgorithmUnknown, fmt.Errorf("%w: algorithm identifier", ErrMalformedDER)
	}
	return algorithmFromOID(oid), nil
}

// UnwrapPKCS8 returns the algorithm and the inner private key encoding of a
// PKCS#8 PrivateKeyInfo.
func UnwrapPKCS8(der []byte) (KeyAlgorithm, []byte, error) {
	input := cryptobyte.String(der)
	var info cryptobyte.String
	var version int64
	if !input.ReadASN1(&info, asn1.SEQUENCE) || !info.ReadASN1Integer(&version) {
		return AlgorithmUnknown, nil, fmt.Errorf("%w: private key info", ErrMalformedDER)
	}
	alg, err := readAlgorithmIdentifier(&info)
	if err != nil {
		return AlgorithmUnknown, nil, err
	}
	var inner cryptobyte.String
	if !info.ReadASN1(&inner, asn1.OCTET_STRING) {
		return AlgorithmUnknown, nil, fmt.Errorf("%w: private key octets", ErrMalformedDER)
	}
	return alg, inner, nil
}

// UnwrapSPKI returns the algorithm and the subjectPublicKey bits of a
// SubjectPublicKeyInfo.
func UnwrapSPKI(der []byte) (KeyAlgorithm, []byte, error) {
	input := cryptobyte.String(der)
	var spki cryptobyte.String
	if !input.ReadASN1(&spki, asn1.SEQUENCE) {
		return AlgorithmUnknown, nil, fmt.Errorf("%w: subject public key info", ErrMalformedDER)
	}
	alg, err := readAlgorithmIdentifier(&spki)
	if err != nil {
		return AlgorithmUnknown, nil, err
	}
	var bits encoding_asn1.BitString
	if !spki.ReadASN1BitString(&bits) {
		return AlgorithmUnknown, nil, fmt.Errorf("%w: subject public key bits", ErrMalformedDER)
	}
	return alg, bits.RightAlign(), nil
}

// ParsePKCS1PrivateKey decodes an RSAPrivateKey structure without checking
// that its components are consistent. Use (*rsa.PrivateKey).Validate for that.
func ParsePKCS1PrivateKey(der []byte) (*rsa.PrivateKey, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	var version int64
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !seq.ReadASN1Integer(&version) {
		return nil, fmt.Errorf("%w: rsa private key", ErrMalformedDER)
	}
	if version > 1 {
		return nil, fmt.Errorf("%w: unsupported rsa private key version %d", ErrMalformedDER, version)
	}

	n, e, d := new(big.Int), new(big.Int), new(big.Int)
	p, q := new(big.Int), new(big.Int)
	dp, dq, qinv := new(big.Int), new(big.Int), new(big.Int)
	for _, v := range []*big.Int{n, e, d, p, q, dp, dq, qinv} {
		if !seq.ReadASN1Integer(v) {
			return nil, fmt.Errorf("%w: rsa private key component", ErrMalformedDER)
		}
	}
	if !e.IsInt64() || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("%w: rsa public exponent out of range", ErrMalformedDER)
	}
	if n.Sign() <= 0 || e.Sign() <= 0 {
		return nil, fmt.Errorf("%w: rsa modulus or exponent not positive", ErrMalformedDER)
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	return key, nil
}

// ParsePKCS1PublicKey decodes an RSAPublicKey structure.
func ParsePKCS1PublicKey(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse rsa public key: %w", err)
	}
	return pub, nil
}

// MarshalPSSPrivateKey encodes key as PKCS#8 with the id-RSASSA-PSS algorithm
// and no parameters.
func MarshalPSSPrivateKey(key *rsa.PrivateKey) ([]byte, error) {
	inner := x509.MarshalPKCS1PrivateKey(key)
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidRSASSAPSS)
		})
		b.AddASN1OctetString(inner)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("marshal pss private key: %w", err)
	}
	return der, nil
}

// MarshalPSSPublicKey encodes pub as a SubjectPublicKeyInfo with the
// id-RSASSA-PSS algorithm and no parameters.
func MarshalPSSPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	inner := x509.MarshalPKCS1PublicKey(pub)
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidRSASSAPSS)
		})
		b.AddASN1BitString(inner)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("marshal pss public key: %w", err)
	}
	return der, nil
}
