package stuffer

import (
	"encoding/pem"
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"

	tlscrypto "github.com/glinharesb/tlskey/internal/crypto"
)

var (
	ErrNoCertificate = errors.New("stuffer: no certificate in PEM input")
	ErrNoPrivateKey  = errors.New("stuffer: no private key in PEM input")
)

// KeyType is the key algorithm suggested by a PEM block. It is a hint only.
type KeyType int

const (
	KeyTypeUnknown KeyType = iota
	KeyTypeRSA
	KeyTypeRSAPSS
	KeyTypeEC
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeRSAPSS:
		return "RSA_PSS"
	case KeyTypeEC:
		return "EC"
	default:
		return "UNKNOWN"
	}
}

// maxCertificateLength is the largest DER a uint24 length prefix can frame.
const maxCertificateLength = 1<<24 - 1

// CertificateFromPEM decodes every CERTIFICATE block in the unread data of
// in and writes each DER to out behind a 3-byte length, as in a TLS
// certificate_list. Other block types are skipped. in is fully consumed.
func CertificateFromPEM(in, out *Stuffer) error {
	rest, err := in.RawRead(in.DataAvailable())
	if err != nil {
		return err
	}
	var b cryptobyte.Builder
	count := 0
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		if len(block.Bytes) == 0 || len(block.Bytes) > maxCertificateLength {
			return fmt.Errorf("stuffer: certificate %d has length %d", count, len(block.Bytes))
		}
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(block.Bytes)
		})
		count++
	}
	if count == 0 {
		return ErrNoCertificate
	}
	framed, err := b.Bytes()
	if err != nil {
		return fmt.Errorf("stuffer: frame certificates: %w", err)
	}
	out.Write(framed)
	return nil
}

// ReadCertificate consumes one length-prefixed DER written by CertificateFromPEM.
func (s *Stuffer) ReadCertificate() ([]byte, error) {
	input := cryptobyte.String(s.Remaining())
	var der cryptobyte.String
	if !input.ReadUint24LengthPrefixed(&der) {
		return nil, fmt.Errorf("%w: certificate entry", ErrOutOfData)
	}
	if _, err := s.RawRead(3); err != nil {
		return nil, err
	}
	return s.Read(len(der))
}

// PrivateKeyFromPEM decodes the first private key block in the unread data
// of in and writes its DER to out. EC PARAMETERS blocks are skipped.
func PrivateKeyFromPEM(in, out *Stuffer) (KeyType, error) {
	rest := in.Remaining()
	for {
		block, next := pem.Decode(rest)
		if block == nil {
			return KeyTypeUnknown, ErrNoPrivateKey
		}
		consumed := len(rest) - len(next)
		rest = next

		var kt KeyType
		switch block.Type {
		case "RSA PRIVATE KEY":
			kt = KeyTypeRSA
		case "EC PRIVATE KEY":
			kt = KeyTypeEC
		case "PRIVATE KEY":
			kt = pkcs8KeyType(block.Bytes)
		default:
			if _, err := in.RawRead(consumed); err != nil {
				return KeyTypeUnknown, err
			}
			continue
		}
		if _, err := in.RawRead(consumed); err != nil {
			return KeyTypeUnknown, err
		}
		out.Write(block.Bytes)
		return kt, nil
	}
}

// pkcs8KeyType maps the AlgorithmIdentifier of a PrivateKeyInfo.
func pkcs8KeyType(der []byte) KeyType {
	alg, _, err := tlscrypto.UnwrapPKCS8(der)
	if err != nil {
		return KeyTypeUnknown
	}
	switch alg {
	case tlscrypto.AlgorithmRSA:
		return KeyTypeRSA
	case tlscrypto.AlgorithmRSAPSS:
		return KeyTypeRSAPSS
	case tlscrypto.AlgorithmEC:
		return KeyTypeEC
	default:
		return KeyTypeUnknown
	}
}
