package pkey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	encoding_asn1 "encoding/asn1"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/glinharesb/tlskey/internal/blob"
	tlscrypto "github.com/glinharesb/tlskey/internal/crypto"
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/provider"
)

var (
	testRSAKey      = sync.OnceValues(func() (*rsa.PrivateKey, error) { return rsa.GenerateKey(rand.Reader, 2048) })
	testOtherRSAKey = sync.OnceValues(func() (*rsa.PrivateKey, error) { return rsa.GenerateKey(rand.Reader, 2048) })
)

func rsaKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()
	a, err := testRSAKey()
	require.NoError(t, err)
	b, err := testOtherRSAKey()
	require.NoError(t, err)
	return a, b
}

// setRSAPSSSupported overrides the process gate for the duration of the test.
func setRSAPSSSupported(t *testing.T, ok bool) {
	t.Helper()
	prev := rsaPSSSupported
	rsaPSSSupported = func() bool { return ok }
	t.Cleanup(func() { rsaPSSSupported = prev })
}

func newTestLoader() *Loader {
	return NewLoader(provider.NewSoftware(), nil)
}

// keyPair holds DER encodings of both halves of one key.
type keyPair struct {
	private []byte
	public  []byte
}

func rsaPair(t *testing.T, key *rsa.PrivateKey) keyPair {
	t.Helper()
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return keyPair{private: x509.MarshalPKCS1PrivateKey(key), public: pub}
}

func pssPair(t *testing.T, key *rsa.PrivateKey) keyPair {
	t.Helper()
	priv, err := tlscrypto.MarshalPSSPrivateKey(key)
	require.NoError(t, err)
	pub, err := tlscrypto.MarshalPSSPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return keyPair{private: priv, public: pub}
}

func ecPair(t *testing.T, curve elliptic.Curve) (keyPair, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	priv, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return keyPair{private: priv, public: pub}, key
}

// handles loads both halves of p as variant v.
func handles(t *testing.T, l *Loader, v Variant, p keyPair) (pub, priv Key) {
	t.Helper()
	priv, err := l.PrivateKey(v, p.private)
	require.NoError(t, err)
	pub, err = l.PublicKey(v, p.public)
	require.NoError(t, err)
	t.Cleanup(func() {
		priv.Release()
		pub.Release()
	})
	return pub, priv
}

func digestOver(t *testing.T, alg hash.Algorithm, data []byte) *hash.State {
	t.Helper()
	h := hash.New()
	require.NoError(t, h.Init(alg))
	require.NoError(t, h.Update(data))
	return h
}

func signBlob(t *testing.T, k Key) *blob.Blob {
	t.Helper()
	size, err := k.Size()
	require.NoError(t, err)
	return blob.Alloc(size)
}

func selfSignedCert(t *testing.T, key *ecdsa.PrivateKey) []byte {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "tlskey test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return der
}

// withSubjectPublicKeyInfo rewrites the subject key of a certificate. The
// signature is left as is; parsing does not check it.
func withSubjectPublicKeyInfo(t *testing.T, certDER, spki []byte) []byte {
	t.Helper()
	input := cryptobyte.String(certDER)
	var cert, tbs cryptobyte.String
	require.True(t, input.ReadASN1(&cert, asn1.SEQUENCE))
	require.True(t, cert.ReadASN1(&tbs, asn1.SEQUENCE))

	var fields [][]byte
	for !tbs.Empty() {
		var elem cryptobyte.String
		var tag asn1.Tag
		require.True(t, tbs.ReadAnyASN1Element(&elem, &tag))
		fields = append(fields, elem)
	}
	// version, serial, signature, issuer, validity, subject, subjectPublicKeyInfo
	require.Greater(t, len(fields), 6)
	fields[6] = spki

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			for _, f := range fields {
				b.AddBytes(f)
			}
		})
		b.AddBytes(cert)
	})
	return b.BytesOrPanic()
}

// inconsistentPKCS1 encodes key with a private exponent that no longer
// matches its primes. It still decodes structurally.
func inconsistentPKCS1(key *rsa.PrivateKey) []byte {
	key.Precompute()
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		b.AddASN1BigInt(key.N)
		b.AddASN1Int64(int64(key.E))
		b.AddASN1BigInt(new(big.Int).Add(key.D, big.NewInt(2)))
		b.AddASN1BigInt(key.Primes[0])
		b.AddASN1BigInt(key.Primes[1])
		b.AddASN1BigInt(key.Precomputed.Dp)
		b.AddASN1BigInt(key.Precomputed.Dq)
		b.AddASN1BigInt(key.Precomputed.Qinv)
	})
	return b.BytesOrPanic()
}

func pssPKCS8(inner []byte) []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10})
		})
		b.AddASN1OctetString(inner)
	})
	return b.BytesOrPanic()
}
