package provider

import (
	"crypto"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tlscrypto "github.com/glinharesb/tlskey/internal/crypto"
)

var testRSAKey = sync.OnceValues(func() (*rsa.PrivateKey, error) {
	return tlscrypto.GenerateRSAKey(2048)
})

func rsaKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := testRSAKey()
	require.NoError(t, err)
	return key
}

func TestParseRSAEncodings(t *testing.T) {
	key := rsaKey(t)
	s := NewSoftware()

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	spki, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pssPriv, err := tlscrypto.MarshalPSSPrivateKey(key)
	require.NoError(t, err)
	pssPub, err := tlscrypto.MarshalPSSPublicKey(&key.PublicKey)
	require.NoError(t, err)

	tests := []struct {
		name    string
		der     []byte
		private bool
		pss     bool
	}{
		{"pkcs1 private", x509.MarshalPKCS1PrivateKey(key), true, false},
		{"pkcs8 private", pkcs8, true, false},
		{"pkcs8 pss private", pssPriv, true, true},
		{"pkcs1 public", x509.MarshalPKCS1PublicKey(&key.PublicKey), false, false},
		{"spki public", spki, false, false},
		{"spki pss public", pssPub, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := s.ParseRSA(tt.der)
			require.NoError(t, err)
			assert.Equal(t, tt.private, parsed.HasPrivate())
			assert.Equal(t, tt.pss, parsed.PSS())
			assert.Equal(t, key.Size(), parsed.Size())
			assert.Equal(t, 0, parsed.Public().N.Cmp(key.N))
		})
	}
}

func TestParseRSARejectsEC(t *testing.T) {
	ecKey, err := tlscrypto.GenerateECDSAKey(elliptic.P256())
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)

	_, err = NewSoftware().ParseRSA(der)
	require.ErrorIs(t, err, ErrNotRSA)

	_, err = NewSoftware().ParseRSA([]byte("garbage"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseEC(t *testing.T) {
	key, err := tlscrypto.GenerateECDSAKey(elliptic.P384())
	require.NoError(t, err)
	s := NewSoftware()

	sec1, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	priv, err := s.ParseEC(sec1)
	require.NoError(t, err)
	assert.True(t, priv.HasPrivate())
	assert.Equal(t, elliptic.P384(), priv.Curve())

	spki, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pub, err := s.ParseEC(spki)
	require.NoError(t, err)
	assert.False(t, pub.HasPrivate())

	_, err = s.ParseEC(x509.MarshalPKCS1PrivateKey(rsaKey(t)))
	require.ErrorIs(t, err, ErrNotEC)
}

func TestCheckRSA(t *testing.T) {
	s := NewSoftware()
	parsed, err := s.ParseRSA(x509.MarshalPKCS1PrivateKey(rsaKey(t)))
	require.NoError(t, err)
	require.NoError(t, s.CheckRSA(parsed))

	pub := NewRSAPublicKey(&rsaKey(t).PublicKey, false)
	require.ErrorIs(t, s.CheckRSA(pub), ErrNoPrivateKey)
}

func TestSoftwareSignVerify(t *testing.T) {
	s := NewSoftware()
	key := NewRSAPrivateKey(rsaKey(t), false)
	d := sha256.Sum256([]byte("transcript"))

	sig, err := s.SignPSS(key, crypto.SHA256, d[:])
	require.NoError(t, err)
	assert.True(t, s.VerifyPSS(key, crypto.SHA256, d[:], sig))
	assert.False(t, s.VerifyPKCS1v15(key, crypto.SHA256, d[:], sig))

	ecKey, err := tlscrypto.GenerateECDSAKey(elliptic.P256())
	require.NoError(t, err)
	ec := NewECPrivateKey(ecKey)
	sig, err = s.SignECDSA(ec, d[:])
	require.NoError(t, err)
	assert.True(t, s.VerifyECDSA(ec, d[:], sig))
}

func TestSignWithoutPrivate(t *testing.T) {
	s := NewSoftware()
	pub := NewRSAPublicKey(&rsaKey(t).PublicKey, false)
	_, err := s.SignPKCS1v15(pub, crypto.SHA256, make([]byte, 32))
	require.ErrorIs(t, err, ErrNoPrivateKey)
}

func TestFreeIsIdempotent(t *testing.T) {
	key := NewRSAPrivateKey(rsaKey(t), false)
	key.Free()
	key.Free()
	assert.False(t, key.HasPrivate())
	assert.Nil(t, key.Public())
	assert.Zero(t, key.Size())

	var ec *ECKey
	ec.Free()
	assert.Nil(t, ec.Curve())
}
