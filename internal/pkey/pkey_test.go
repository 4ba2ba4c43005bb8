package pkey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glinharesb/tlskey/internal/blob"
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/stuffer"
)

func TestCheckSignatureAlgorithm(t *testing.T) {
	tests := []struct {
		variant Variant
		alg     SignatureAlgorithm
		ok      bool
	}{
		{VariantRSA, SignatureRSA, true},
		{VariantRSA, SignatureRSAPSSRSAE, true},
		{VariantRSA, SignatureRSAPSSPSS, false},
		{VariantRSA, SignatureECDSA, false},
		{VariantRSAPSS, SignatureRSAPSSPSS, true},
		{VariantRSAPSS, SignatureRSA, false},
		{VariantRSAPSS, SignatureRSAPSSRSAE, false},
		{VariantECDSA, SignatureECDSA, true},
		{VariantECDSA, SignatureRSA, false},
		{VariantECDSA, SignatureAnonymous, false},
		{VariantUnknown, SignatureAnonymous, false},
	}
	for _, tt := range tests {
		t.Run(tt.variant.String()+"/"+tt.alg.String(), func(t *testing.T) {
			err := CheckSignatureAlgorithm(tt.variant, tt.alg)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrKeyMismatch)
			}
		})
	}
}

type variantCase struct {
	name    string
	variant Variant
	pair    keyPair
	other   keyPair
	algs    []SignatureAlgorithm
}

func variantCases(t *testing.T) []variantCase {
	a, b := rsaKeys(t)
	p256, _ := ecPair(t, elliptic.P256())
	p256b, _ := ecPair(t, elliptic.P256())
	return []variantCase{
		{"rsa", VariantRSA, rsaPair(t, a), rsaPair(t, b), []SignatureAlgorithm{SignatureRSA, SignatureRSAPSSRSAE}},
		{"rsa-pss", VariantRSAPSS, pssPair(t, a), pssPair(t, b), []SignatureAlgorithm{SignatureRSAPSSPSS}},
		{"ecdsa", VariantECDSA, p256, p256b, []SignatureAlgorithm{SignatureECDSA}},
	}
}

var signHashes = []hash.Algorithm{hash.SHA1, hash.SHA224, hash.SHA256, hash.SHA384, hash.SHA512}

func TestSignVerifyRoundTrip(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	for _, vc := range variantCases(t) {
		pub, priv := handles(t, l, vc.variant, vc.pair)
		otherPub, err := l.PublicKey(vc.variant, vc.other.public)
		require.NoError(t, err)

		for _, alg := range vc.algs {
			for _, h := range signHashes {
				t.Run(vc.name+"/"+alg.String()+"/"+h.String(), func(t *testing.T) {
					msg := []byte("handshake transcript")
					sig := signBlob(t, priv)
					require.NoError(t, priv.Sign(alg, digestOver(t, h, msg), sig))

					size, _ := priv.Size()
					assert.LessOrEqual(t, sig.Size(), size)

					require.NoError(t, pub.Verify(alg, digestOver(t, h, msg), sig))
					require.ErrorIs(t, otherPub.Verify(alg, digestOver(t, h, msg), sig), ErrBadSignature)
					require.ErrorIs(t, pub.Verify(alg, digestOver(t, h, []byte("tampered")), sig), ErrBadSignature)
				})
			}
		}
		require.NoError(t, otherPub.Release())
	}
}

func TestPrivatePublicConfusion(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	for _, vc := range variantCases(t) {
		t.Run(vc.name, func(t *testing.T) {
			pub, priv := handles(t, l, vc.variant, vc.pair)
			alg := vc.algs[0]
			assert.True(t, priv.HasPrivate())
			assert.False(t, pub.HasPrivate())

			err := pub.Sign(alg, digestOver(t, hash.SHA256, []byte("m")), signBlob(t, pub))
			require.ErrorIs(t, err, ErrKeyMismatch)

			sig := signBlob(t, priv)
			require.NoError(t, priv.Sign(alg, digestOver(t, hash.SHA256, []byte("m")), sig))
			err = priv.Verify(alg, digestOver(t, hash.SHA256, []byte("m")), sig)
			require.ErrorIs(t, err, ErrKeyMismatch)
		})
	}
}

func TestLoaderRejectsWrongHalf(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	for _, vc := range variantCases(t) {
		t.Run(vc.name, func(t *testing.T) {
			_, err := l.PrivateKey(vc.variant, vc.pair.public)
			require.ErrorIs(t, err, ErrKeyMismatch)
			_, err = l.PublicKey(vc.variant, vc.pair.private)
			require.ErrorIs(t, err, ErrKeyMismatch)
		})
	}
}

func TestSignatureAlgorithmMismatch(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)

	_, rsaPriv := handles(t, l, VariantRSA, rsaPair(t, a))
	_, pssPriv := handles(t, l, VariantRSAPSS, pssPair(t, a))

	err := rsaPriv.Sign(SignatureRSAPSSPSS, digestOver(t, hash.SHA256, nil), signBlob(t, rsaPriv))
	require.ErrorIs(t, err, ErrKeyMismatch)
	err = pssPriv.Sign(SignatureRSA, digestOver(t, hash.SHA256, nil), signBlob(t, pssPriv))
	require.ErrorIs(t, err, ErrKeyMismatch)
	err = pssPriv.Sign(SignatureECDSA, digestOver(t, hash.SHA256, nil), signBlob(t, pssPriv))
	require.ErrorIs(t, err, ErrKeyMismatch)
}

func TestPKCS1SignatureDoesNotVerifyAsPSS(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	pub, priv := handles(t, l, VariantRSA, rsaPair(t, a))

	sig := signBlob(t, priv)
	require.NoError(t, priv.Sign(SignatureRSA, digestOver(t, hash.SHA256, []byte("m")), sig))
	err := pub.Verify(SignatureRSAPSSRSAE, digestOver(t, hash.SHA256, []byte("m")), sig)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestPSSRejectsMD5SHA1(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	msg := []byte("tls 1.1 transcript")

	cases := []struct {
		name    string
		variant Variant
		pair    keyPair
		alg     SignatureAlgorithm
	}{
		{"rsa-pss", VariantRSAPSS, pssPair(t, a), SignatureRSAPSSPSS},
		{"rsae", VariantRSA, rsaPair(t, a), SignatureRSAPSSRSAE},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub, priv := handles(t, l, tc.variant, tc.pair)

			sig := signBlob(t, priv)
			err := priv.Sign(tc.alg, digestOver(t, hash.MD5SHA1, msg), sig)
			require.ErrorIs(t, err, ErrUnsupportedFeature)

			err = pub.Verify(tc.alg, digestOver(t, hash.MD5SHA1, msg), signBlob(t, pub))
			require.ErrorIs(t, err, ErrUnsupportedFeature)

			// the refused state is left unconsumed
			d := digestOver(t, hash.MD5SHA1, msg)
			require.Error(t, priv.Sign(tc.alg, d, sig))
			require.NoError(t, d.Update([]byte("more")))
		})
	}

	_, rsaPriv := handles(t, l, VariantRSA, rsaPair(t, a))
	require.NoError(t, rsaPriv.Sign(SignatureRSA, digestOver(t, hash.MD5SHA1, msg), signBlob(t, rsaPriv)))
}

func TestEncodingBindsVariant(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)

	_, err := l.PrivateKey(VariantRSA, pssPair(t, a).private)
	require.ErrorIs(t, err, ErrKeyMismatch)
	_, err = l.PrivateKey(VariantRSAPSS, rsaPair(t, a).private)
	require.ErrorIs(t, err, ErrKeyMismatch)
	_, err = l.PublicKey(VariantRSAPSS, rsaPair(t, a).public)
	require.ErrorIs(t, err, ErrKeyMismatch)
}

func TestMatchesCurve(t *testing.T) {
	l := newTestLoader()
	p256, _ := ecPair(t, elliptic.P256())
	p384, _ := ecPair(t, elliptic.P384())

	_, k256 := handles(t, l, VariantECDSA, p256)
	k384, _ := handles(t, l, VariantECDSA, p384)

	m256 := k256.(CurveMatcher)
	m384 := k384.(CurveMatcher)
	require.NoError(t, m256.MatchesCurve(CurveP256))
	require.ErrorIs(t, m256.MatchesCurve(CurveP384), ErrKeyMismatch)
	require.NoError(t, m384.MatchesCurve(CurveP384))
	require.ErrorIs(t, m384.MatchesCurve(CurveP256), ErrKeyMismatch)
	require.ErrorIs(t, m384.MatchesCurve(CurveP521), ErrKeyMismatch)
	assert.Equal(t, CurveP256, m256.Curve())
}

func TestCapabilitySets(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	ec, _ := ecPair(t, elliptic.P256())

	rsaPub, _ := handles(t, l, VariantRSA, rsaPair(t, a))
	pssPub, _ := handles(t, l, VariantRSAPSS, pssPair(t, a))
	ecPub, _ := handles(t, l, VariantECDSA, ec)

	_, ok := rsaPub.(Encrypter)
	assert.True(t, ok)
	_, ok = rsaPub.(CurveMatcher)
	assert.False(t, ok)
	_, ok = pssPub.(Encrypter)
	assert.False(t, ok)
	_, ok = pssPub.(Decrypter)
	assert.False(t, ok)
	_, ok = ecPub.(Decrypter)
	assert.False(t, ok)
}

func TestRSAEncryptDecrypt(t *testing.T) {
	l := newTestLoader()
	a, _ := rsaKeys(t)
	pub, priv := handles(t, l, VariantRSA, rsaPair(t, a))

	premaster := blob.New([]byte("0123456789abcdef0123456789abcdef0123456789abcdef"))
	ct := signBlob(t, pub)
	require.NoError(t, pub.(Encrypter).Encrypt(premaster, ct))

	out := blob.Alloc(48)
	require.NoError(t, priv.(Decrypter).Decrypt(ct, out))
	assert.Equal(t, premaster.Bytes(), out.Bytes())

	require.ErrorIs(t, priv.(Encrypter).Encrypt(premaster, signBlob(t, priv)), ErrKeyMismatch)
	require.ErrorIs(t, pub.(Decrypter).Decrypt(ct, blob.Alloc(48)), ErrKeyMismatch)
}

func TestSizeStable(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	_, rsaPriv := handles(t, l, VariantRSA, rsaPair(t, a))
	_, pssPriv := handles(t, l, VariantRSAPSS, pssPair(t, a))

	for _, k := range []Key{rsaPriv, pssPriv} {
		first, err := k.Size()
		require.NoError(t, err)
		assert.Equal(t, 256, first)
		for range 3 {
			again, err := k.Size()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}

	curves := map[elliptic.Curve]int{elliptic.P256(): 72, elliptic.P384(): 104, elliptic.P521(): 139}
	for curve, want := range curves {
		pair, _ := ecPair(t, curve)
		_, priv := handles(t, l, VariantECDSA, pair)
		size, err := priv.Size()
		require.NoError(t, err)
		assert.Equal(t, want, size, curve.Params().Name)

		for range 5 {
			sig := blob.Alloc(size)
			require.NoError(t, priv.Sign(SignatureECDSA, digestOver(t, hash.SHA256, []byte("m")), sig))
			assert.LessOrEqual(t, sig.Size(), size)
		}
	}
}

func TestSignOutputTooSmall(t *testing.T) {
	l := newTestLoader()
	pair, _ := ecPair(t, elliptic.P256())
	_, priv := handles(t, l, VariantECDSA, pair)

	err := priv.Sign(SignatureECDSA, digestOver(t, hash.SHA256, nil), blob.Alloc(10))
	require.ErrorIs(t, err, ErrSizeMismatch)
	err = priv.Sign(SignatureECDSA, digestOver(t, hash.SHA256, nil), nil)
	require.ErrorIs(t, err, ErrNullReference)
	err = priv.Sign(SignatureECDSA, nil, blob.Alloc(72))
	require.ErrorIs(t, err, ErrNullReference)
}

func TestReleaseIdempotent(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	for _, vc := range variantCases(t) {
		t.Run(vc.name, func(t *testing.T) {
			priv, err := l.PrivateKey(vc.variant, vc.pair.private)
			require.NoError(t, err)

			require.NoError(t, priv.Release())
			require.NoError(t, priv.Release())
			assert.False(t, priv.HasPrivate())

			_, err = priv.Size()
			require.ErrorIs(t, err, ErrNullReference)
			err = priv.Sign(vc.algs[0], digestOver(t, hash.SHA256, nil), blob.Alloc(512))
			require.ErrorIs(t, err, ErrNullReference)
		})
	}
}

func TestComputeRSAPSSSupported(t *testing.T) {
	tests := []struct {
		build   bool
		disable string
		want    bool
	}{
		{true, "", true},
		{true, "false", true},
		{true, "0", true},
		{true, "true", false},
		{true, "1", false},
		{true, "yes", false},
		{false, "", false},
		{false, "false", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, computeRSAPSSSupported(tt.build, tt.disable), "build=%v disable=%q", tt.build, tt.disable)
	}
}

func TestRSAPSSGateReadsEnvOnce(t *testing.T) {
	prev := rsaPSSSupported
	t.Cleanup(func() { rsaPSSSupported = prev })

	t.Setenv(DisableRSAPSSEnv, "true")
	rsaPSSSupported = newRSAPSSGate()
	assert.False(t, IsRSAPSSSupported())

	t.Setenv(DisableRSAPSSEnv, "false")
	assert.False(t, IsRSAPSSSupported(), "answer must not change after first use")
}

func TestRSAPSSGateFollowsBuild(t *testing.T) {
	prev := rsaPSSSupported
	t.Cleanup(func() { rsaPSSSupported = prev })

	t.Setenv(DisableRSAPSSEnv, "")
	rsaPSSSupported = newRSAPSSGate()
	assert.Equal(t, rsaPSSBuild, IsRSAPSSSupported())
}

func TestRSAPSSGateOff(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	pair := pssPair(t, a)
	pub, priv := handles(t, l, VariantRSAPSS, pair)
	rsaPub, rsaPriv := handles(t, l, VariantRSA, rsaPair(t, a))

	setRSAPSSSupported(t, false)
	for range 3 {
		assert.False(t, IsRSAPSSSupported())
	}

	_, err := l.PrivateKey(VariantRSAPSS, pair.private)
	require.ErrorIs(t, err, ErrUnsupportedFeature)
	_, err = l.PublicKey(VariantRSAPSS, pair.public)
	require.ErrorIs(t, err, ErrUnsupportedFeature)
	_, err = l.PrivateKeyFromDER(pair.private, stuffer.KeyTypeRSAPSS)
	require.ErrorIs(t, err, ErrUnsupportedFeature)

	_, err = priv.Size()
	require.ErrorIs(t, err, ErrUnsupportedFeature)
	err = priv.Sign(SignatureRSAPSSPSS, digestOver(t, hash.SHA256, nil), blob.Alloc(256))
	require.ErrorIs(t, err, ErrUnsupportedFeature)
	err = pub.Verify(SignatureRSAPSSPSS, digestOver(t, hash.SHA256, nil), blob.Alloc(256))
	require.ErrorIs(t, err, ErrUnsupportedFeature)

	// PSS padding over rsaEncryption keys is gated too; PKCS#1 v1.5 is not a fallback.
	err = rsaPriv.Sign(SignatureRSAPSSRSAE, digestOver(t, hash.SHA256, nil), blob.Alloc(256))
	require.ErrorIs(t, err, ErrUnsupportedFeature)
	err = rsaPub.Verify(SignatureRSAPSSRSAE, digestOver(t, hash.SHA256, nil), blob.Alloc(256))
	require.ErrorIs(t, err, ErrUnsupportedFeature)

	sig := blob.Alloc(256)
	require.NoError(t, rsaPriv.Sign(SignatureRSA, digestOver(t, hash.SHA256, nil), sig))
}

func TestRSAKeyCheckFailure(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	broken := inconsistentPKCS1(a)

	_, err := l.PrivateKey(VariantRSA, broken)
	require.ErrorIs(t, err, ErrKeyCheckFailure)
	_, err = l.PrivateKey(VariantRSAPSS, pssPKCS8(broken))
	require.ErrorIs(t, err, ErrKeyCheckFailure)
	require.NotErrorIs(t, err, ErrKeyMismatch)
}

func TestHelloWorldP384(t *testing.T) {
	l := newTestLoader()
	pair, key := ecPair(t, elliptic.P384())
	other, _ := ecPair(t, elliptic.P384())

	pub, err := l.PublicKeyFromCertificate(selfSignedCert(t, key))
	require.NoError(t, err)
	defer pub.Release()
	require.Equal(t, VariantECDSA, pub.Variant())
	require.NoError(t, pub.(CurveMatcher).MatchesCurve(CurveP384))

	priv, err := l.PrivateKeyFromDER(pair.private, stuffer.KeyTypeEC)
	require.NoError(t, err)
	defer priv.Release()
	unrelated, err := l.PublicKey(VariantECDSA, other.public)
	require.NoError(t, err)
	defer unrelated.Release()

	msg := []byte("Hello world!")
	sig := signBlob(t, priv)
	require.NoError(t, priv.Sign(SignatureECDSA, digestOver(t, hash.SHA512, msg), sig))
	require.NoError(t, pub.Verify(SignatureECDSA, digestOver(t, hash.SHA512, msg), sig))
	require.ErrorIs(t, unrelated.Verify(SignatureECDSA, digestOver(t, hash.SHA512, msg), sig), ErrBadSignature)
}

func TestPublicKeyFromCertificatePSS(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	_, ecKey := ecPair(t, elliptic.P256())

	cert := withSubjectPublicKeyInfo(t, selfSignedCert(t, ecKey), pssPair(t, a).public)
	pub, err := l.PublicKeyFromCertificate(cert)
	require.NoError(t, err)
	defer pub.Release()
	assert.Equal(t, VariantRSAPSS, pub.Variant())

	spki, err := x509.MarshalPKIXPublicKey(&a.PublicKey)
	require.NoError(t, err)
	cert = withSubjectPublicKeyInfo(t, selfSignedCert(t, ecKey), spki)
	pub, err = l.PublicKeyFromCertificate(cert)
	require.NoError(t, err)
	defer pub.Release()
	assert.Equal(t, VariantRSA, pub.Variant())
}

func TestPrivateKeyFromDERHints(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	a, _ := rsaKeys(t)
	ec, _ := ecPair(t, elliptic.P256())
	pkcs8, err := x509.MarshalPKCS8PrivateKey(a)
	require.NoError(t, err)

	tests := []struct {
		name string
		der  []byte
		hint stuffer.KeyType
		want Variant
	}{
		{"pkcs1 with rsa hint", rsaPair(t, a).private, stuffer.KeyTypeRSA, VariantRSA},
		{"pkcs1 with ec hint", rsaPair(t, a).private, stuffer.KeyTypeEC, VariantRSA},
		{"sec1 with rsa hint", ec.private, stuffer.KeyTypeRSA, VariantECDSA},
		{"sec1 without hint", ec.private, stuffer.KeyTypeUnknown, VariantECDSA},
		{"pkcs8 rsa with ec hint", pkcs8, stuffer.KeyTypeEC, VariantRSA},
		{"pkcs8 pss with rsa hint", pssPair(t, a).private, stuffer.KeyTypeRSA, VariantRSAPSS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := l.PrivateKeyFromDER(tt.der, tt.hint)
			require.NoError(t, err)
			defer k.Release()
			assert.Equal(t, tt.want, k.Variant())
			assert.True(t, k.HasPrivate())
		})
	}
}

func TestLoaderNullInput(t *testing.T) {
	l := newTestLoader()
	_, err := l.PublicKey(VariantECDSA, nil)
	require.ErrorIs(t, err, ErrNullReference)
	_, err = l.PrivateKey(VariantRSA, []byte{})
	require.ErrorIs(t, err, ErrNullReference)
	_, err = l.PrivateKeyFromDER(nil, stuffer.KeyTypeRSA)
	require.ErrorIs(t, err, ErrNullReference)
	_, err = l.PublicKeyFromCertificate(nil)
	require.ErrorIs(t, err, ErrNullReference)
}

func TestLoaderMalformed(t *testing.T) {
	l := newTestLoader()
	_, err := l.PrivateKey(VariantRSA, []byte("not a key"))
	require.ErrorIs(t, err, ErrProviderFailure)
	_, err = l.PrivateKeyFromDER([]byte("not a key"), stuffer.KeyTypeUnknown)
	require.ErrorIs(t, err, ErrProviderFailure)
	_, err = l.PublicKeyFromCertificate([]byte("not a cert"))
	require.ErrorIs(t, err, ErrProviderFailure)
	_, err = l.PublicKey(VariantUnknown, []byte{0x30})
	require.ErrorIs(t, err, ErrUnsupportedFeature)
}

func TestMatch(t *testing.T) {
	setRSAPSSSupported(t, true)
	l := newTestLoader()
	for _, vc := range variantCases(t) {
		t.Run(vc.name, func(t *testing.T) {
			pub, priv := handles(t, l, vc.variant, vc.pair)
			otherPub, _ := handles(t, l, vc.variant, vc.other)

			require.NoError(t, Match(pub, priv))
			require.ErrorIs(t, Match(otherPub, priv), ErrKeyMismatch)
			require.ErrorIs(t, Match(priv, priv), ErrKeyMismatch)
		})
	}

	ec, _ := ecPair(t, elliptic.P256())
	a, _ := rsaKeys(t)
	ecPub, _ := handles(t, l, VariantECDSA, ec)
	_, rsaPriv := handles(t, l, VariantRSA, rsaPair(t, a))
	require.ErrorIs(t, Match(ecPub, rsaPriv), ErrKeyMismatch)
	require.ErrorIs(t, Match(nil, rsaPriv), ErrNullReference)
}

func TestParseCurve(t *testing.T) {
	for name, want := range map[string]Curve{"P-256": CurveP256, "secp384r1": CurveP384, "p521": CurveP521} {
		got, err := ParseCurve(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want, CurveOf(want.Elliptic()))
	}
	_, err := ParseCurve("curve25519")
	require.ErrorIs(t, err, ErrUnsupportedFeature)
	assert.Equal(t, CurveUnknown, CurveOf(elliptic.P224()))
}

func BenchmarkECDSAP256Sign(b *testing.B) {
	key, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	der, _ := x509.MarshalECPrivateKey(key)
	priv, err := newTestLoader().PrivateKey(VariantECDSA, der)
	if err != nil {
		b.Fatalf("load: %v", err)
	}
	sig := blob.Alloc(72)
	h := hash.New()
	for b.Loop() {
		h.Init(hash.SHA256)
		h.Update([]byte("benchmark"))
		sig.Reset()
		priv.Sign(SignatureECDSA, h, sig)
	}
}
