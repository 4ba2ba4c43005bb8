package main

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/spf13/cobra"

	tlscrypto "github.com/glinharesb/tlskey/internal/crypto"
	"github.com/glinharesb/tlskey/internal/pkey"
)

type generateFlags struct {
	keyType  string
	curve    string
	bits     int
	cn       string
	validFor time.Duration
	keyOut   string
	certOut  string
	pubOut   string
}

func newGenerateCmd() *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a key and optionally a self-signed certificate",
		Long: "Generate writes a PKCS#8 private key. ecdsa and rsa keys can also get a " +
			"self-signed certificate. rsa-pss keys use the id-RSASSA-PSS encoding and " +
			"only get a public key file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd)
		},
	}
	cmd.Flags().StringVar(&f.keyType, "type", "ecdsa", "key type: ecdsa, rsa or rsa-pss")
	cmd.Flags().StringVar(&f.curve, "curve", "P-256", "ECDSA curve")
	cmd.Flags().IntVar(&f.bits, "bits", 2048, "RSA modulus size")
	cmd.Flags().StringVar(&f.cn, "cn", "tlskey", "certificate common name")
	cmd.Flags().DurationVar(&f.validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	cmd.Flags().StringVar(&f.keyOut, "key-out", "", "private key output file")
	cmd.Flags().StringVar(&f.certOut, "cert-out", "", "certificate output file")
	cmd.Flags().StringVar(&f.pubOut, "pub-out", "", "public key output file")
	cmd.MarkFlagRequired("key-out")
	return cmd
}

func (f *generateFlags) run(cmd *cobra.Command) error {
	var (
		signer      crypto.Signer
		keyDER      []byte
		pubDER      []byte
		err         error
		certAllowed = true
	)
	switch f.keyType {
	case "ecdsa":
		curve, err := pkey.ParseCurve(f.curve)
		if err != nil {
			return err
		}
		var key *ecdsa.PrivateKey
		if key, err = tlscrypto.GenerateECDSAKey(curve.Elliptic()); err != nil {
			return err
		}
		signer = key
		if keyDER, err = tlscrypto.MarshalPrivateKey(key); err != nil {
			return err
		}
		if pubDER, err = tlscrypto.MarshalPublicKey(&key.PublicKey); err != nil {
			return err
		}
	case "rsa", "rsa-pss":
		var key *rsa.PrivateKey
		if key, err = tlscrypto.GenerateRSAKey(f.bits); err != nil {
			return err
		}
		signer = key
		if f.keyType == "rsa" {
			keyDER, err = tlscrypto.MarshalPrivateKey(key)
			if err == nil {
				pubDER, err = tlscrypto.MarshalPublicKey(&key.PublicKey)
			}
		} else {
			certAllowed = false
			keyDER, err = tlscrypto.MarshalPSSPrivateKey(key)
			if err == nil {
				pubDER, err = tlscrypto.MarshalPSSPublicKey(&key.PublicKey)
			}
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown key type %q", f.keyType)
	}
	defer clear(keyDER)

	if f.certOut != "" && !certAllowed {
		return errors.New("rsa-pss certificates are not supported; use --pub-out")
	}
	if err := writePEM(f.keyOut, "PRIVATE KEY", keyDER, 0600); err != nil {
		return err
	}
	if f.pubOut != "" {
		if err := writePEM(f.pubOut, "PUBLIC KEY", pubDER, 0644); err != nil {
			return err
		}
	}
	if f.certOut != "" {
		der, err := selfSign(signer, f.cn, f.validFor)
		if err != nil {
			return err
		}
		if err := writePEM(f.certOut, "CERTIFICATE", der, 0644); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s key to %s\n", f.keyType, f.keyOut)
	return nil
}

func selfSign(signer crypto.Signer, cn string, validFor time.Duration) ([]byte, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: cn},
		DNSNames:              []string{cn},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, signer.Public(), signer)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	return der, nil
}

func writePEM(path, blockType string, der []byte, mode os.FileMode) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	defer clear(data)
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
