package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glinharesb/tlskey/internal/blob"
	"github.com/glinharesb/tlskey/internal/chain"
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/pkey"
	"github.com/glinharesb/tlskey/internal/policy"
	"github.com/glinharesb/tlskey/internal/provider"
	"github.com/glinharesb/tlskey/internal/stuffer"
)

var errBadSignature = errors.New("signature does not verify")

func newLoader() *pkey.Loader {
	return pkey.NewLoader(provider.NewSoftware(), slog.Default())
}

// readInput reads path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func loadChain(certPath, keyPath string) (*chain.ChainAndKey, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, err
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	defer clear(keyPEM)
	return chain.Load(newLoader(), certPEM, keyPEM)
}

// leafKey returns a public handle for the first certificate in certPath.
func leafKey(certPath string) (pkey.Key, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, err
	}
	framed := stuffer.Alloc(len(certPEM))
	if err := stuffer.CertificateFromPEM(stuffer.FromBytes(certPEM), framed); err != nil {
		return nil, err
	}
	der, err := framed.ReadCertificate()
	if err != nil {
		return nil, err
	}
	return newLoader().PublicKeyFromCertificate(der)
}

func schemeByName(name string) (*policy.SignatureScheme, error) {
	s, ok := policy.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown signature scheme %q", name)
	}
	return s, nil
}

func digestOf(alg hash.Algorithm, msg []byte) (*hash.State, error) {
	h := hash.New()
	if err := h.Init(alg); err != nil {
		return nil, err
	}
	return h, h.Update(msg)
}

func newInspectCmd() *cobra.Command {
	var certPath, keyPath, prefsName string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the variant, curve, signature size and usable schemes of a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := policy.LookupPreferences(prefsName)
			if err != nil {
				return err
			}
			var key pkey.Key
			if keyPath != "" {
				ck, err := loadChain(certPath, keyPath)
				if err != nil {
					return err
				}
				defer ck.Release()
				key = ck.PrivateKey()
			} else {
				if key, err = leafKey(certPath); err != nil {
					return err
				}
				defer key.Release()
			}

			size, err := key.Size()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "variant:  %s\n", key.Variant())
			if m, ok := key.(pkey.CurveMatcher); ok {
				fmt.Fprintf(out, "curve:    %s\n", m.Curve())
			}
			fmt.Fprintf(out, "private:  %t\n", key.HasPrivate())
			fmt.Fprintf(out, "max sig:  %d bytes\n", size)
			fmt.Fprintf(out, "rsa-pss:  %t\n", pkey.IsRSAPSSSupported())
			names := make([]string, 0, len(prefs.Schemes))
			for _, s := range prefs.Compatible(key) {
				names = append(names, s.Name)
			}
			fmt.Fprintf(out, "schemes:  %s\n", strings.Join(names, " "))
			return nil
		},
	}
	cmd.Flags().StringVar(&certPath, "cert", "", "PEM certificate chain")
	cmd.Flags().StringVar(&keyPath, "key", "", "PEM private key; omit to inspect the certificate key")
	cmd.Flags().StringVar(&prefsName, "preferences", "default", "signature preferences table")
	cmd.MarkFlagRequired("cert")
	return cmd
}

func newSignCmd() *cobra.Command {
	var certPath, keyPath, schemeName, inPath string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message and print the base64 signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, err := schemeByName(schemeName)
			if err != nil {
				return err
			}
			msg, err := readInput(cmd, inPath)
			if err != nil {
				return err
			}
			ck, err := loadChain(certPath, keyPath)
			if err != nil {
				return err
			}
			defer ck.Release()
			if scheme.Curve != pkey.CurveUnknown {
				if err := ck.RequireCurve(scheme.Curve); err != nil {
					return err
				}
			}

			priv := ck.PrivateKey()
			digest, err := digestOf(scheme.Hash, msg)
			if err != nil {
				return err
			}
			size, err := priv.Size()
			if err != nil {
				return err
			}
			sig := blob.Alloc(size)
			if err := priv.Sign(scheme.SigAlg, digest, sig); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(sig.Bytes()))
			return nil
		},
	}
	cmd.Flags().StringVar(&certPath, "cert", "", "PEM certificate chain")
	cmd.Flags().StringVar(&keyPath, "key", "", "PEM private key")
	cmd.Flags().StringVar(&schemeName, "scheme", "", "TLS signature scheme, e.g. ecdsa_secp256r1_sha256")
	cmd.Flags().StringVar(&inPath, "in", "-", "message file, - for stdin")
	cmd.MarkFlagRequired("cert")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("scheme")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var certPath, schemeName, inPath, sigB64 string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a base64 signature against a certificate",
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, err := schemeByName(schemeName)
			if err != nil {
				return err
			}
			sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(sigB64))
			if err != nil {
				return fmt.Errorf("decode signature: %w", err)
			}
			msg, err := readInput(cmd, inPath)
			if err != nil {
				return err
			}
			pub, err := leafKey(certPath)
			if err != nil {
				return err
			}
			defer pub.Release()
			if m, ok := pub.(pkey.CurveMatcher); ok && scheme.Curve != pkey.CurveUnknown {
				if err := m.MatchesCurve(scheme.Curve); err != nil {
					return err
				}
			}

			digest, err := digestOf(scheme.Hash, msg)
			if err != nil {
				return err
			}
			if err := pub.Verify(scheme.SigAlg, digest, blob.New(sig)); err != nil {
				if errors.Is(err, pkey.ErrBadSignature) {
					return errBadSignature
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&certPath, "cert", "", "PEM certificate chain")
	cmd.Flags().StringVar(&schemeName, "scheme", "", "TLS signature scheme")
	cmd.Flags().StringVar(&inPath, "in", "-", "message file, - for stdin")
	cmd.Flags().StringVar(&sigB64, "signature", "", "base64 signature")
	cmd.MarkFlagRequired("cert")
	cmd.MarkFlagRequired("scheme")
	cmd.MarkFlagRequired("signature")
	return cmd
}

func newMatchCmd() *cobra.Command {
	var certPath, keyPath string
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Check that a private key belongs to a certificate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ck, err := loadChain(certPath, keyPath)
			if err != nil {
				return err
			}
			defer ck.Release()
			fmt.Fprintf(cmd.OutOrStdout(), "OK %s %s\n", ck.PrivateKey().Variant(), ck.Leaf().Subject)
			return nil
		},
	}
	cmd.Flags().StringVar(&certPath, "cert", "", "PEM certificate chain")
	cmd.Flags().StringVar(&keyPath, "key", "", "PEM private key")
	cmd.MarkFlagRequired("cert")
	cmd.MarkFlagRequired("key")
	return cmd
}
