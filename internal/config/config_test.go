package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/glinharesb/tlskey/internal/pkey"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"TLSKEY_GRPC_ADDR", "TLSKEY_RATE_LIMIT_RPS", "TLSKEY_RATE_LIMIT_BURST", pkey.DisableRSAPSSEnv, "TLSKEY_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.GRPCAddr != ":50051" {
		t.Fatalf("grpc addr: %s", cfg.GRPCAddr)
	}
	if cfg.RateLimitRPS != 100 || cfg.RateLimitBurst != 100 {
		t.Fatalf("rate limit: %d/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.DisableRSAPSS {
		t.Fatal("RSA-PSS should be enabled by default")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("log level: %v", cfg.LogLevel)
	}
}

func TestLoadRSAPSSSwitchFailsClosed(t *testing.T) {
	t.Setenv(pkey.DisableRSAPSSEnv, "yes")
	if !Load().DisableRSAPSS {
		t.Fatal("unparseable switch should report RSA-PSS disabled")
	}
	t.Setenv(pkey.DisableRSAPSSEnv, "false")
	if Load().DisableRSAPSS {
		t.Fatal("explicit false should leave RSA-PSS enabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TLSKEY_GRPC_ADDR", "127.0.0.1:7000")
	t.Setenv("TLSKEY_RATE_LIMIT_RPS", "5")
	t.Setenv("TLSKEY_AUDIT_BUFFER", "not-a-number")
	t.Setenv(pkey.DisableRSAPSSEnv, "true")
	t.Setenv("TLSKEY_LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.GRPCAddr != "127.0.0.1:7000" {
		t.Fatalf("grpc addr: %s", cfg.GRPCAddr)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 5 {
		t.Fatalf("burst should follow rps: %d/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.AuditBuffer != 1024 {
		t.Fatalf("bad int should fall back, got %d", cfg.AuditBuffer)
	}
	if !cfg.DisableRSAPSS {
		t.Fatal("expected RSA-PSS disabled")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("log level: %v", cfg.LogLevel)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.yaml")
	doc := `keys:
  - id: edge-ecdsa
    cert: certs/edge.pem
    key: /etc/tlskey/edge.key
    curve: secp384r1
    labels:
      site: fra1
  - id: edge-rsa
    cert: rsa.pem
    key: rsa.key
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(m.Keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(m.Keys))
	}
	ec := m.Keys[0]
	if ec.Cert != filepath.Join(dir, "certs/edge.pem") {
		t.Fatalf("relative cert not resolved: %s", ec.Cert)
	}
	if ec.Key != "/etc/tlskey/edge.key" {
		t.Fatalf("absolute key rewritten: %s", ec.Key)
	}
	if ec.RequiredCurve() != pkey.CurveP384 {
		t.Fatalf("curve: %v", ec.RequiredCurve())
	}
	if ec.Labels["site"] != "fra1" {
		t.Fatalf("labels: %v", ec.Labels)
	}
	if m.Keys[1].RequiredCurve() != pkey.CurveUnknown {
		t.Fatal("rsa entry should not require a curve")
	}
}

func TestParseManifestInvalid(t *testing.T) {
	cases := map[string]string{
		"missing id":    "keys:\n  - cert: a\n    key: b\n",
		"duplicate id":  "keys:\n  - {id: a, cert: a, key: b}\n  - {id: a, cert: c, key: d}\n",
		"missing key":   "keys:\n  - {id: a, cert: a}\n",
		"unknown curve": "keys:\n  - {id: a, cert: a, key: b, curve: curve25519}\n",
		"unknown field": "keys:\n  - {id: a, cert: a, key: b, pin: 1234}\n",
		"not yaml":      "keys: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(doc))
			if !errors.Is(err, ErrInvalidManifest) {
				t.Fatalf("expected ErrInvalidManifest, got %v", err)
			}
		})
	}
}

func TestParseManifestEmpty(t *testing.T) {
	m, err := ParseManifest(nil)
	if err != nil {
		t.Fatalf("empty manifest: %v", err)
	}
	if len(m.Keys) != 0 {
		t.Fatal("expected no keys")
	}
}
