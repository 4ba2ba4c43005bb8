package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/glinharesb/tlskey/internal/pkey"
)

var ErrInvalidManifest = errors.New("invalid key manifest")

// KeySpec names one certificate chain and private key to load at startup.
// Relative paths are resolved against the manifest's directory.
type KeySpec struct {
	ID     string            `yaml:"id"`
	Cert   string            `yaml:"cert"`
	Key    string            `yaml:"key"`
	Curve  string            `yaml:"curve,omitempty"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// Manifest is the YAML document read from TLSKEY_KEYS_FILE.
//
//	keys:
//	  - id: edge-ecdsa
//	    cert: certs/edge.pem
//	    key: certs/edge.key
//	    curve: P-256
type Manifest struct {
	Keys []KeySpec `yaml:"keys"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i := range m.Keys {
		m.Keys[i].Cert = resolve(dir, m.Keys[i].Cert)
		m.Keys[i].Key = resolve(dir, m.Keys[i].Key)
	}
	return m, nil
}

// ParseManifest decodes a manifest. Unknown fields are rejected and an
// empty document is an empty manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Keys))
	for i, k := range m.Keys {
		switch {
		case k.ID == "":
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidManifest, i)
		case seen[k.ID]:
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidManifest, k.ID)
		case k.Cert == "" || k.Key == "":
			return fmt.Errorf("%w: %q needs both cert and key", ErrInvalidManifest, k.ID)
		}
		if k.Curve != "" {
			if _, err := pkey.ParseCurve(k.Curve); err != nil {
				return fmt.Errorf("%w: %q: %v", ErrInvalidManifest, k.ID, err)
			}
		}
		seen[k.ID] = true
	}
	return nil
}

// RequiredCurve returns the curve the key must be on, or CurveUnknown.
func (k KeySpec) RequiredCurve() pkey.Curve {
	c, _ := pkey.ParseCurve(k.Curve)
	return c
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
