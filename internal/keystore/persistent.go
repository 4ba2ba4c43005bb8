package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glinharesb/tlskey/internal/chain"
	"github.com/glinharesb/tlskey/internal/crypto"
	"github.com/glinharesb/tlskey/internal/pkey"
)

var ErrNoMasterKey = errors.New("persistent store requires a master key")

// persistedKey is the JSON-serializable form of a KeyEntry. The private key
// PEM is sealed under the master key with the entry ID as associated data.
type persistedKey struct {
	ID        string            `json:"id"`
	Variant   string            `json:"variant"`
	Status    KeyStatus         `json:"status"`
	CertPEM   []byte            `json:"cert_pem"`
	SealedKey []byte            `json:"sealed_key"`
	CreatedAt time.Time         `json:"created_at"`
	RotatedAt time.Time         `json:"rotated_at,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// PersistentStore wraps MemoryStore and persists to a JSON file using atomic rename.
type PersistentStore struct {
	*MemoryStore
	path   string
	master []byte
	loader *pkey.Loader
	logger *slog.Logger
}

// NewPersistentStore creates a store that persists to the given file path.
// If the file exists, every entry is unsealed and loaded through loader, so
// a reloaded key passes the same checks as a freshly imported one.
func NewPersistentStore(path string, master []byte, loader *pkey.Loader, logger *slog.Logger) (*PersistentStore, error) {
	if len(master) == 0 {
		return nil, ErrNoMasterKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	ps := &PersistentStore{
		MemoryStore: NewMemoryStore(),
		path:        path,
		master:      master,
		loader:      loader,
		logger:      logger,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := ps.load(); err != nil {
			ps.Close()
			return nil, fmt.Errorf("load existing data: %w", err)
		}
		logger.Info("persistent store loaded", "keys", len(ps.keys))
	}

	return ps, nil
}

func (ps *PersistentStore) Put(entry *KeyEntry) error {
	if err := ps.MemoryStore.Put(entry); err != nil {
		return err
	}
	return ps.save()
}

func (ps *PersistentStore) UpdateStatus(id string, status KeyStatus) error {
	if err := ps.MemoryStore.UpdateStatus(id, status); err != nil {
		return err
	}
	return ps.save()
}

func (ps *PersistentStore) Delete(id string) error {
	if err := ps.MemoryStore.Delete(id); err != nil {
		return err
	}
	return ps.save()
}

// save writes all keys to a temp file then atomically renames it.
func (ps *PersistentStore) save() error {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	keys := make([]persistedKey, 0, len(ps.keys))
	for _, e := range ps.keys {
		certPEM, keyPEM := e.Chain.PEM()
		sealed, err := crypto.Seal(ps.master, []byte(e.ID), keyPEM)
		if err != nil {
			return fmt.Errorf("seal key %s: %w", e.ID, err)
		}
		keys = append(keys, persistedKey{
			ID:        e.ID,
			Variant:   e.Variant().String(),
			Status:    e.Status,
			CertPEM:   certPEM,
			SealedKey: sealed,
			CreatedAt: e.CreatedAt,
			RotatedAt: e.RotatedAt,
			Labels:    e.Labels,
		})
	}

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	tmpPath := ps.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, ps.path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}

	return nil
}

// load reads keys from the persisted file.
func (ps *PersistentStore) load() error {
	data, err := os.ReadFile(ps.path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var keys []persistedKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}

	for _, pk := range keys {
		keyPEM, err := crypto.Open(ps.master, []byte(pk.ID), pk.SealedKey)
		if err != nil {
			return fmt.Errorf("unseal key %s: %w", pk.ID, err)
		}
		ck, err := chain.Load(ps.loader, pk.CertPEM, keyPEM)
		clear(keyPEM)
		if err != nil {
			return fmt.Errorf("load key %s: %w", pk.ID, err)
		}
		if got := ck.PrivateKey().Variant().String(); got != pk.Variant {
			ps.logger.Warn("persisted variant differs from loaded key", "id", pk.ID, "persisted", pk.Variant, "loaded", got)
		}
		ps.keys[pk.ID] = &KeyEntry{
			ID:        pk.ID,
			Status:    pk.Status,
			Chain:     ck,
			CreatedAt: pk.CreatedAt,
			RotatedAt: pk.RotatedAt,
			Labels:    pk.Labels,
		}
	}

	return nil
}
