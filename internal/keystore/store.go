package keystore

import (
	"errors"
	"time"

	"github.com/glinharesb/tlskey/internal/chain"
	"github.com/glinharesb/tlskey/internal/pkey"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyInactive = errors.New("key is not active")
	ErrKeyExists   = errors.New("key already exists")
)

// KeyStatus represents the lifecycle state of a key.
type KeyStatus int

const (
	StatusActive KeyStatus = iota + 1
	StatusRotated
	StatusDeactivated
)

func (s KeyStatus) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusRotated:
		return "ROTATED"
	case StatusDeactivated:
		return "DEACTIVATED"
	default:
		return "UNKNOWN"
	}
}

// KeyEntry is a named certificate chain and private key.
type KeyEntry struct {
	ID        string
	Status    KeyStatus
	Chain     *chain.ChainAndKey
	CreatedAt time.Time
	RotatedAt time.Time
	Labels    map[string]string
}

func (e *KeyEntry) Variant() pkey.Variant {
	if e.Chain == nil || e.Chain.PrivateKey() == nil {
		return pkey.VariantUnknown
	}
	return e.Chain.PrivateKey().Variant()
}

// Store defines the key storage interface. Delete releases the entry's keys.
type Store interface {
	Put(entry *KeyEntry) error
	Get(id string) (*KeyEntry, error)
	List(filter KeyStatus) ([]*KeyEntry, error)
	UpdateStatus(id string, status KeyStatus) error
	Delete(id string) error
}

// Active returns the entry for id if it may sign.
func Active(s Store, id string) (*KeyEntry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if entry.Status != StatusActive {
		return nil, ErrKeyInactive
	}
	return entry, nil
}
