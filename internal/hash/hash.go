// Package hash implements the running digest fed into handshake signatures.
package hash

import (
	"crypto"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	stdhash "hash"
)

var (
	ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")
	ErrUninitialized    = errors.New("hash: state not initialized")
	ErrFinalized        = errors.New("hash: state already finalized")
)

// Algorithm identifies a digest. MD5SHA1 is the TLS 1.0/1.1 concatenation of MD5 and SHA-1.
type Algorithm int

const (
	None Algorithm = iota
	MD5
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
	MD5SHA1
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "NONE"
	case MD5:
		return "MD5"
	case SHA1:
		return "SHA1"
	case SHA224:
		return "SHA224"
	case SHA256:
		return "SHA256"
	case SHA384:
		return "SHA384"
	case SHA512:
		return "SHA512"
	case MD5SHA1:
		return "MD5_SHA1"
	default:
		return "UNKNOWN"
	}
}

// CryptoHash maps the algorithm onto the standard library identifier used by signers.
func (a Algorithm) CryptoHash() crypto.Hash {
	switch a {
	case MD5:
		return crypto.MD5
	case SHA1:
		return crypto.SHA1
	case SHA224:
		return crypto.SHA224
	case SHA256:
		return crypto.SHA256
	case SHA384:
		return crypto.SHA384
	case SHA512:
		return crypto.SHA512
	case MD5SHA1:
		return crypto.MD5SHA1
	default:
		return 0
	}
}

// Size returns the digest length in bytes, or 0 for None and unknown algorithms.
func (a Algorithm) Size() int {
	switch a {
	case MD5:
		return md5.Size
	case SHA1:
		return sha1.Size
	case SHA224:
		return sha256.Size224
	case SHA256:
		return sha256.Size
	case SHA384:
		return sha512.Size384
	case SHA512:
		return sha512.Size
	case MD5SHA1:
		return md5.Size + sha1.Size
	default:
		return 0
	}
}

func newDigest(a Algorithm) (stdhash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA224:
		return sha256.New224(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case MD5SHA1:
		return &md5sha1{md5: md5.New(), sha1: sha1.New()}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
}

// State is a running digest. It is not safe for concurrent use; each sign or
// verify call site owns its own State.
type State struct {
	alg       Algorithm
	digest    stdhash.Hash
	finalized bool
}

func New() *State {
	return &State{}
}

// Init prepares the state for alg and discards any previous input.
func (s *State) Init(alg Algorithm) error {
	d, err := newDigest(alg)
	if err != nil {
		return err
	}
	s.alg = alg
	s.digest = d
	s.finalized = false
	return nil
}

func (s *State) Update(p []byte) error {
	if s == nil || s.digest == nil {
		return ErrUninitialized
	}
	if s.finalized {
		return ErrFinalized
	}
	s.digest.Write(p)
	return nil
}

// Digest finalizes the state and returns the digest. Updates fail after this
// until Reset is called.
func (s *State) Digest() ([]byte, error) {
	if s == nil || s.digest == nil {
		return nil, ErrUninitialized
	}
	if s.finalized {
		return nil, ErrFinalized
	}
	s.finalized = true
	return s.digest.Sum(nil), nil
}

// Reset re-initializes the state with the same algorithm.
func (s *State) Reset() error {
	if s == nil || s.digest == nil {
		return ErrUninitialized
	}
	s.digest.Reset()
	s.finalized = false
	return nil
}

func (s *State) Algorithm() Algorithm {
	if s == nil {
		return None
	}
	return s.alg
}

type md5sha1 struct {
	md5  stdhash.Hash
	sha1 stdhash.Hash
}

func (h *md5sha1) Write(p []byte) (int, error) {
	h.md5.Write(p)
	h.sha1.Write(p)
	return len(p), nil
}

func (h *md5sha1) Sum(b []byte) []byte {
	b = h.md5.Sum(b)
	return h.sha1.Sum(b)
}

func (h *md5sha1) Reset() {
	h.md5.Reset()
	h.sha1.Reset()
}

func (h *md5sha1) Size() int      { return md5.Size + sha1.Size }
func (h *md5sha1) BlockSize() int { return h.sha1.BlockSize() }
