package hash

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha512"
	"errors"
	"testing"
)

func TestDigestMatchesStdlib(t *testing.T) {
	s := New()
	if err := s.Init(SHA512); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Update([]byte("Hello world!")); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	want := sha512.Sum512([]byte("Hello world!"))
	if !bytes.Equal(got, want[:]) {
		t.Fatal("sha512 digest mismatch")
	}
}

func TestMD5SHA1Concatenation(t *testing.T) {
	s := New()
	if err := s.Init(MD5SHA1); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.Update([]byte("abc"))
	got, _ := s.Digest()

	m := md5.Sum([]byte("abc"))
	h := sha1.Sum([]byte("abc"))
	want := append(m[:], h[:]...)
	if !bytes.Equal(got, want) {
		t.Fatal("md5+sha1 digest mismatch")
	}
	if len(got) != MD5SHA1.Size() {
		t.Fatalf("size: got %d, want %d", len(got), MD5SHA1.Size())
	}
}

func TestFinalizeThenReset(t *testing.T) {
	s := New()
	s.Init(SHA256)
	s.Update([]byte("one"))
	first, _ := s.Digest()

	if err := s.Update([]byte("more")); !errors.Is(err, ErrFinalized) {
		t.Fatalf("update after digest: expected ErrFinalized, got %v", err)
	}
	if _, err := s.Digest(); !errors.Is(err, ErrFinalized) {
		t.Fatalf("second digest: expected ErrFinalized, got %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	s.Update([]byte("one"))
	second, _ := s.Digest()
	if !bytes.Equal(first, second) {
		t.Fatal("reset should restart from empty input")
	}
	if s.Algorithm() != SHA256 {
		t.Fatalf("reset changed algorithm to %s", s.Algorithm())
	}
}

func TestUninitialized(t *testing.T) {
	s := New()
	if err := s.Update(nil); !errors.Is(err, ErrUninitialized) {
		t.Fatalf("expected ErrUninitialized, got %v", err)
	}
	if _, err := s.Digest(); !errors.Is(err, ErrUninitialized) {
		t.Fatalf("expected ErrUninitialized, got %v", err)
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	if err := New().Init(None); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if Algorithm(42).CryptoHash() != 0 {
		t.Fatal("unknown algorithm should not map to a crypto.Hash")
	}
}
