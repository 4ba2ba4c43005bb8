// Package stuffer provides a growable byte buffer with independent read and
// write cursors, and the PEM decoding that feeds certificates and keys into it.
package stuffer

import (
	"errors"
	"fmt"

	"github.com/glinharesb/tlskey/internal/blob"
)

var (
	ErrOutOfData   = errors.New("stuffer: out of data")
	ErrNotExpected = errors.New("stuffer: unexpected data")
)

// Stuffer holds written bytes; Read consumes them from the front.
// The zero value is an empty stuffer ready for use.
type Stuffer struct {
	data []byte
	read int
}

// Alloc returns an empty stuffer with room for n bytes before it grows.
func Alloc(n int) *Stuffer {
	return &Stuffer{data: make([]byte, 0, n)}
}

// FromBytes returns a stuffer whose unread data is a copy of p.
func FromBytes(p []byte) *Stuffer {
	return &Stuffer{data: append([]byte(nil), p...)}
}

func (s *Stuffer) Write(p []byte) {
	s.data = append(s.data, p...)
}

func (s *Stuffer) WriteBlob(b *blob.Blob) {
	s.Write(b.Bytes())
}

// Read consumes n bytes and returns a copy of them.
func (s *Stuffer) Read(n int) ([]byte, error) {
	p, err := s.RawRead(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), p...), nil
}

// RawRead consumes n bytes and returns a slice aliasing the stuffer's storage.
// The slice is only valid until the next write or wipe.
func (s *Stuffer) RawRead(n int) ([]byte, error) {
	if n < 0 || n > s.DataAvailable() {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrOutOfData, n, s.DataAvailable())
	}
	p := s.data[s.read : s.read+n]
	s.read += n
	return p, nil
}

// ReadExpectedStr consumes expected if the unread data starts with it. On a
// mismatch the read cursor does not move.
func (s *Stuffer) ReadExpectedStr(expected string) error {
	if s.DataAvailable() < len(expected) {
		return fmt.Errorf("%w: want %q", ErrOutOfData, expected)
	}
	if string(s.data[s.read:s.read+len(expected)]) != expected {
		return fmt.Errorf("%w: want %q", ErrNotExpected, expected)
	}
	s.read += len(expected)
	return nil
}

// DataAvailable is the number of written bytes not yet read.
func (s *Stuffer) DataAvailable() int {
	return len(s.data) - s.read
}

func (s *Stuffer) ReadCursor() int {
	return s.read
}

func (s *Stuffer) WriteCursor() int {
	return len(s.data)
}

// Rewind moves the read cursor back to the start.
func (s *Stuffer) Rewind() {
	s.read = 0
}

// Remaining returns the unread data without consuming it.
func (s *Stuffer) Remaining() []byte {
	return s.data[s.read:]
}

// Wipe zeroes the contents and resets both cursors.
func (s *Stuffer) Wipe() {
	clear(s.data[:cap(s.data)])
	s.data = s.data[:0]
	s.read = 0
}
