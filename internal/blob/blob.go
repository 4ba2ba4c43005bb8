// Package blob provides an owned byte buffer with a fixed capacity and a used length.
package blob

import (
	"errors"
	"fmt"
)

var ErrSize = errors.New("blob: size exceeds capacity")

// Blob is a buffer whose used length can shrink below its capacity after a write.
// Signature output is written into a Blob sized by the key's maximum signature size.
type Blob struct {
	buf  []byte
	size int
}

// Alloc returns a zeroed blob whose used length equals its capacity.
func Alloc(capacity int) *Blob {
	if capacity < 0 {
		capacity = 0
	}
	return &Blob{buf: make([]byte, capacity), size: capacity}
}

// New wraps data without copying.
func New(data []byte) *Blob {
	return &Blob{buf: data, size: len(data)}
}

func (b *Blob) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.buf[:b.size]
}

func (b *Blob) Size() int {
	if b == nil {
		return 0
	}
	return b.size
}

func (b *Blob) Capacity() int {
	if b == nil {
		return 0
	}
	return len(b.buf)
}

// SetSize changes the used length. n must not exceed the capacity.
func (b *Blob) SetSize(n int) error {
	if n < 0 || n > len(b.buf) {
		return fmt.Errorf("%w: %d > %d", ErrSize, n, len(b.buf))
	}
	b.size = n
	return nil
}

// Write copies p to the start of the buffer and sets the used length to len(p).
func (b *Blob) Write(p []byte) error {
	if len(p) > len(b.buf) {
		return fmt.Errorf("%w: %d > %d", ErrSize, len(p), len(b.buf))
	}
	copy(b.buf, p)
	b.size = len(p)
	return nil
}

// Reset restores the used length to the full capacity so the blob can take another signature.
func (b *Blob) Reset() {
	b.size = len(b.buf)
}

func (b *Blob) Zero() {
	clear(b.buf)
}
