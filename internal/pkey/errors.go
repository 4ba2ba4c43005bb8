package pkey

import "errors"

var (
	ErrNullReference      = errors.New("pkey: null reference")
	ErrKeyMismatch        = errors.New("pkey: key mismatch")
	ErrKeyCheckFailure    = errors.New("pkey: key check failed")
	ErrUnsupportedFeature = errors.New("pkey: unsupported feature")
	ErrProviderFailure    = errors.New("pkey: provider failure")
	ErrSizeMismatch       = errors.New("pkey: output buffer too small")
	ErrBadSignature       = errors.New("pkey: signature verification failed")
)
