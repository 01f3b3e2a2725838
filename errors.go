package ingestkit

import (
	"errors"
)

// Common ingestion errors
var (
	// ErrUnsupportedDigest reports a digest algorithm NewHasher cannot build.
	ErrUnsupportedDigest = errors.New("unsupported digest algorithm")

	// ErrSourceClosed reports a Next call on a released byte source.
	ErrSourceClosed = errors.New("byte source already closed")

	// ErrSpoolClosed reports a write to a spool whose write side is sealed.
	ErrSpoolClosed = errors.New("spool already closed")
)

// IsUnsupportedDigest reports whether an error indicates an unknown digest
// algorithm.
func IsUnsupportedDigest(err error) bool {
	return errors.Is(err, ErrUnsupportedDigest)
}
