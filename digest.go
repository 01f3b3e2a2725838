package ingestkit

import (
	"crypto/md5"  //nolint:gosec // MD5 offered for integrity fingerprints, not security
	"crypto/sha1" //nolint:gosec // SHA1 offered for integrity fingerprints, not security
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// DigestAlgorithm selects the hash computed over every ingested stream.
type DigestAlgorithm string

const (
	// DigestMD5 is the MD5 hash algorithm (128-bit, legacy)
	DigestMD5 DigestAlgorithm = "md5"
	// DigestSHA1 is the SHA-1 hash algorithm (160-bit, legacy)
	DigestSHA1 DigestAlgorithm = "sha1"
	// DigestSHA256 is the SHA-256 hash algorithm (256-bit, the default)
	DigestSHA256 DigestAlgorithm = "sha256"
	// DigestSHA512 is the SHA-512 hash algorithm (512-bit)
	DigestSHA512 DigestAlgorithm = "sha512"
	// DigestCRC32 is the CRC32 checksum (32-bit, integrity only)
	DigestCRC32 DigestAlgorithm = "crc32"
	// DigestXXHash is the xxHash algorithm (64-bit, extremely fast)
	DigestXXHash DigestAlgorithm = "xxhash"
)

// NewHasher creates a new hash.Hash for the given algorithm.
// Returns ErrUnsupportedDigest for anything it does not know; the engine
// treats that as fatal before any sink is invoked.
func NewHasher(algorithm DigestAlgorithm) (hash.Hash, error) {
	switch algorithm {
	case DigestMD5:
		return md5.New(), nil //nolint:gosec // see above
	case DigestSHA1:
		return sha1.New(), nil //nolint:gosec // see above
	case DigestSHA256:
		return sha256.New(), nil
	case DigestSHA512:
		return sha512.New(), nil
	case DigestCRC32:
		return crc32.NewIEEE(), nil
	case DigestXXHash:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDigest, algorithm)
	}
}
