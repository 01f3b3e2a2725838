package ingestkit

import (
	"fmt"
	"strings"
)

// Verdict is the immutable outcome of validating one ingested stream.
// The measured fields always describe the full stream as it arrived,
// whatever the validation outcome: an oversized upload still reports its
// real size and digest.
type Verdict struct {
	// DetectedType is the content type classified from the stream bytes.
	DetectedType string

	// Size is the exact number of bytes drained from the input source.
	Size int64

	// Digest is the lowercase hex digest of the full byte sequence.
	Digest string

	// OK is true exactly when Errors is empty.
	OK bool

	// Errors lists every validation failure, in evaluation order.
	Errors []string
}

// AllErrors returns all validation failures as a single combined error,
// or nil when the upload was accepted.
func (v *Verdict) AllErrors() error {
	if v.OK || len(v.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed: %s", strings.Join(v.Errors, "; "))
}

// Summary returns a one-line human-readable account of the verdict.
func (v *Verdict) Summary() string {
	if v.OK {
		return fmt.Sprintf("✓ %s, %d bytes, %s", v.DetectedType, v.Size, v.Digest)
	}
	reason := "rejected"
	if len(v.Errors) > 0 {
		reason = v.Errors[0]
	}
	return fmt.Sprintf("✗ %s, %d bytes: %s", v.DetectedType, v.Size, reason)
}
