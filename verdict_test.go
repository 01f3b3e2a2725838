package ingestkit

import (
	"strings"
	"testing"
)

func TestVerdictAllErrors(t *testing.T) {
	accepted := &Verdict{OK: true}
	if err := accepted.AllErrors(); err != nil {
		t.Errorf("AllErrors() on accepted verdict = %v, want nil", err)
	}

	rejected := &Verdict{
		Errors: []string{
			"content length mismatch: declared 10 bytes, received 9 bytes",
			`content type "image/png" is not accepted (allowed: application/pdf)`,
		},
	}
	err := rejected.AllErrors()
	if err == nil {
		t.Fatal("AllErrors() on rejected verdict = nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "content length mismatch") || !strings.Contains(msg, "is not accepted") {
		t.Errorf("combined error should carry every failure, got %q", msg)
	}
}

func TestVerdictSummary(t *testing.T) {
	accepted := &Verdict{
		DetectedType: MIMETypeApplicationPDF,
		Size:         9,
		Digest:       "abc123",
		OK:           true,
	}
	if got := accepted.Summary(); !strings.Contains(got, "application/pdf") || !strings.Contains(got, "9 bytes") {
		t.Errorf("Summary() = %q", got)
	}

	rejected := &Verdict{
		DetectedType: MIMETypeImagePNG,
		Size:         8,
		Errors:       []string{"first failure", "second failure"},
	}
	if got := rejected.Summary(); !strings.Contains(got, "first failure") {
		t.Errorf("Summary() should surface the first failure, got %q", got)
	}
}
