package ingestkit

import (
	"encoding/hex"
	"testing"
)

func TestNewHasher(t *testing.T) {
	tests := []struct {
		algorithm DigestAlgorithm
		hexLen    int
	}{
		{DigestMD5, 32},
		{DigestSHA1, 40},
		{DigestSHA256, 64},
		{DigestSHA512, 128},
		{DigestCRC32, 8},
		{DigestXXHash, 16},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			h, err := NewHasher(tt.algorithm)
			if err != nil {
				t.Fatalf("NewHasher(%s) failed: %v", tt.algorithm, err)
			}
			h.Write([]byte("payload"))
			if got := len(hex.EncodeToString(h.Sum(nil))); got != tt.hexLen {
				t.Errorf("digest hex length = %d, want %d", got, tt.hexLen)
			}
		})
	}
}

func TestNewHasherUnsupported(t *testing.T) {
	_, err := NewHasher("blake2b")
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if !IsUnsupportedDigest(err) {
		t.Errorf("expected ErrUnsupportedDigest, got %v", err)
	}
}

func TestHasherDeterministic(t *testing.T) {
	sum := func() string {
		h, err := NewHasher(DigestSHA256)
		if err != nil {
			t.Fatalf("NewHasher failed: %v", err)
		}
		h.Write([]byte("the same "))
		h.Write([]byte("bytes"))
		return hex.EncodeToString(h.Sum(nil))
	}

	first, second := sum(), sum()
	if first != second {
		t.Errorf("digests differ: %s vs %s", first, second)
	}
}
