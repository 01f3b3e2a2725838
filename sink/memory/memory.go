// Package memory provides an in-memory sink.
// Useful for testing and dry-run scenarios.
package memory

import (
	"context"
	"io"
	"sync"

	"github.com/gobeaver/ingestkit"
)

// Upload is one captured ingestion.
type Upload struct {
	Meta    ingestkit.UploadMeta
	Verdict *ingestkit.Verdict
	Payload []byte
}

// Sink implements ingestkit.Sink by capturing everything in memory,
// rejected uploads included. It is safe for concurrent use.
type Sink struct {
	mu      sync.Mutex
	uploads []Upload
}

// New creates an empty capture sink.
func New() *Sink {
	return &Sink{}
}

// Persist implements ingestkit.Sink. The replay source is always drained to
// completion, so tests can compare delivered bytes against the original
// stream.
func (s *Sink) Persist(ctx context.Context, meta ingestkit.UploadMeta, verdict *ingestkit.Verdict, data ingestkit.ByteSource) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	payload, err := io.ReadAll(ingestkit.NewSourceReader(data))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, Upload{Meta: meta, Verdict: verdict, Payload: payload})
	return nil
}

// Uploads returns a copy of everything captured so far.
func (s *Sink) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Last returns the most recent capture.
func (s *Sink) Last() (Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.uploads) == 0 {
		return Upload{}, false
	}
	return s.uploads[len(s.uploads)-1], true
}

// Reset discards all captures.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = nil
}
