// Package local provides a content-addressed filesystem sink.
//
// Accepted payloads are stored under root/<digest[:2]>/<digest>, written to
// a temporary file and renamed into place so readers never observe partial
// content. Rejected payloads go to a quarantine directory when one is
// configured, and are left unread otherwise.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gobeaver/ingestkit"
)

// Sink implements ingestkit.Sink on top of a local directory tree.
type Sink struct {
	root       string
	quarantine string
}

// Option configures a Sink.
type Option func(*Sink)

// WithQuarantine stores rejected payloads under dir instead of dropping
// them.
func WithQuarantine(dir string) Option {
	return func(s *Sink) {
		s.quarantine = dir
	}
}

// New creates a sink rooted at root.
func New(root string, opts ...Option) (*Sink, error) {
	s := &Sink{root: root}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create root directory: %w", err)
	}
	if s.quarantine != "" {
		if err := os.MkdirAll(s.quarantine, 0755); err != nil {
			return nil, fmt.Errorf("create quarantine directory: %w", err)
		}
	}
	return s, nil
}

func (s *Sink) acceptedPath(digest string) string {
	if len(digest) < 2 {
		return filepath.Join(s.root, digest)
	}
	return filepath.Join(s.root, digest[:2], digest)
}

// Persist implements ingestkit.Sink. Accepted payloads are stored by
// digest, which makes the operation idempotent: a payload that already
// exists is not rewritten. Rejected payloads are quarantined or ignored.
func (s *Sink) Persist(ctx context.Context, meta ingestkit.UploadMeta, verdict *ingestkit.Verdict, data ingestkit.ByteSource) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !verdict.OK {
		if s.quarantine == "" {
			return nil
		}
		return writeFile(filepath.Join(s.quarantine, verdict.Digest), data)
	}

	path := s.acceptedPath(verdict.Digest)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeFile(path, data)
}

// Get retrieves a stored payload by digest.
func (s *Sink) Get(digest string) (io.ReadCloser, error) {
	f, err := os.Open(s.acceptedPath(digest))
	if err != nil {
		return nil, fmt.Errorf("open payload %s: %w", digest, err)
	}
	return f, nil
}

// writeFile drains data into path via a temp file and an atomic rename.
func writeFile(path string, data ingestkit.ByteSource) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "persist-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name()) // no-op once the rename succeeded
	}()

	if _, err := io.Copy(tmp, ingestkit.NewSourceReader(data)); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename payload: %w", err)
	}
	return nil
}
