package ingestkit

import (
	"errors"
	"fmt"
	"os"
)

// Spool is the durable replay buffer behind one ingestion: the input stream
// is drained into it exactly once, then re-exposed as a fresh ByteSource for
// the sink. The backing file lives in transient storage and is removed
// exactly once, either by the FileSource produced by Replay or by Discard on
// failure paths.
type Spool struct {
	f      *os.File
	path   string
	sealed bool
}

// NewSpool creates a spool file in dir. An empty dir selects the system
// temp directory.
func NewSpool(dir string) (*Spool, error) {
	f, err := os.CreateTemp(dir, "ingest-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create spool file: %w", err)
	}
	return &Spool{f: f, path: f.Name()}, nil
}

// Path returns the location of the backing file.
func (sp *Spool) Path() string {
	return sp.path
}

// Write appends a chunk to the buffer. It implements io.Writer so the drain
// loop can treat the spool like any other accumulator.
func (sp *Spool) Write(p []byte) (int, error) {
	if sp.sealed {
		return 0, ErrSpoolClosed
	}
	n, err := sp.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("write spool file: %w", err)
	}
	return n, nil
}

// Replay seals the write side and returns a fresh read-once source over the
// buffered bytes. The returned source owns the backing file and removes it
// on Close; the spool must not be used afterwards.
func (sp *Spool) Replay() (*FileSource, error) {
	if err := sp.seal(); err != nil {
		return nil, err
	}
	src, err := NewFileSource(sp.path, true)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Discard removes the backing file. It is the cleanup path for every
// ingestion that never reached Replay, and is safe to call after a failed
// Replay: the file is removed if it still exists.
func (sp *Spool) Discard() error {
	err := sp.seal()
	if rmErr := os.Remove(sp.path); rmErr != nil && !os.IsNotExist(rmErr) {
		err = errors.Join(err, fmt.Errorf("remove spool file: %w", rmErr))
	}
	return err
}

func (sp *Spool) seal() error {
	if sp.sealed {
		return nil
	}
	sp.sealed = true
	if err := sp.f.Close(); err != nil {
		return fmt.Errorf("close spool file: %w", err)
	}
	return nil
}
