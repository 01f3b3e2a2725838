package ingestkit

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the chunk size used by sources when none is configured.
const DefaultChunkSize = 8192

// ByteSource is a finite, read-once sequence of byte chunks.
//
// Next returns the next non-empty chunk, or io.EOF once the stream is
// exhausted. Chunks are owned by the caller until the following Next call.
// A ByteSource cannot be restarted. Close releases the underlying resource
// and is safe to call more than once; Next after Close returns
// ErrSourceClosed.
type ByteSource interface {
	Next() ([]byte, error)
	Close() error
}

// ReaderSource adapts an arbitrary io.Reader (an HTTP request body, a gRPC
// stream wrapper, a file, stdin) to the ByteSource contract.
type ReaderSource struct {
	r         io.Reader
	chunkSize int
	closed    bool
}

// NewReaderSource wraps r in a ReaderSource producing chunks of up to
// chunkSize bytes. A non-positive chunkSize selects DefaultChunkSize.
func NewReaderSource(r io.Reader, chunkSize int) *ReaderSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ReaderSource{r: r, chunkSize: chunkSize}
}

// Next implements ByteSource.
func (s *ReaderSource) Next() ([]byte, error) {
	if s.closed {
		return nil, ErrSourceClosed
	}
	buf := make([]byte, s.chunkSize)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			// An io.EOF alongside data is reported on the following call.
			return buf[:n:n], nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
}

// Close implements ByteSource. It closes the underlying reader when it is
// an io.Closer.
func (s *ReaderSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// FileSource reads a previously buffered file as a fresh read-once stream.
// It is the replay variant handed to sinks: when deleteOnClose is set the
// backing file is removed on Close, transferring the cleanup obligation to
// whoever holds the source.
type FileSource struct {
	path          string
	f             *os.File
	chunkSize     int
	deleteOnClose bool
	closed        bool
	closeErr      error
}

// NewFileSource opens path for replay. When deleteOnClose is true the file
// is removed when the source is closed.
func NewFileSource(path string, deleteOnClose bool) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return &FileSource{
		path:          path,
		f:             f,
		chunkSize:     DefaultChunkSize,
		deleteOnClose: deleteOnClose,
	}, nil
}

// Path returns the location of the backing file.
func (s *FileSource) Path() string {
	return s.path
}

// Next implements ByteSource.
func (s *FileSource) Next() ([]byte, error) {
	if s.closed {
		return nil, ErrSourceClosed
	}
	buf := make([]byte, s.chunkSize)
	for {
		n, err := s.f.Read(buf)
		if n > 0 {
			return buf[:n:n], nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
}

// Close implements ByteSource. The first call closes the file and, when
// deleteOnClose is set, removes it; later calls return the first result.
func (s *FileSource) Close() error {
	if s.closed {
		return s.closeErr
	}
	s.closed = true
	err := s.f.Close()
	if s.deleteOnClose {
		if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.Join(err, fmt.Errorf("remove replay file: %w", rmErr))
		}
	}
	s.closeErr = err
	return err
}

// sourceReader adapts a ByteSource to io.Reader so sinks can use io.Copy
// and friends on the replayed payload.
type sourceReader struct {
	src ByteSource
	buf []byte
	err error
}

// NewSourceReader returns an io.Reader that drains src chunk by chunk.
// It does not close src; ownership stays with the caller.
func NewSourceReader(src ByteSource) io.Reader {
	return &sourceReader{src: src}
}

func (r *sourceReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		chunk, err := r.src.Next()
		if err != nil {
			r.err = err
			return 0, err
		}
		r.buf = chunk
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
