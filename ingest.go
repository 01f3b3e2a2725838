package ingestkit

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// UploadMeta describes one incoming upload as asserted by the transport.
// Everything in it is untrusted: the filename is informational, the claimed
// type is verified against the detected one, and the declared length is
// verified against the observed byte count.
type UploadMeta struct {
	Filename    string
	ClaimedType string

	// ContentLength is the length declared by the transport, or a negative
	// value when none was declared (net/http convention).
	ContentLength int64
}

// Config holds the validation rules for an ingestion. A Config is immutable
// from the engine's point of view and may be shared across many calls.
type Config struct {
	// MaxContentLength is the byte ceiling. Values <= 0 disable the check.
	MaxContentLength int64

	// AcceptedTypes lists acceptable content types. Exact matches, "*/*" and
	// "type/*" wildcards are supported; entries are normalized before
	// comparison.
	AcceptedTypes []string
}

// Accepts reports whether a normalized content type is allowed by the
// config's accepted set.
func (c Config) Accepts(contentType string) bool {
	for _, accepted := range c.AcceptedTypes {
		accepted = NormalizeContentType(accepted)
		if accepted == contentType || accepted == "*/*" {
			return true
		}
		if strings.HasSuffix(accepted, "/*") {
			prefix := strings.TrimSuffix(accepted, "/*")
			if strings.HasPrefix(contentType, prefix+"/") {
				return true
			}
		}
	}
	return false
}

// Sink receives one validated upload for downstream disposition.
//
// Persist may read data to completion, partially, or not at all, and may
// fail; the engine does not inspect what a sink does with a rejected
// verdict. The sink only borrows read access to data: the engine retains
// the cleanup obligation and releases the backing storage after Persist
// returns.
type Sink interface {
	Persist(ctx context.Context, meta UploadMeta, verdict *Verdict, data ByteSource) error
}

// Ingestor runs single-pass ingestions. It holds no per-call state: the
// same instance is safe for concurrent use, each call operating on its own
// source, spool and sink.
type Ingestor struct {
	spoolDir  string
	algorithm DigestAlgorithm
	logger    *slog.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithSpoolDir places replay buffers in dir instead of the system temp
// directory.
func WithSpoolDir(dir string) IngestorOption {
	return func(ing *Ingestor) {
		ing.spoolDir = dir
	}
}

// WithDigestAlgorithm selects the digest computed over every stream.
// The default is DigestSHA256.
func WithDigestAlgorithm(algorithm DigestAlgorithm) IngestorOption {
	return func(ing *Ingestor) {
		ing.algorithm = algorithm
	}
}

// WithLogger sets the logger used for operational warnings (failed buffer
// cleanup and the like). The verdict itself is never logged.
func WithLogger(logger *slog.Logger) IngestorOption {
	return func(ing *Ingestor) {
		ing.logger = logger
	}
}

// New creates an Ingestor.
func New(opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		algorithm: DigestSHA256,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest drains src exactly once, measuring size, digest and content type
// on the way into a replay spool, validates the result against cfg, and
// hands the verdict plus a fresh replay source to sink.
//
// Validation failures do not return an error: they land in the verdict and
// the sink still runs, so it can quarantine or discard as it sees fit. An
// error return means no verdict could be produced (source/spool I/O
// failure, unknown digest algorithm, cancelled context) or that the sink
// itself failed; in the latter case the verdict is returned alongside the
// error. The spool backing file is released on every path; src is never
// closed, it belongs to the caller.
func (ing *Ingestor) Ingest(ctx context.Context, meta UploadMeta, cfg Config, src ByteSource, sink Sink) (*Verdict, error) {
	sp, err := NewSpool(ing.spoolDir)
	if err != nil {
		return nil, err
	}

	var replay *FileSource
	defer func() {
		if replay != nil {
			if cerr := replay.Close(); cerr != nil {
				ing.logger.Warn("failed to release replay source",
					"path", replay.Path(), "error", cerr)
			}
			return
		}
		if derr := sp.Discard(); derr != nil {
			ing.logger.Warn("failed to remove spool file",
				"path", sp.Path(), "error", derr)
		}
	}()

	hasher, err := NewHasher(ing.algorithm)
	if err != nil {
		return nil, err
	}

	var (
		header    [SniffLen]byte
		headerLen int
		total     int64
	)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		chunk, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}

		if headerLen < SniffLen {
			headerLen += copy(header[headerLen:], chunk)
		}
		hasher.Write(chunk)
		if _, err := sp.Write(chunk); err != nil {
			return nil, err
		}
		total += int64(len(chunk))
		// No early exit past MaxContentLength: size, digest and the buffered
		// copy must stay accurate for reporting and quarantine storage.
	}

	detected := DetectContentType(header[:headerLen])
	verdict := &Verdict{
		DetectedType: detected,
		Size:         total,
		Digest:       hex.EncodeToString(hasher.Sum(nil)),
		Errors:       validate(meta, cfg, detected, total),
	}
	verdict.OK = len(verdict.Errors) == 0

	replay, err = sp.Replay()
	if err != nil {
		return nil, err
	}

	if err := sink.Persist(ctx, meta, verdict, replay); err != nil {
		return verdict, fmt.Errorf("sink: %w", err)
	}
	return verdict, nil
}

// validate evaluates every rule in order, accumulating all failures.
func validate(meta UploadMeta, cfg Config, detected string, size int64) []string {
	var errs []string

	if meta.ContentLength >= 0 && meta.ContentLength != size {
		errs = append(errs, fmt.Sprintf(
			"content length mismatch: declared %d bytes, received %d bytes",
			meta.ContentLength, size))
	}

	if cfg.MaxContentLength > 0 && size > cfg.MaxContentLength {
		errs = append(errs, fmt.Sprintf(
			"file size %d bytes exceeds maximum allowed %d bytes",
			size, cfg.MaxContentLength))
	}

	if !cfg.Accepts(detected) {
		errs = append(errs, fmt.Sprintf(
			"content type %q is not accepted (allowed: %s)",
			detected, strings.Join(cfg.AcceptedTypes, ", ")))
	}

	if claimed := NormalizeContentType(meta.ClaimedType); claimed != detected {
		errs = append(errs, fmt.Sprintf(
			"content type mismatch: claimed %q, detected %q",
			claimed, detected))
	}

	return errs
}
