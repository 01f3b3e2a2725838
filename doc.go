// Package ingestkit validates incoming file-like byte streams and forwards
// them, together with a validation verdict, to a pluggable downstream sink.
//
// The core is a single-pass ingestion engine: the input stream is drained
// exactly once, and during that one pass the engine computes a cryptographic
// digest, counts bytes, classifies the content by structural signature, and
// buffers the payload into a transient spool so it can be replayed to the
// sink without re-reading the original (non-seekable) source. The spool is
// released on every code path, including sink failures.
//
// # Basic Usage
//
//	ing := ingestkit.New(ingestkit.WithSpoolDir("/var/spool/uploads"))
//
//	cfg := ingestkit.Config{
//	    MaxContentLength: 10 << 20,
//	    AcceptedTypes:    []string{"application/pdf", "image/png"},
//	}
//
//	meta := ingestkit.UploadMeta{
//	    Filename:      "report.pdf",
//	    ClaimedType:   "application/pdf",
//	    ContentLength: r.ContentLength,
//	}
//
//	src := ingestkit.NewReaderSource(r.Body, 0)
//	defer src.Close()
//
//	verdict, err := ing.Ingest(ctx, meta, cfg, src, sink)
//
// Validation failures (size exceeded, unexpected content type, length
// mismatch) are not errors: they are accumulated in the [Verdict] and the
// sink still runs, so storage policy for rejected uploads (quarantine them,
// or drop them) stays entirely in the sink.
//
// # Sinks
//
// Anything implementing [Sink] can terminate an ingestion:
//
//   - Content-addressed local storage (github.com/gobeaver/ingestkit/sink/local)
//   - A bbolt-backed verdict ledger (github.com/gobeaver/ingestkit/sink/bolt)
//   - In-memory capture for tests and dry runs (github.com/gobeaver/ingestkit/sink/memory)
//
// A sink receives the upload metadata, the verdict, and a fresh [ByteSource]
// replaying the buffered payload. The sink borrows read access only; the
// engine keeps the deletion obligation for the replay buffer.
//
// # Content Detection
//
// [DetectContentType] classifies by magic bytes, never by the claimed name
// or type: PDF, PNG, JPEG, ZIP, and ZIP-based Office WordprocessingML
// documents are recognized; everything else falls back to
// application/octet-stream. [NormalizeContentType] strips MIME parameters
// before any comparison.
package ingestkit
