// Package bolt provides a bbolt-backed sink that keeps a ledger of every
// ingestion. Each call writes one verdict record; payload bytes of accepted
// uploads are stored in a separate bucket keyed by digest.
package bolt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/gobeaver/ingestkit"
)

var (
	bucketRecords  = []byte("records")
	bucketPayloads = []byte("payloads")
)

// Record is one ledger entry, rejected ingestions included.
type Record struct {
	ID           string   `msgpack:"id"`
	Filename     string   `msgpack:"filename"`
	ClaimedType  string   `msgpack:"claimedType"`
	DetectedType string   `msgpack:"detectedType"`
	Size         int64    `msgpack:"size"`
	Digest       string   `msgpack:"digest"`
	OK           bool     `msgpack:"ok"`
	Errors       []string `msgpack:"errors"`
	ReceivedAt   int64    `msgpack:"receivedAt"`
}

func (r *Record) Key() []byte {
	return []byte(r.ID)
}

func (r *Record) MarshalBinary() (data []byte, err error) {
	type alias Record
	return msgpack.Marshal((*alias)(r))
}

func (r *Record) UnmarshalBinary(data []byte) error {
	type alias Record
	return msgpack.Unmarshal(data, (*alias)(r))
}

// Sink implements ingestkit.Sink on a bbolt database.
type Sink struct {
	db *bbolt.DB
}

// Open opens (or creates) the ledger database at path.
func Open(path string) (*Sink, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRecords); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketPayloads); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Sink{db: db}, nil
}

// Close closes the underlying database.
func (s *Sink) Close() error {
	return s.db.Close()
}

// Persist implements ingestkit.Sink. Every ingestion gets a record; only
// accepted payload bytes are retained.
func (s *Sink) Persist(ctx context.Context, meta ingestkit.UploadMeta, verdict *ingestkit.Verdict, data ingestkit.ByteSource) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rec := &Record{
		ID:           uuid.NewString(),
		Filename:     meta.Filename,
		ClaimedType:  meta.ClaimedType,
		DetectedType: verdict.DetectedType,
		Size:         verdict.Size,
		Digest:       verdict.Digest,
		OK:           verdict.OK,
		Errors:       verdict.Errors,
		ReceivedAt:   time.Now().Unix(),
	}

	var payload []byte
	if verdict.OK {
		var err error
		payload, err = io.ReadAll(ingestkit.NewSourceReader(data))
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		encoded, err := rec.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if err := tx.Bucket(bucketRecords).Put(rec.Key(), encoded); err != nil {
			return err
		}
		if payload != nil {
			return tx.Bucket(bucketPayloads).Put([]byte(rec.Digest), payload)
		}
		return nil
	})
}

// Record returns the ledger entry with the given id.
func (s *Sink) Record(id string) (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("record not found for id %s", id)
		}
		return rec.UnmarshalBinary(data)
	})
	return rec, err
}

// List returns every ledger entry.
func (s *Sink) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(_, v []byte) error {
			var rec Record
			if err := rec.UnmarshalBinary(v); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

// Payload returns the stored bytes of an accepted upload by digest.
func (s *Sink) Payload(digest string) ([]byte, error) {
	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPayloads).Get([]byte(digest))
		if data == nil {
			return fmt.Errorf("payload not found for digest %s", digest)
		}
		payload = append([]byte(nil), data...)
		return nil
	})
	return payload, err
}
