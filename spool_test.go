package ingestkit

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

func TestSpoolWriteReplay(t *testing.T) {
	dir := t.TempDir()
	sp, err := NewSpool(dir)
	if err != nil {
		t.Fatalf("NewSpool failed: %v", err)
	}

	data := []byte("spooled bytes for replay")
	if _, err := sp.Write(data[:10]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := sp.Write(data[10:]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	replay, err := sp.Replay()
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if got := drainSource(t, replay); !bytes.Equal(got, data) {
		t.Error("replayed bytes differ from written bytes")
	}

	if _, err := sp.Write([]byte("late")); !errors.Is(err, ErrSpoolClosed) {
		t.Errorf("Write after Replay = %v, want ErrSpoolClosed", err)
	}

	if err := replay.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(sp.Path()); !os.IsNotExist(err) {
		t.Error("backing file should be removed when the replay source closes")
	}
}

func TestSpoolDiscard(t *testing.T) {
	dir := t.TempDir()
	sp, err := NewSpool(dir)
	if err != nil {
		t.Fatalf("NewSpool failed: %v", err)
	}
	if _, err := sp.Write([]byte("doomed")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := sp.Discard(); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if _, err := os.Stat(sp.Path()); !os.IsNotExist(err) {
		t.Error("backing file should be removed by Discard")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("spool dir should be empty, found %d entries", len(entries))
	}
}

func TestSpoolDiscardAfterReplayFailure(t *testing.T) {
	// Discard after a sealed spool must still remove the file.
	sp, err := NewSpool(t.TempDir())
	if err != nil {
		t.Fatalf("NewSpool failed: %v", err)
	}
	replay, err := sp.Replay()
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	// Simulate the engine abandoning the replay source's file.
	replay.deleteOnClose = false
	_ = replay.Close()

	if err := sp.Discard(); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if _, err := os.Stat(sp.Path()); !os.IsNotExist(err) {
		t.Error("backing file should be removed")
	}
}
