package ingestkit_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gobeaver/ingestkit"
	"github.com/gobeaver/ingestkit/sink/memory"
)

func ExampleIngestor_Ingest() {
	ctx := context.Background()

	ing := ingestkit.New()
	sink := memory.New() // Using memory for example; use local.New() in production

	cfg := ingestkit.Config{
		MaxContentLength: 10 << 20,
		AcceptedTypes:    []string{"application/pdf"},
	}

	payload := []byte("%PDF-1.7 example document")
	meta := ingestkit.UploadMeta{
		Filename:      "report.pdf",
		ClaimedType:   "application/pdf",
		ContentLength: int64(len(payload)),
	}

	verdict, err := ing.Ingest(ctx, meta, cfg,
		ingestkit.NewReaderSource(bytes.NewReader(payload), 0), sink)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(verdict.OK)
	fmt.Println(verdict.DetectedType)
	fmt.Println(verdict.Size)
	// Output:
	// true
	// application/pdf
	// 25
}

func ExampleIngestor_Ingest_rejected() {
	ctx := context.Background()

	ing := ingestkit.New()
	sink := memory.New()

	cfg := ingestkit.Config{
		MaxContentLength: 10 << 20,
		AcceptedTypes:    []string{"application/pdf"},
	}

	// The bytes say PNG no matter what the upload claims.
	payload := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	meta := ingestkit.UploadMeta{
		Filename:      "report.pdf",
		ClaimedType:   "application/pdf",
		ContentLength: int64(len(payload)),
	}

	verdict, err := ing.Ingest(ctx, meta, cfg,
		ingestkit.NewReaderSource(bytes.NewReader(payload), 0), sink)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(verdict.OK)
	for _, e := range verdict.Errors {
		fmt.Println(e)
	}
	// Output:
	// false
	// content type "image/png" is not accepted (allowed: application/pdf)
	// content type mismatch: claimed "application/pdf", detected "image/png"
}
