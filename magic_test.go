package ingestkit

import (
	"bytes"
	"testing"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{
			name:     "PDF",
			data:     []byte("%PDF-1.4 something"),
			expected: MIMETypeApplicationPDF,
		},
		{
			name:     "PDF with binary trailer",
			data:     append([]byte{0x25, 0x50, 0x44, 0x46}, 0x00, 0xFF, 0x13),
			expected: MIMETypeApplicationPDF,
		},
		{
			name:     "PNG",
			data:     []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00},
			expected: MIMETypeImagePNG,
		},
		{
			name:     "JPEG",
			data:     []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'},
			expected: MIMETypeImageJPEG,
		},
		{
			name:     "ZIP local file header",
			data:     []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00},
			expected: MIMETypeApplicationZip,
		},
		{
			name:     "empty ZIP archive",
			data:     []byte{0x50, 0x4B, 0x05, 0x06, 0x00, 0x00},
			expected: MIMETypeApplicationZip,
		},
		{
			name:     "spanned ZIP archive",
			data:     []byte{0x50, 0x4B, 0x07, 0x08, 0x00, 0x00},
			expected: MIMETypeApplicationZip,
		},
		{
			name:     "DOCX via word/ entry",
			data:     append([]byte{0x50, 0x4B, 0x03, 0x04}, []byte("word/document.xml")...),
			expected: MIMETypeWordDocument,
		},
		{
			name:     "DOCX via content types entry",
			data:     append([]byte{0x50, 0x4B, 0x03, 0x04}, []byte("[Content_Types].xml")...),
			expected: MIMETypeWordDocument,
		},
		{
			name:     "PK prefix with wrong record bytes",
			data:     []byte{0x50, 0x4B, 0x01, 0x02, 0x00, 0x00},
			expected: MIMETypeOctetStream,
		},
		{
			name:     "plain text",
			data:     []byte("hello world"),
			expected: MIMETypeOctetStream,
		},
		{
			name:     "empty header",
			data:     nil,
			expected: MIMETypeOctetStream,
		},
		{
			name:     "three bytes only",
			data:     []byte{0xFF, 0xD8, 0xFF},
			expected: MIMETypeOctetStream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectContentType(tt.data); got != tt.expected {
				t.Errorf("DetectContentType() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDetectContentTypePrecedence(t *testing.T) {
	// A PDF signature wins no matter what follows, including bytes that
	// would match other signatures further in.
	data := append([]byte("%PDF"), 0x50, 0x4B, 0x03, 0x04)
	if got := DetectContentType(data); got != MIMETypeApplicationPDF {
		t.Errorf("DetectContentType() = %q, want %q", got, MIMETypeApplicationPDF)
	}
}

func TestDetectContentTypeLargeHeader(t *testing.T) {
	// Only the first SniffLen bytes participate: a word/ marker beyond the
	// window must not turn a ZIP into a DOCX.
	data := append([]byte{0x50, 0x4B, 0x03, 0x04}, bytes.Repeat([]byte{0x00}, SniffLen)...)
	data = append(data, []byte("word/document.xml")...)
	if got := DetectContentType(data); got != MIMETypeApplicationZip {
		t.Errorf("DetectContentType() = %q, want %q", got, MIMETypeApplicationZip)
	}
}

func TestNormalizeContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare type", input: "application/pdf", expected: "application/pdf"},
		{name: "charset parameter", input: "text/html; charset=utf-8", expected: "text/html"},
		{name: "surrounding whitespace", input: "  image/png  ", expected: "image/png"},
		{name: "parameter and whitespace", input: " application/json ;q=1", expected: "application/json"},
		{name: "empty", input: "", expected: MIMETypeOctetStream},
		{name: "whitespace only", input: "   ", expected: MIMETypeOctetStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeContentType(tt.input); got != tt.expected {
				t.Errorf("NormalizeContentType(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGuessClaimedType(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "report.pdf", expected: MIMETypeApplicationPDF},
		{path: "photo.JPG", expected: MIMETypeImageJPEG},
		{path: "notes.docx", expected: MIMETypeWordDocument},
		{path: "archive.zip", expected: MIMETypeApplicationZip},
		{path: "no-extension", expected: MIMETypeOctetStream},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := GuessClaimedType(tt.path); got != tt.expected {
				t.Errorf("GuessClaimedType(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
