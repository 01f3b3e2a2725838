package ingestkit

import (
	"bytes"
	"strings"
)

// SniffLen is the number of leading bytes inspected for content detection,
// matching the header window the engine captures during the drain.
const SniffLen = 512

var (
	magicPDF = []byte{0x25, 0x50, 0x44, 0x46} // %PDF
	magicPNG = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	magicJPG = []byte{0xFF, 0xD8, 0xFF}
)

// DetectContentType classifies a stream by the structural signature of its
// leading bytes, ignoring any claimed name or type. header should hold the
// first up to SniffLen bytes; fewer than 4 bytes always classify as
// application/octet-stream.
//
// Signatures are checked in a fixed order because some prefixes nest: the
// ZIP check must run before any ZIP-based refinement, and the generic
// fallback only applies when nothing matched.
func DetectContentType(header []byte) string {
	if len(header) < 4 {
		return MIMETypeOctetStream
	}
	if len(header) > SniffLen {
		header = header[:SniffLen]
	}

	switch {
	case bytes.HasPrefix(header, magicPDF):
		return MIMETypeApplicationPDF
	case bytes.HasPrefix(header, magicPNG):
		return MIMETypeImagePNG
	case isZipSignature(header):
		return refineZip(header)
	case bytes.HasPrefix(header, magicJPG):
		return MIMETypeImageJPEG
	}

	return MIMETypeOctetStream
}

// isZipSignature matches the PK local-file, central-directory and
// end-of-archive record signatures.
func isZipSignature(header []byte) bool {
	if header[0] != 0x50 || header[1] != 0x4B {
		return false
	}
	switch header[2] {
	case 0x03, 0x05, 0x07:
	default:
		return false
	}
	switch header[3] {
	case 0x04, 0x06, 0x08:
	default:
		return false
	}
	return true
}

// refineZip distinguishes Office Open XML documents from plain ZIP archives
// by the entry names visible in the header window.
func refineZip(header []byte) string {
	s := string(header)
	if strings.Contains(s, "word/") || strings.Contains(s, "[Content_Types].xml") {
		return MIMETypeWordDocument
	}
	return MIMETypeApplicationZip
}

// NormalizeContentType strips any parameter suffix (";charset=..." and the
// like) and surrounding whitespace. An empty or missing type normalizes to
// application/octet-stream. Both claimed and detected types go through this
// before any comparison or acceptance check.
func NormalizeContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx > 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return MIMETypeOctetStream
	}
	return contentType
}
