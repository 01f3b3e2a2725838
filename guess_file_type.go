package ingestkit

import (
	"mime"
	"path/filepath"
	"strings"
)

// Common MIME types
const (
	MIMETypeOctetStream     = "application/octet-stream"
	MIMETypeApplicationPDF  = "application/pdf"
	MIMETypeApplicationZip  = "application/zip"
	MIMETypeImagePNG        = "image/png"
	MIMETypeImageJPEG       = "image/jpeg"
	MIMETypeTextPlain       = "text/plain"
	MIMETypeApplicationJSON = "application/json"
	MIMETypeApplicationXML  = "application/xml"

	// MIMETypeWordDocument is the Office Open XML WordprocessingML type
	// produced for DOCX files.
	MIMETypeWordDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Common file extensions to MIME types mapping
var extensionToMIME = map[string]string{
	".txt":  MIMETypeTextPlain,
	".json": MIMETypeApplicationJSON,
	".xml":  MIMETypeApplicationXML,
	".jpg":  MIMETypeImageJPEG,
	".jpeg": MIMETypeImageJPEG,
	".png":  MIMETypeImagePNG,
	".pdf":  MIMETypeApplicationPDF,
	".zip":  MIMETypeApplicationZip,
	".docx": MIMETypeWordDocument,
	".csv":  "text/csv",
	".md":   "text/markdown",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
}

// GuessClaimedType infers a claimed content type from a file path for
// transports that do not carry one (local files handed to the CLI, for
// example). The result is only ever used as UploadMeta.ClaimedType; actual
// classification always happens via DetectContentType on the stream bytes.
func GuessClaimedType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if contentType, ok := extensionToMIME[ext]; ok {
		return contentType
	}

	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return NormalizeContentType(contentType)
	}

	return MIMETypeOctetStream
}
