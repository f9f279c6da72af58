package domain

// RawDocument is a downloaded source file awaiting text extraction.
type RawDocument struct {
	// RecordID is the catalogue record the file belongs to.
	RecordID string

	// URI is the local path of the file.
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
