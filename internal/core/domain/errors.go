package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown normaliser, provider or store type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// Catalogue Errors.

	// ErrAuthorization indicates a missing or rejected catalogue credential.
	// It is fatal to the calling operation and never retried.
	ErrAuthorization = errors.New("catalogue authorization failed")

	// ErrRecordNotFound indicates an absent record or file.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidDownloadURL indicates a file URL that is not a catalogue download link.
	ErrInvalidDownloadURL = errors.New("invalid download URL")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// CatalogueError is a non-success response from the catalogue API.
type CatalogueError struct {
	// StatusCode is the HTTP status returned.
	StatusCode int

	// Reason is the message from the JSON body's reason or error field.
	Reason string
}

func (e *CatalogueError) Error() string {
	return fmt.Sprintf("catalogue error (status %d): %s", e.StatusCode, e.Reason)
}

// MissingRequiredFieldError reports every required MARC field a record lacks.
type MissingRequiredFieldError struct {
	// RecordID is the control number when known.
	RecordID string

	// Fields holds one message per missing field, e.g. "245 missing or None".
	Fields []string
}

func (e *MissingRequiredFieldError) Error() string {
	msg := strings.Join(e.Fields, ", ")
	if e.RecordID != "" {
		return fmt.Sprintf("record %s: %s", e.RecordID, msg)
	}
	return msg
}

// Is lets errors.Is match any MissingRequiredFieldError against ErrInvalidInput.
func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StorageError is a failure writing ingestion output to disk.
type StorageError struct {
	// Path is the file or directory being written.
	Path string

	// Err is the underlying I/O error.
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
