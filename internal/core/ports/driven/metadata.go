package driven

import "github.com/custodia-labs/willa/internal/core/domain"

// MetadataNormaliser turns a raw bibliographic record into validated
// document metadata.
type MetadataNormaliser interface {
	// Normalize validates rec and returns its semantic metadata.
	// A record missing required fields fails with *domain.MissingRequiredFieldError.
	Normalize(rec *domain.RawRecord) (domain.DocumentMetadata, error)
}
