package driven

import (
	"github.com/custodia-labs/willa/internal/core/domain"
)

// RecordStore owns the on-disk ingestion layout:
//
//	root/{id}/{id}.json  document metadata
//	root/{id}/{id}.xml   raw MARC record
//	root/{id}/*          downloaded source files
type RecordStore interface {
	// Create makes the directory for id and returns its path.
	// An existing directory fails with a *domain.StorageError wrapping fs.ErrExist.
	Create(id string) (string, error)

	// WriteRecord writes the raw record as {id}.xml.
	WriteRecord(id string, rec *domain.RawRecord) error

	// WriteMetadata writes the document metadata as {id}.json.
	WriteMetadata(id string, md domain.DocumentMetadata) error

	// ReadMetadata reads {id}.json. A missing file returns domain.ErrNotFound.
	ReadMetadata(id string) (domain.DocumentMetadata, error)

	// List returns the IDs of every record directory, sorted.
	List() ([]string, error)

	// SourceFiles returns the paths of every file in the record directory
	// other than its metadata and raw record, sorted.
	SourceFiles(id string) ([]string, error)

	// Root returns the storage root.
	Root() string
}
