package driven

import (
	"context"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// CatalogueClient fetches bibliographic records and their files
// from a remote library catalogue.
//
// Errors:
//   - domain.ErrAuthorization for a missing or rejected credential
//   - domain.ErrRecordNotFound for an absent record or file
//   - *domain.CatalogueError for any other non-success response
type CatalogueClient interface {
	// FetchMetadata returns the MARC record for id.
	FetchMetadata(ctx context.Context, id string) (*domain.RawRecord, error)

	// FetchFileList returns the files attached to record id.
	FetchFileList(ctx context.Context, id string) ([]domain.FileDescriptor, error)

	// FetchFile downloads url into destDir and returns the saved path.
	// url must be a catalogue download link; anything else fails with
	// domain.ErrInvalidDownloadURL before any network I/O.
	FetchFile(ctx context.Context, url, destDir string) (string, error)

	// Search starts a paginated search for query.
	Search(ctx context.Context, query string) (SearchPager, error)
}

// SearchPager iterates over the pages of one search.
type SearchPager interface {
	// NextPage returns the next page of records.
	// An empty page marks the end of the results.
	NextPage(ctx context.Context) ([]*domain.RawRecord, error)
}
