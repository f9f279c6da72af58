package driving

import "context"

// IngestService loads catalogue records into the vector index.
type IngestService interface {
	// FetchOne ingests a single record by catalogue ID. Errors propagate.
	FetchOne(ctx context.Context, id string) (*IngestStats, error)

	// FetchAllFromSearch ingests every hit of a catalogue search.
	// Per-record failures are logged and counted, never fatal.
	FetchAllFromSearch(ctx context.Context, query string) (*IngestStats, error)

	// Reindex re-chunks and re-embeds every record already on disk.
	Reindex(ctx context.Context) (*IngestStats, error)
}

// IngestStats summarises one ingestion run.
type IngestStats struct {
	// Records is the number of records processed successfully.
	Records int

	// Failed is the number of records that failed.
	Failed int

	// Files is the number of source files loaded.
	Files int

	// Chunks is the number of chunks submitted to the index.
	Chunks int
}
