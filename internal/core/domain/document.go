package domain

// Document is the text extracted from one source file of a record,
// after boilerplate filtering and before chunking.
type Document struct {
	// ID is the record's catalogue identifier.
	ID string

	// Source is the path of the file the text came from.
	Source string

	// Title is the human-readable title.
	Title string

	// Content is the full text content.
	Content string

	// Metadata is the record's semantic metadata.
	Metadata DocumentMetadata
}

// Chunk is a windowed fragment of document text prepared for embedding.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID is the catalogue identifier of the parent record.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// StartIndex is the character offset of Content within the source text.
	StartIndex int

	// Source is the path of the file the chunk was cut from.
	Source string

	// Metadata is the record metadata embedded in every chunk.
	Metadata DocumentMetadata

	// Embedding is the vector representation, set by the vector index.
	Embedding []float32
}

// RecordID returns the tind_id carried in the chunk metadata,
// falling back to DocumentID.
func (c Chunk) RecordID() string {
	if id := c.Metadata.RecordID(); id != "" {
		return id
	}
	return c.DocumentID
}

// Clone returns a copy that shares no maps or slices with c.
func (c Chunk) Clone() Chunk {
	c.Metadata = c.Metadata.Clone()
	if c.Embedding != nil {
		c.Embedding = append([]float32(nil), c.Embedding...)
	}
	return c
}
