// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. One database file backs two stores:
//
//   - VectorStore: Chunks with their embeddings, searched by cosine similarity
//   - ThreadStore: Conversation state per thread, stored as JSON
//
// # Schema
//
// The schema is managed through numbered migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode with a
// busy timeout so concurrent writers queue instead of failing.
package sqlite
