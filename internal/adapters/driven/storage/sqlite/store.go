package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/willa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/willa/internal/adapters/driven/vector/similarity"
	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that exposes the vector and
// thread stores through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the database at dbPath and applies pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: %w: empty database path", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serialises writers from concurrent ingest workers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VectorStore returns a VectorStore backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// ThreadStore returns a ThreadStore backed by this store.
func (s *Store) ThreadStore() driven.ThreadStore {
	return &threadStore{store: s}
}

// migrate applies every NNN_*.up.sql newer than the recorded version,
// each in its own transaction together with its version row.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert stores chunks in one transaction, replacing rows with the same ID.
func (s *vectorStore) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %q: %w: missing embedding", c.ID, domain.ErrInvalidInput)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, start_index, source, content, metadata, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			position = excluded.position,
			start_index = excluded.start_index,
			source = excluded.source,
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range chunks {
		metadataJSON, err := marshalMetadata(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for chunk %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.Position, c.StartIndex, c.Source,
			c.Content, metadataJSON, float32SliceToBytes(c.Embedding), now); err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// Search scans every stored embedding and returns the k most similar chunks.
func (s *vectorStore) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, position, start_index, source, content, metadata, embedding
		FROM chunks
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		chunk, embedding, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, driven.VectorHit{
			Chunk:      chunk,
			Similarity: similarity.Cosine(query, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return similarity.TopK(hits, k), nil
}

// Count returns the number of stored chunks.
func (s *vectorStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close is a no-op; the owning Store closes the connection.
func (s *vectorStore) Close() error {
	return nil
}

// ==================== Thread Store ====================

// threadStore implements driven.ThreadStore.
type threadStore struct {
	store *Store
}

var _ driven.ThreadStore = (*threadStore)(nil)

// Load retrieves a thread's state.
func (s *threadStore) Load(ctx context.Context, threadID string) (*domain.ThreadState, error) {
	var stateJSON string
	err := s.store.db.QueryRowContext(ctx, "SELECT state FROM threads WHERE id = ?", threadID).Scan(&stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading thread: %w", err)
	}

	var state domain.ThreadState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("unmarshalling thread %s: %w", threadID, err)
	}
	return &state, nil
}

// Save stores or replaces a thread's state.
func (s *threadStore) Save(ctx context.Context, state *domain.ThreadState) error {
	if state == nil || state.ThreadID == "" {
		return domain.ErrInvalidInput
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshalling thread: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO threads (id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`, state.ThreadID, string(stateJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving thread: %w", err)
	}
	return nil
}

// Delete removes a thread.
func (s *threadStore) Delete(ctx context.Context, threadID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM threads WHERE id = ?", threadID); err != nil {
		return fmt.Errorf("deleting thread: %w", err)
	}
	return nil
}

// List returns every stored thread ID in ID order.
func (s *threadStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT id FROM threads ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning thread id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close is a no-op; the owning Store closes the connection.
func (s *threadStore) Close() error {
	return nil
}

// ==================== Helper Functions ====================

func marshalMetadata(md domain.DocumentMetadata) (string, error) {
	if md == nil {
		return "{}", nil
	}
	b, err := json.Marshal(md)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// scanChunk scans one chunks row, returning the embedding separately.
func scanChunk(rows *sql.Rows) (domain.Chunk, []float32, error) {
	var (
		c            domain.Chunk
		metadataJSON string
		blob         []byte
	)
	if err := rows.Scan(&c.ID, &c.DocumentID, &c.Position, &c.StartIndex, &c.Source,
		&c.Content, &metadataJSON, &blob); err != nil {
		return c, nil, fmt.Errorf("scanning chunk: %w", err)
	}

	md := make(domain.DocumentMetadata)
	if err := json.Unmarshal([]byte(metadataJSON), &md); err != nil {
		return c, nil, fmt.Errorf("unmarshalling metadata for chunk %s: %w", c.ID, err)
	}
	if len(md) > 0 {
		c.Metadata = md
	}
	return c, bytesToFloat32Slice(blob), nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
