// Package postgres provides a driven.VectorStore on PostgreSQL with the
// pgvector extension, accessed through gorm.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// chunkModel is the chunks table row.
type chunkModel struct {
	ID         string                  `gorm:"type:text;primaryKey"`
	DocumentID string                  `gorm:"type:text;not null;index"`
	Position   int                     `gorm:"default:0"`
	StartIndex int                     `gorm:"default:0"`
	Source     string                  `gorm:"type:text"`
	Content    string                  `gorm:"type:text;not null"`
	Metadata   domain.DocumentMetadata `gorm:"type:jsonb;serializer:json"`
	Embedding  pgvector.Vector         `gorm:"type:vector;not null"`
	UpdatedAt  time.Time               `gorm:"autoUpdateTime"`
}

func (chunkModel) TableName() string {
	return "willa_chunks"
}

// scoredChunk is a chunks row with its cosine similarity to the query.
type scoredChunk struct {
	chunkModel
	Similarity float64
}

// VectorStore stores chunks in Postgres and searches them with the
// pgvector cosine distance operator.
type VectorStore struct {
	db *gorm.DB
}

// Open connects to dsn, enables the vector extension and migrates the chunks table.
func Open(ctx context.Context, dsn string) (*VectorStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	s, err := New(ctx, db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}

// New wraps an open gorm connection and prepares the schema.
func New(ctx context.Context, db *gorm.DB) (*VectorStore, error) {
	if err := db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("postgres: enable pgvector: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&chunkModel{}); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return &VectorStore{db: db}, nil
}

// Upsert inserts chunks, replacing rows with the same ID.
func (s *VectorStore) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]chunkModel, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %q: %w: missing embedding", c.ID, domain.ErrInvalidInput)
		}
		models[i] = toModel(c)
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models).Error
	if err != nil {
		return fmt.Errorf("postgres: upsert chunks: %w", err)
	}
	return nil
}

// Search returns the k nearest chunks by cosine distance.
func (s *VectorStore) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	vec := pgvector.NewVector(query)

	// <=> is cosine distance, so similarity is 1 - distance.
	var rows []scoredChunk
	err := s.db.WithContext(ctx).
		Model(&chunkModel{}).
		Select("*, 1 - (embedding <=> ?) AS similarity", vec).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []any{vec}}).
		Limit(k).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: search: %w", err)
	}

	hits := make([]driven.VectorHit, len(rows))
	for i, r := range rows {
		hits[i] = driven.VectorHit{Chunk: toChunk(r.chunkModel), Similarity: r.Similarity}
	}
	return hits, nil
}

// Count returns the number of stored chunks.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&chunkModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return int(n), nil
}

// Close closes the underlying connection pool.
func (s *VectorStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toModel(c domain.Chunk) chunkModel {
	return chunkModel{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Position:   c.Position,
		StartIndex: c.StartIndex,
		Source:     c.Source,
		Content:    c.Content,
		Metadata:   c.Metadata.Clone(),
		Embedding:  pgvector.NewVector(c.Embedding),
	}
}

// toChunk maps a row back to a chunk. The embedding is dropped.
func toChunk(m chunkModel) domain.Chunk {
	return domain.Chunk{
		ID:         m.ID,
		DocumentID: m.DocumentID,
		Position:   m.Position,
		StartIndex: m.StartIndex,
		Source:     m.Source,
		Content:    m.Content,
		Metadata:   m.Metadata,
	}
}
