// Package storage opens the configured vector and thread stores from URIs.
//
// Supported schemes:
//
//	memory://                  in-process (vectors and threads)
//	sqlite:///abs/path.db      SQLite file (vectors and threads)
//	sqlite://relative.db       SQLite file under the base directory
//	bolt:///abs/path.db        bbolt file (threads only)
//	postgres://user@host/db    PostgreSQL with pgvector (vectors only)
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/willa/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/willa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/willa/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/willa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// URI schemes.
const (
	SchemeMemory     = "memory"
	SchemeSQLite     = "sqlite"
	SchemeBolt       = "bolt"
	SchemePostgres   = "postgres"
	SchemePostgreSQL = "postgresql"
)

// ParseURI splits a store URI into its scheme and location. Relative
// file locations are resolved against baseDir.
func ParseURI(uri, baseDir string) (scheme, location string, err error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return "", "", fmt.Errorf("%w: store URI %q has no scheme", domain.ErrInvalidInput, uri)
	}
	scheme = strings.ToLower(scheme)

	switch scheme {
	case SchemeMemory:
		return scheme, "", nil
	case SchemePostgres, SchemePostgreSQL:
		return SchemePostgres, uri, nil
	case SchemeSQLite, SchemeBolt:
		if rest == "" {
			return "", "", fmt.Errorf("%w: store URI %q has no path", domain.ErrInvalidInput, uri)
		}
		if !filepath.IsAbs(rest) && baseDir != "" {
			rest = filepath.Join(baseDir, rest)
		}
		return scheme, rest, nil
	default:
		return "", "", fmt.Errorf("%w: store scheme %q", domain.ErrUnsupportedType, scheme)
	}
}

// OpenVectorStore opens the vector store named by uri.
func OpenVectorStore(ctx context.Context, uri, baseDir string) (driven.VectorStore, error) {
	scheme, location, err := ParseURI(uri, baseDir)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case SchemeMemory:
		return memory.NewVectorStore(), nil
	case SchemeSQLite:
		store, err := sqlite.NewStore(location)
		if err != nil {
			return nil, err
		}
		return &ownedVectorStore{VectorStore: store.VectorStore(), owner: store}, nil
	case SchemePostgres:
		store, err := postgres.Open(ctx, location)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s cannot store vectors", domain.ErrUnsupportedType, scheme)
	}
}

// OpenThreadStore opens the thread store named by uri. Memory threads
// expire after ttl of inactivity when ttl is positive and never otherwise.
func OpenThreadStore(uri, baseDir string, ttl time.Duration) (driven.ThreadStore, error) {
	scheme, location, err := ParseURI(uri, baseDir)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case SchemeMemory:
		return memory.NewThreadStore(ttl), nil
	case SchemeBolt:
		store, err := bolt.Open(location)
		if err != nil {
			return nil, err
		}
		return store, nil
	case SchemeSQLite:
		store, err := sqlite.NewStore(location)
		if err != nil {
			return nil, err
		}
		return &ownedThreadStore{ThreadStore: store.ThreadStore(), owner: store}, nil
	default:
		return nil, fmt.Errorf("%w: %s cannot store threads", domain.ErrUnsupportedType, scheme)
	}
}

// ownedVectorStore closes the SQLite connection it was opened from.
type ownedVectorStore struct {
	driven.VectorStore
	owner *sqlite.Store
}

func (s *ownedVectorStore) Close() error {
	return s.owner.Close()
}

type ownedThreadStore struct {
	driven.ThreadStore
	owner *sqlite.Store
}

func (s *ownedThreadStore) Close() error {
	return s.owner.Close()
}
