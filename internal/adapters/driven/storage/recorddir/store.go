// Package recorddir stores ingested catalogue records on the local filesystem,
// one directory per record:
//
//	root/{id}/{id}.json  document metadata
//	root/{id}/{id}.xml   raw MARCXML record
//	root/{id}/*          downloaded source files
package recorddir

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/normalisers/marc"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// Store is a driven.RecordStore rooted at a directory.
type Store struct {
	root string
}

// New creates a store rooted at root, creating the root if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: storage root is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &domain.StorageError{Path: root, Err: err}
	}
	return &Store{root: root}, nil
}

// Root returns the storage root.
func (s *Store) Root() string {
	return s.root
}

// dir returns the directory of record id. IDs that would escape the root
// are rejected.
func (s *Store) dir(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: record ID %q cannot name a directory", domain.ErrInvalidInput, id)
	}
	return filepath.Join(s.root, id), nil
}

func (s *Store) metadataPath(dir, id string) string { return filepath.Join(dir, id+".json") }
func (s *Store) recordPath(dir, id string) string   { return filepath.Join(dir, id+".xml") }

// Create makes the directory for id. The directory must not exist yet.
func (s *Store) Create(id string) (string, error) {
	dir, err := s.dir(id)
	if err != nil {
		return "", err
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", &domain.StorageError{Path: dir, Err: err}
	}
	return dir, nil
}

// WriteRecord writes the raw record as {id}.xml.
func (s *Store) WriteRecord(id string, rec *domain.RawRecord) error {
	dir, err := s.dir(id)
	if err != nil {
		return err
	}
	data, err := marc.Marshal(rec)
	if err != nil {
		return err
	}
	return writeFile(s.recordPath(dir, id), data)
}

// WriteMetadata writes the document metadata as {id}.json.
func (s *Store) WriteMetadata(id string, md domain.DocumentMetadata) error {
	dir, err := s.dir(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata %s: %w", id, err)
	}
	return writeFile(s.metadataPath(dir, id), data)
}

// ReadMetadata reads {id}.json.
func (s *Store) ReadMetadata(id string) (domain.DocumentMetadata, error) {
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}
	path := s.metadataPath(dir, id)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, &domain.StorageError{Path: path, Err: err}
	}

	md := domain.NewDocumentMetadata()
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return md, nil
}

// List returns the IDs of every record directory, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &domain.StorageError{Path: s.root, Err: err}
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// SourceFiles returns every regular file in the record directory other
// than {id}.json and {id}.xml, sorted.
func (s *Store) SourceFiles(id string) ([]string, error) {
	dir, err := s.dir(id)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.StorageError{Path: dir, Err: err}
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || name == id+".json" || name == id+".xml" || strings.HasPrefix(name, ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &domain.StorageError{Path: path, Err: err}
	}
	return nil
}
