package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
	"github.com/custodia-labs/willa/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads catalogue records into the vector index.
//
// Each record goes through the same stages: normalise metadata, create the
// record directory, persist the raw and normalised metadata, download the
// files, extract text, filter and chunk, then index. A failure at any stage
// abandons that record only.
type IngestService struct {
	catalogue   driven.CatalogueClient
	records     driven.RecordStore
	metadata    driven.MetadataNormaliser
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	index       driven.VectorIndex
	workers     int
}

// NewIngestService creates an ingestion service. workers bounds how many
// records of a batch are processed at once; values below 1 mean 1.
func NewIngestService(
	catalogue driven.CatalogueClient,
	records driven.RecordStore,
	metadata driven.MetadataNormaliser,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	index driven.VectorIndex,
	workers int,
) *IngestService {
	if workers < 1 {
		workers = 1
	}
	return &IngestService{
		catalogue:   catalogue,
		records:     records,
		metadata:    metadata,
		normalisers: normalisers,
		pipeline:    pipeline,
		index:       index,
		workers:     workers,
	}
}

// recordResult counts what one record contributed.
type recordResult struct {
	files  int
	chunks int
}

// statsCollector accumulates results from concurrent workers.
type statsCollector struct {
	mu    sync.Mutex
	stats driving.IngestStats
}

func (c *statsCollector) success(r recordResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Records++
	c.stats.Files += r.files
	c.stats.Chunks += r.chunks
}

func (c *statsCollector) failure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Failed++
}

func (c *statsCollector) snapshot() *driving.IngestStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	return &s
}

// FetchOne ingests a single record by catalogue ID. Errors propagate.
func (s *IngestService) FetchOne(ctx context.Context, id string) (*driving.IngestStats, error) {
	if s.catalogue == nil {
		return nil, fmt.Errorf("fetch %s: catalogue client not configured", id)
	}

	rec, err := s.catalogue.FetchMetadata(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", id, err)
	}

	res, err := s.processRecord(ctx, rec)
	if err != nil {
		return &driving.IngestStats{Failed: 1}, fmt.Errorf("process %s: %w", id, err)
	}
	return &driving.IngestStats{Records: 1, Files: res.files, Chunks: res.chunks}, nil
}

// FetchAllFromSearch ingests every hit of a catalogue search. Pages are
// requested until one comes back empty. A failed record is logged and
// counted; a failed page ends the run with an error.
func (s *IngestService) FetchAllFromSearch(ctx context.Context, query string) (*driving.IngestStats, error) {
	if s.catalogue == nil {
		return nil, fmt.Errorf("search %q: catalogue client not configured", query)
	}

	pager, err := s.catalogue.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	collector := &statsCollector{}
	for page := 1; ; page++ {
		records, err := pager.NextPage(ctx)
		if err != nil {
			return collector.snapshot(), fmt.Errorf("search %q page %d: %w", query, page, err)
		}
		if len(records) == 0 {
			break
		}
		logger.Info("search %q: page %d has %d records", query, page, len(records))

		if err := s.processBatch(ctx, records, collector); err != nil {
			return collector.snapshot(), err
		}
	}

	return collector.snapshot(), nil
}

// processBatch runs processRecord over records with at most s.workers in
// flight. Only context cancellation stops the batch.
func (s *IngestService) processBatch(ctx context.Context, records []*domain.RawRecord, collector *statsCollector) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, rec := range records {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			res, err := s.processRecord(gctx, rec)
			if err != nil {
				logger.Error("record %s: %v", recordLabel(rec), err)
				collector.failure()
				return nil
			}
			collector.success(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// processRecord runs one record through every ingestion stage.
func (s *IngestService) processRecord(ctx context.Context, rec *domain.RawRecord) (recordResult, error) {
	md, err := s.metadata.Normalize(rec)
	if err != nil {
		return recordResult{}, fmt.Errorf("normalise: %w", err)
	}
	id := rec.ID()

	dir, err := s.records.Create(id)
	if err != nil {
		return recordResult{}, err
	}
	if err := s.records.WriteRecord(id, rec); err != nil {
		return recordResult{}, err
	}
	if err := s.records.WriteMetadata(id, md); err != nil {
		return recordResult{}, err
	}

	files, err := s.catalogue.FetchFileList(ctx, id)
	if err != nil {
		return recordResult{}, fmt.Errorf("list files: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path, err := s.catalogue.FetchFile(ctx, f.URL, dir)
		if err != nil {
			return recordResult{}, fmt.Errorf("download %s: %w", f.Name, err)
		}
		logger.Debug("record %s: saved %s", id, filepath.Base(path))
		paths = append(paths, path)
	}

	return s.indexFiles(ctx, id, paths, md)
}

// indexFiles extracts, filters, chunks and indexes the source files of a record.
// Files no normaliser supports are skipped.
func (s *IngestService) indexFiles(
	ctx context.Context, id string, paths []string, md domain.DocumentMetadata,
) (recordResult, error) {
	var (
		res    recordResult
		chunks []domain.Chunk
	)

	for _, path := range paths {
		out, err := s.normalisers.Normalise(ctx, &domain.RawDocument{RecordID: id, URI: path})
		if errors.Is(err, domain.ErrUnsupportedType) {
			logger.Debug("record %s: skipping %s: %v", id, filepath.Base(path), err)
			continue
		}
		if err != nil {
			return recordResult{}, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
		}

		doc := out.Document
		doc.ID = id
		doc.Source = path
		doc.Metadata = md.Clone()

		docChunks, err := s.pipeline.Process(ctx, &doc)
		if err != nil {
			return recordResult{}, fmt.Errorf("chunk %s: %w", filepath.Base(path), err)
		}
		chunks = append(chunks, docChunks...)
		res.files++
	}

	if len(chunks) == 0 {
		return res, nil
	}
	if s.index == nil {
		return recordResult{}, domain.ErrVectorIndexUnavailable
	}
	if _, err := s.index.Add(ctx, chunks); err != nil {
		return recordResult{}, fmt.Errorf("index: %w", err)
	}
	res.chunks = len(chunks)
	return res, nil
}

// Reindex walks the storage root and indexes every record already on disk.
// A record without metadata is indexed with empty metadata; any other
// failure is logged and counted.
func (s *IngestService) Reindex(ctx context.Context) (*driving.IngestStats, error) {
	ids, err := s.records.List()
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	logger.Info("reindex: %d records under %s", len(ids), s.records.Root())

	collector := &statsCollector{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, id := range ids {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			res, err := s.reindexRecord(gctx, id)
			if err != nil {
				logger.Error("reindex %s: %v", id, err)
				collector.failure()
				return nil
			}
			collector.success(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return collector.snapshot(), err
	}
	return collector.snapshot(), ctx.Err()
}

func (s *IngestService) reindexRecord(ctx context.Context, id string) (recordResult, error) {
	md, err := s.records.ReadMetadata(id)
	if err != nil {
		logger.Error("reindex %s: metadata unavailable, indexing without it: %v", id, err)
		md = domain.NewDocumentMetadata()
	}

	paths, err := s.records.SourceFiles(id)
	if err != nil {
		return recordResult{}, fmt.Errorf("list source files: %w", err)
	}
	return s.indexFiles(ctx, id, paths, md)
}

// recordLabel names a record in log lines, even one without a control number.
func recordLabel(rec *domain.RawRecord) string {
	if id := rec.ID(); id != "" {
		return id
	}
	return "(no 001)"
}
