package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/willa/internal/adapters/driven/ai"
	"github.com/custodia-labs/willa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/willa/internal/adapters/driven/storage"
	"github.com/custodia-labs/willa/internal/adapters/driven/storage/recorddir"
	"github.com/custodia-labs/willa/internal/adapters/driven/vector"
	"github.com/custodia-labs/willa/internal/connectors/tind"
	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
	"github.com/custodia-labs/willa/internal/core/services"
	"github.com/custodia-labs/willa/internal/logger"
	"github.com/custodia-labs/willa/internal/normalisers"
	"github.com/custodia-labs/willa/internal/normalisers/marc"
	"github.com/custodia-labs/willa/internal/postprocessors"
)

type closer func() error

// container builds services on first use. Each command needs only part of
// the graph, so nothing reaches a model provider or opens a store until
// a command asks for it.
type container struct {
	configDir string
	settings  driving.SettingsService

	mu      sync.Mutex
	index   *vector.Index
	ingest  driving.IngestService
	chat    driving.ChatService
	closers []closer
}

func newContainer(configDir string, settings driving.SettingsService) *container {
	return &container{configDir: configDir, settings: settings}
}

// Ingest returns the ingestion service.
func (c *container) Ingest(ctx context.Context) (driving.IngestService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ingest != nil {
		return c.ingest, nil
	}

	s, err := c.settings.Get()
	if err != nil {
		return nil, err
	}

	index, err := c.vectorIndex(ctx, s)
	if err != nil {
		return nil, err
	}

	records, err := recorddir.New(resolvePath(c.configDir, s.Ingest.StorageDir))
	if err != nil {
		return nil, fmt.Errorf("open record storage: %w", err)
	}

	pipeline, err := postprocessors.NewDefaultPipeline(s.Ingest.ChunkSize, s.Ingest.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	catalogue := tind.New(tind.Config{
		BaseURL:           s.Catalogue.BaseURL,
		APIKey:            s.Catalogue.APIKey,
		RequestsPerSecond: s.Catalogue.RequestsPerSecond,
	})

	c.ingest = services.NewIngestService(
		catalogue,
		records,
		marc.Normalizer{},
		normalisers.NewDefaultRegistry(),
		pipeline,
		index,
		s.Ingest.Workers,
	)
	return c.ingest, nil
}

// Chat returns the chat service.
func (c *container) Chat(ctx context.Context) (driving.ChatService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chat != nil {
		return c.chat, nil
	}

	s, err := c.settings.Get()
	if err != nil {
		return nil, err
	}

	index, err := c.vectorIndex(ctx, s)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(c.configDir, "prompts"))
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(ctx, &s.LLM, prompts)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, llm.Close)

	threads, err := storage.OpenThreadStore(s.Chat.ThreadStoreURI, c.configDir,
		time.Duration(s.Chat.ThreadTTLMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("open thread store: %w", err)
	}
	c.closers = append(c.closers, threads.Close)

	template, err := readPromptTemplate(c.configDir, s.Chat.PromptTemplate)
	if err != nil {
		return nil, err
	}

	graph := services.NewConversationGraph(
		index,
		llm,
		services.NewCitationFormatter(s.Catalogue.PublicURL),
		services.ConversationConfig{
			TopK:               s.Chat.TopK,
			SummaryTokenBudget: s.Chat.SummaryTokenBudget,
			SearchCharBudget:   s.Chat.SearchCharBudget,
			KeepRecent:         s.Chat.KeepRecent,
			PromptTemplate:     template,
		},
	)
	graph.SetPromptStore(prompts)

	c.chat = services.NewChatService(graph, threads)
	return c.chat, nil
}

// vectorIndex opens the shared index. Callers hold c.mu.
func (c *container) vectorIndex(ctx context.Context, s *domain.Settings) (*vector.Index, error) {
	if c.index != nil {
		return c.index, nil
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &s.Embedding)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenVectorStore(ctx, s.VectorURI, c.configDir)
	if err != nil {
		warnClose("embedder", embedder.Close())
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	index, err := vector.NewIndex(embedder, store)
	if err != nil {
		warnClose("vector index", errors.Join(store.Close(), embedder.Close()))
		return nil, err
	}

	c.index = index
	c.closers = append(c.closers, index.Close)
	return index, nil
}

// Close releases everything built so far, newest first.
func (c *container) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.closers) - 1; i >= 0; i-- {
		warnClose("service", c.closers[i]())
	}
	c.closers = nil
}

// warnClose logs a failed release; cleanup never masks the caller's error.
func warnClose(what string, err error) {
	if err != nil {
		logger.Warn("close %s: %v", what, err)
	}
}

// readPromptTemplate reads the system prompt override, "" when none is set.
func readPromptTemplate(configDir, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(resolvePath(configDir, path))
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	return string(data), nil
}
