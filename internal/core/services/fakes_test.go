package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// fakeIndex records every call and returns canned chunks.
type fakeIndex struct {
	mu            sync.Mutex
	added         []domain.Chunk
	retrieveCalls int
	lastQuery     string
	lastK         int
	results       []domain.Chunk
	retrieveErr   error
	addErr        error
}

func (f *fakeIndex) Add(_ context.Context, chunks []domain.Chunk) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}
	f.added = append(f.added, chunks...)
	return ids, nil
}

func (f *fakeIndex) Retrieve(_ context.Context, query string, k int) ([]domain.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retrieveCalls++
	f.lastQuery = query
	f.lastK = k
	return f.results, f.retrieveErr
}

func (f *fakeIndex) Close() error { return nil }

// fakeLLM returns a fixed answer and records the messages it was sent.
type fakeLLM struct {
	mu             sync.Mutex
	answer         string
	chatErr        error
	chatCalls      int
	lastMessages   []driven.ChatMessage
	summary        string
	summaryErr     error
	summariseCalls int
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	f.lastMessages = messages
	return f.answer, f.chatErr
}

func (f *fakeLLM) Summarise(_ context.Context, _ string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summariseCalls++
	return f.summary, f.summaryErr
}

func (f *fakeLLM) ModelName() string            { return "fake" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

// fakeThreadStore keeps cloned states in a map.
type fakeThreadStore struct {
	mu      sync.Mutex
	threads map[string]*domain.ThreadState
	saveErr error
}

func newFakeThreadStore() *fakeThreadStore {
	return &fakeThreadStore{threads: make(map[string]*domain.ThreadState)}
}

func (f *fakeThreadStore) Load(_ context.Context, id string) (*domain.ThreadState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.threads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.Clone(), nil
}

func (f *fakeThreadStore) Save(_ context.Context, s *domain.ThreadState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.threads[s.ThreadID] = s.Clone()
	return nil
}

func (f *fakeThreadStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.threads, id)
	return nil
}

func (f *fakeThreadStore) List(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.threads))
	for id := range f.threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeThreadStore) Close() error { return nil }

// fakeCatalogue serves records, file lists and files from memory.
type fakeCatalogue struct {
	mu        sync.Mutex
	records   map[string]*domain.RawRecord
	files     map[string][]domain.FileDescriptor
	content   map[string]string // url -> body
	pages     [][]*domain.RawRecord
	pageErrAt int // 1-based page that fails; 0 = never
	fetched   map[string]int
}

func newFakeCatalogue() *fakeCatalogue {
	return &fakeCatalogue{
		records: make(map[string]*domain.RawRecord),
		files:   make(map[string][]domain.FileDescriptor),
		content: make(map[string]string),
		fetched: make(map[string]int),
	}
}

// addRecord registers a record with one transcript file named name.
func (f *fakeCatalogue) addRecord(rec *domain.RawRecord, name, body string) {
	id := rec.ID()
	f.records[id] = rec
	if name == "" {
		return
	}
	url := fmt.Sprintf("https://tind.example/api/v1/record/%s/files/%s/download/?version=1", id, name)
	f.files[id] = append(f.files[id], domain.FileDescriptor{URL: url, Name: name})
	f.content[url] = body
}

func (f *fakeCatalogue) FetchMetadata(_ context.Context, id string) (*domain.RawRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeCatalogue) FetchFileList(_ context.Context, id string) ([]domain.FileDescriptor, error) {
	f.mu.Lock()
	f.fetched[id]++
	f.mu.Unlock()
	return f.files[id], nil
}

func (f *fakeCatalogue) FetchFile(_ context.Context, url, destDir string) (string, error) {
	body, ok := f.content[url]
	if !ok {
		return "", domain.ErrRecordNotFound
	}
	parts := strings.Split(url, "/")
	name := parts[len(parts)-3]
	path := destDir + "/" + name
	if err := writeTestFile(path, body); err != nil {
		return "", &domain.StorageError{Path: path, Err: err}
	}
	return path, nil
}

func (f *fakeCatalogue) Search(_ context.Context, _ string) (driven.SearchPager, error) {
	return &fakePager{cat: f}, nil
}

type fakePager struct {
	cat  *fakeCatalogue
	next int
}

func (p *fakePager) NextPage(_ context.Context) ([]*domain.RawRecord, error) {
	p.next++
	if p.cat.pageErrAt == p.next {
		return nil, &domain.CatalogueError{StatusCode: 400, Reason: "search_id expired"}
	}
	if p.next > len(p.cat.pages) {
		return nil, nil
	}
	return p.cat.pages[p.next-1], nil
}

// testRecord builds a minimal valid record.
func testRecord(id, title string) *domain.RawRecord {
	return &domain.RawRecord{
		ControlFields: []domain.ControlField{{Tag: "001", Data: id}},
		DataFields: []domain.DataField{
			{Tag: "245", Ind1: "1", Ind2: "0", Subfields: []domain.Subfield{{Code: "a", Value: title}}},
			{Tag: "982", Ind1: " ", Ind2: " ", Subfields: []domain.Subfield{{Code: "b", Value: "Freedom to Marry Project"}}},
		},
	}
}

// chunkFor builds a retrieved chunk carrying citation metadata.
func chunkFor(id, title, content string) domain.Chunk {
	md := domain.NewDocumentMetadata()
	md[domain.MetaTindID] = domain.Single(id)
	md[domain.MetaTitle] = domain.Single(title)
	return domain.Chunk{ID: id + "-c", DocumentID: id, Content: content, Metadata: md}
}
