package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `validate:"required,oneof=ollama openai"`

	// Model is the embedding model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider `validate:"required,oneof=ollama openai anthropic"`

	// Model is the LLM model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// CatalogueSettings holds TIND API access configuration.
type CatalogueSettings struct {
	// BaseURL is the API root, e.g. https://digicoll.lib.berkeley.edu/api/v1.
	BaseURL string `validate:"required,url"`

	// APIKey is the TIND API token. Empty fails every request with ErrAuthorization.
	APIKey string

	// PublicURL is the catalogue site root used in citation permalinks.
	PublicURL string `validate:"required,url"`

	// RequestsPerSecond bounds the request rate.
	RequestsPerSecond float64 `validate:"gt=0"`
}

// IngestSettings controls the ingestion pipeline.
type IngestSettings struct {
	// StorageDir is the root of the per-record directory layout.
	StorageDir string `validate:"required"`

	// ChunkSize is the chunk window in characters.
	ChunkSize int `validate:"gt=0"`

	// ChunkOverlap is the overlap between consecutive windows.
	ChunkOverlap int `validate:"gte=0,ltfield=ChunkSize"`

	// Workers is the number of records ingested concurrently.
	Workers int `validate:"gte=1"`
}

// ChatSettings controls the conversation pipeline.
type ChatSettings struct {
	// TopK is how many chunks are retrieved per turn.
	TopK int `validate:"gte=1"`

	// SummaryTokenBudget is the history size above which older turns are summarised.
	SummaryTokenBudget int `validate:"gt=0"`

	// SearchCharBudget bounds the derived search query, keeping the tail.
	SearchCharBudget int `validate:"gt=0"`

	// KeepRecent is how many trailing messages survive summarisation verbatim.
	KeepRecent int `validate:"gte=1"`

	// PromptTemplate optionally points at a file overriding the system prompt.
	PromptTemplate string

	// ThreadStoreURI selects thread persistence: "memory://" or "bolt:///path".
	ThreadStoreURI string `validate:"required"`

	// ThreadTTLMinutes expires idle in-memory threads. Zero keeps them for
	// the life of the process.
	ThreadTTLMinutes int `validate:"gte=0"`
}

// Settings holds all application settings.
type Settings struct {
	Catalogue CatalogueSettings
	Ingest    IngestSettings
	Chat      ChatSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings

	// VectorURI selects the vector store: memory://, sqlite:///path or postgres://...
	VectorURI string `validate:"required"`

	// LogFile enables the rotating JSON log file when set.
	LogFile string
}

// DefaultSettings returns settings with sensible defaults.
// StorageDir and thread store paths are relative to the config directory
// and resolved against it at startup.
func DefaultSettings() Settings {
	return Settings{
		Catalogue: CatalogueSettings{
			BaseURL:           "https://digicoll.lib.berkeley.edu/api/v1",
			PublicURL:         "https://digicoll.lib.berkeley.edu",
			RequestsPerSecond: 5,
		},
		Ingest: IngestSettings{
			StorageDir:   "tind-storage",
			ChunkSize:    1000,
			ChunkOverlap: 200,
			Workers:      1,
		},
		Chat: ChatSettings{
			TopK:               4,
			SummaryTokenBudget: 2000,
			SearchCharBudget:   2048,
			KeepRecent:         4,
			ThreadStoreURI:     "bolt://threads.db",
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		VectorURI: "sqlite://vectors.db",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}
