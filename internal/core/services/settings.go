package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
)

// setting binds a config key, and optionally environment variables, to a
// field of domain.Settings.
type setting struct {
	key    string
	kind   settingKind
	env    []string
	secret bool
	get    func(*domain.Settings) any
	set    func(*domain.Settings, any)
}

//nolint:gosec // G101: key names, not credentials.
var settingTable = []setting{
	{key: "tind.api_url", kind: kindString, env: []string{"TIND_API_URL"},
		get: func(s *domain.Settings) any { return s.Catalogue.BaseURL },
		set: func(s *domain.Settings, v any) { s.Catalogue.BaseURL = v.(string) }},
	{key: "tind.api_key", kind: kindString, env: []string{"TIND_API_KEY"}, secret: true,
		get: func(s *domain.Settings) any { return s.Catalogue.APIKey },
		set: func(s *domain.Settings, v any) { s.Catalogue.APIKey = v.(string) }},
	{key: "tind.public_url", kind: kindString,
		get: func(s *domain.Settings) any { return s.Catalogue.PublicURL },
		set: func(s *domain.Settings, v any) { s.Catalogue.PublicURL = v.(string) }},
	{key: "tind.rate", kind: kindFloat,
		get: func(s *domain.Settings) any { return s.Catalogue.RequestsPerSecond },
		set: func(s *domain.Settings, v any) { s.Catalogue.RequestsPerSecond = v.(float64) }},

	{key: "ingest.storage_dir", kind: kindString, env: []string{"WILLA_STORAGE_DIR"},
		get: func(s *domain.Settings) any { return s.Ingest.StorageDir },
		set: func(s *domain.Settings, v any) { s.Ingest.StorageDir = v.(string) }},
	{key: "ingest.chunk_size", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Ingest.ChunkSize },
		set: func(s *domain.Settings, v any) { s.Ingest.ChunkSize = v.(int) }},
	{key: "ingest.chunk_overlap", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Ingest.ChunkOverlap },
		set: func(s *domain.Settings, v any) { s.Ingest.ChunkOverlap = v.(int) }},
	{key: "ingest.workers", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Ingest.Workers },
		set: func(s *domain.Settings, v any) { s.Ingest.Workers = v.(int) }},

	{key: "chat.top_k", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Chat.TopK },
		set: func(s *domain.Settings, v any) { s.Chat.TopK = v.(int) }},
	{key: "chat.summary_token_budget", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Chat.SummaryTokenBudget },
		set: func(s *domain.Settings, v any) { s.Chat.SummaryTokenBudget = v.(int) }},
	{key: "chat.search_char_budget", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Chat.SearchCharBudget },
		set: func(s *domain.Settings, v any) { s.Chat.SearchCharBudget = v.(int) }},
	{key: "chat.keep_recent", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Chat.KeepRecent },
		set: func(s *domain.Settings, v any) { s.Chat.KeepRecent = v.(int) }},
	{key: "chat.prompt_template", kind: kindString, env: []string{"WILLA_PROMPT_TEMPLATE"},
		get: func(s *domain.Settings) any { return s.Chat.PromptTemplate },
		set: func(s *domain.Settings, v any) { s.Chat.PromptTemplate = v.(string) }},
	{key: "chat.thread_store", kind: kindString,
		get: func(s *domain.Settings) any { return s.Chat.ThreadStoreURI },
		set: func(s *domain.Settings, v any) { s.Chat.ThreadStoreURI = v.(string) }},
	{key: "chat.thread_ttl_minutes", kind: kindInt,
		get: func(s *domain.Settings) any { return s.Chat.ThreadTTLMinutes },
		set: func(s *domain.Settings, v any) { s.Chat.ThreadTTLMinutes = v.(int) }},

	{key: "embedding.provider", kind: kindString,
		get: func(s *domain.Settings) any { return string(s.Embedding.Provider) },
		set: func(s *domain.Settings, v any) { s.Embedding.Provider = domain.AIProvider(v.(string)) }},
	{key: "embedding.model", kind: kindString,
		get: func(s *domain.Settings) any { return s.Embedding.Model },
		set: func(s *domain.Settings, v any) { s.Embedding.Model = v.(string) }},
	{key: "embedding.base_url", kind: kindString, env: []string{"OLLAMA_URL"},
		get: func(s *domain.Settings) any { return s.Embedding.BaseURL },
		set: func(s *domain.Settings, v any) { s.Embedding.BaseURL = v.(string) }},
	{key: "embedding.api_key", kind: kindString, env: []string{"OPENAI_API_KEY"}, secret: true,
		get: func(s *domain.Settings) any { return s.Embedding.APIKey },
		set: func(s *domain.Settings, v any) { s.Embedding.APIKey = v.(string) }},

	{key: "llm.provider", kind: kindString,
		get: func(s *domain.Settings) any { return string(s.LLM.Provider) },
		set: func(s *domain.Settings, v any) { s.LLM.Provider = domain.AIProvider(v.(string)) }},
	{key: "llm.model", kind: kindString,
		get: func(s *domain.Settings) any { return s.LLM.Model },
		set: func(s *domain.Settings, v any) { s.LLM.Model = v.(string) }},
	{key: "llm.base_url", kind: kindString, env: []string{"OLLAMA_URL"},
		get: func(s *domain.Settings) any { return s.LLM.BaseURL },
		set: func(s *domain.Settings, v any) { s.LLM.BaseURL = v.(string) }},
	{key: "llm.api_key", kind: kindString, env: []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY"}, secret: true,
		get: func(s *domain.Settings) any { return s.LLM.APIKey },
		set: func(s *domain.Settings, v any) { s.LLM.APIKey = v.(string) }},

	{key: "vector.uri", kind: kindString, env: []string{"WILLA_VECTOR_URI"},
		get: func(s *domain.Settings) any { return s.VectorURI },
		set: func(s *domain.Settings, v any) { s.VectorURI = v.(string) }},
	{key: "log.file", kind: kindString,
		get: func(s *domain.Settings) any { return s.LogFile },
		set: func(s *domain.Settings, v any) { s.LogFile = v.(string) }},
}

// SettingsService layers defaults, the config store and environment
// variables into domain.Settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   LookupFunc
	validate    *validator.Validate
}

// NewSettingsService creates a settings service. A nil lookup uses the process environment.
func NewSettingsService(configStore driven.ConfigStore, lookup LookupFunc) *SettingsService {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   lookup,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Get returns validated effective settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := s.fromConfig()
	s.applyEnv(&settings)
	if err := s.check(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Value returns the effective value of key as text, masking secrets.
func (s *SettingsService) Value(key string) (string, error) {
	def, ok := lookupSetting(key)
	if !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings := s.fromConfig()
	s.applyEnv(&settings)

	text := formatValue(def.get(&settings))
	if def.secret && text != "" {
		return "********", nil
	}
	return text, nil
}

// Set validates and persists one setting. Environment overrides take no
// part in the validation.
func (s *SettingsService) Set(key, value string) error {
	def, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	parsed, err := parseValue(def.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	settings := s.fromConfig()
	def.set(&settings, parsed)
	if err := s.check(&settings); err != nil {
		return err
	}
	return s.configStore.Set(key, parsed)
}

// Keys lists every known setting key.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingTable))
	for i, def := range settingTable {
		keys[i] = def.key
	}
	return keys
}

// fromConfig overlays config store values on the defaults.
func (s *SettingsService) fromConfig() domain.Settings {
	settings := domain.DefaultSettings()
	for _, def := range settingTable {
		if _, ok := s.configStore.Get(def.key); !ok {
			continue
		}
		switch def.kind {
		case kindString:
			def.set(&settings, s.configStore.GetString(def.key))
		case kindInt:
			def.set(&settings, s.configStore.GetInt(def.key))
		case kindFloat:
			def.set(&settings, s.configStore.GetFloat(def.key))
		}
	}
	return settings
}

// applyEnv overrides settings from the first set environment variable of each key.
func (s *SettingsService) applyEnv(settings *domain.Settings) {
	for _, def := range settingTable {
		for _, name := range def.env {
			raw, ok := s.lookupEnv(name)
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}
			parsed, err := parseValue(def.kind, strings.TrimSpace(raw))
			if err != nil {
				continue
			}
			def.set(settings, parsed)
			break
		}
	}
}

func (s *SettingsService) check(settings *domain.Settings) error {
	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate settings: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func lookupSetting(key string) (setting, bool) {
	for _, def := range settingTable {
		if def.key == key {
			return def, true
		}
	}
	return setting{}, false
}

func parseValue(kind settingKind, raw string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(raw)
	case kindFloat:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
