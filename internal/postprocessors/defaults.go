package postprocessors

import (
	"fmt"
	"regexp"

	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/postprocessors/boilerplate"
	"github.com/custodia-labs/willa/internal/postprocessors/chunker"
)

// DefaultOrder is the processor order used for ingestion.
var DefaultOrder = []string{"boilerplate", "chunker"}

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("boilerplate", buildBoilerplate)
	r.Register("chunker", buildChunker)
}

// NewDefaultPipeline returns the boilerplate filter followed by a chunker
// with the given window and overlap.
func NewDefaultPipeline(chunkSize, overlap int) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(DefaultOrder, map[string]map[string]any{
		"chunker": {"chunk_size": chunkSize, "overlap": overlap},
	})
}

// buildBoilerplate creates a boilerplate filter from generic config.
// Supported config keys:
//   - headers ([]string): Exact substrings to remove
//   - footers ([]string): Regular expressions to remove
func buildBoilerplate(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []boilerplate.Option

	if headers, ok := getStringsFromConfig(cfg, "headers"); ok {
		opts = append(opts, boilerplate.WithHeaders(headers...))
	}
	if patterns, ok := getStringsFromConfig(cfg, "footers"); ok {
		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("boilerplate footer %q: %w", p, err)
			}
			compiled = append(compiled, re)
		}
		opts = append(opts, boilerplate.WithFooterPatterns(compiled...))
	}

	return boilerplate.New(opts...), nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringsFromConfig extracts a string list, accepting []string or []any.
func getStringsFromConfig(cfg map[string]any, key string) ([]string, bool) {
	val, ok := cfg[key]
	if !ok {
		return nil, false
	}

	switch v := val.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}
