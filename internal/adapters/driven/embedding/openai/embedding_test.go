package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Zero(t, req.Dimensions)
		require.Len(t, req.Input, 2)
		fmt.Fprint(w, `{"data":[{"index":1,"embedding":[2]},{"index":0,"embedding":[1]}]}`)
	}))
	defer srv.Close()

	s, err := NewEmbeddingService(Config{APIKey: "sk", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := s.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}}, got)
	assert.Equal(t, 1536, s.Dimensions())
}

func TestEmbed_SendsDimensionsForV3(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 256, req.Dimensions)
		fmt.Fprint(w, `{"data":[{"index":0,"embedding":[0.5]}]}`)
	}))
	defer srv.Close()

	s, err := NewEmbeddingService(Config{APIKey: "sk", BaseURL: srv.URL, Model: "text-embedding-3-large", Dimensions: 256})
	require.NoError(t, err)

	got, err := s.Embed(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, got)
	assert.Equal(t, 256, s.Dimensions())
}

func TestEmbed_MissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	s, err := NewEmbeddingService(Config{APIKey: "sk", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestEmbed_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down"}}`)
	}))
	defer srv.Close()

	s, err := NewEmbeddingService(Config{APIKey: "sk", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}
