package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedServer(t *testing.T, requests *[][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*requests = append(*requests, req.Input)

		resp := embedResponse{}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float64{float64(len(req.Input[i])), 1})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedBatch_SplitsAndPreservesOrder(t *testing.T) {
	var requests [][]string
	srv := embedServer(t, &requests)
	defer srv.Close()

	s := NewEmbeddingService(Config{BaseURL: srv.URL, BatchSize: 2})
	got, err := s.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})

	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, v := range got {
		assert.Equal(t, float32(i+1), v[0])
	}
	assert.Len(t, requests, 3)
}

func TestEmbed_Single(t *testing.T) {
	var requests [][]string
	srv := embedServer(t, &requests)
	defer srv.Close()

	s := NewEmbeddingService(Config{BaseURL: srv.URL + "/"})
	got, err := s.Embed(context.Background(), "four")

	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1}, got)
	assert.Equal(t, DefaultDimensions, s.Dimensions())
	assert.Equal(t, DefaultModel, s.ModelName())
}

func TestEmbed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer srv.Close()

	_, err := NewEmbeddingService(Config{BaseURL: srv.URL}).Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewEmbeddingService(Config{BaseURL: srv.URL}).Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}
