package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

func TestChat_LiftsSystemPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "first\n\nsecond", req.System)
		assert.Equal(t, defaultMaxTokens, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		fmt.Fprint(w, `{"content":[{"type":"text","text":"Hello "},{"type":"tool_use"},{"type":"text","text":"there"}]}`)
	}))
	defer srv.Close()

	s, err := NewLLMService(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.ChatRoleSystem, Content: "first"},
		{Role: driven.ChatRoleSystem, Content: "second"},
		{Role: driven.ChatRoleUser, Content: "hi"},
	}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", got)
}

func TestChat_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
	}))
	defer srv.Close()

	s, err := NewLLMService(Config{APIKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Chat(context.Background(), nil, driven.ChatOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}
