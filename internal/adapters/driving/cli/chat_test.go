package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/domain"
)

func TestChat_AnswersEachLine(t *testing.T) {
	_, chat, _ := setupTestServices(t)

	out, err := execute(t, "Who was interviewed?\n\nWhere?\n", "chat")

	require.NoError(t, err)
	assert.Equal(t, []string{"thread-1:Who was interviewed?", "thread-1:Where?"}, chat.asked)
	assert.Contains(t, out, "answer to Who was interviewed?")
	assert.Contains(t, out, "1. Record A")
	assert.NotContains(t, out, "> ")
}

func TestChat_QuitStops(t *testing.T) {
	_, chat, _ := setupTestServices(t)

	_, err := execute(t, "first\nquit\nsecond\n", "chat")

	require.NoError(t, err)
	assert.Equal(t, []string{"thread-1:first"}, chat.asked)
}

func TestChat_ContinuesThread(t *testing.T) {
	_, chat, _ := setupTestServices(t)

	_, err := execute(t, "again\n", "chat", "--thread", "saved")

	require.NoError(t, err)
	assert.Equal(t, []string{"saved:again"}, chat.asked)
}

func TestChat_PrintsNoResult(t *testing.T) {
	_, chat, _ := setupTestServices(t)
	chat.answer = func(string) (*domain.Answer, error) {
		return &domain.Answer{NoResult: "I'm sorry, I couldn't find anything."}, nil
	}

	out, err := execute(t, "nothing\n", "chat")

	require.NoError(t, err)
	assert.Contains(t, out, "I'm sorry, I couldn't find anything.")
}

func TestChat_ErrorEndsNonInteractiveSession(t *testing.T) {
	_, chat, _ := setupTestServices(t)
	boom := errors.New("model failed")
	chat.answer = func(string) (*domain.Answer, error) { return nil, boom }

	_, err := execute(t, "one\ntwo\n", "chat")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, chat.asked, 1)
}
