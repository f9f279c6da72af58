package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingChatService.Error(), ErrInvalidPorts.Error())
	assert.Contains(t, ErrMissingChatService.Error(), "chat service")
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
