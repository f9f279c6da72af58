package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRole_IsValid tests role validation
func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleHuman.IsValid())
	assert.True(t, RoleAttribution.IsValid())
	assert.False(t, Role("TIND").IsValid())
}

// TestWithoutAttribution tests attribution filtering keeps order
func TestWithoutAttribution(t *testing.T) {
	msgs := []Message{
		{Role: RoleHuman, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleAttribution, Content: "cite"},
		{Role: RoleHuman, Content: "q2"},
	}

	got := WithoutAttribution(msgs)
	assert.Equal(t, []Message{msgs[0], msgs[1], msgs[3]}, got)
	assert.Len(t, msgs, 4)
}

// TestThreadState_Clone tests message slice independence
func TestThreadState_Clone(t *testing.T) {
	s := &ThreadState{ThreadID: "t", Messages: []Message{{Role: RoleHuman, Content: "q"}}}
	cp := s.Clone()
	cp.Messages[0].Content = "changed"
	cp.Messages = append(cp.Messages, Message{Role: RoleAssistant})

	assert.Equal(t, "q", s.Messages[0].Content)
	assert.Len(t, s.Messages, 1)

	var nilState *ThreadState
	assert.Nil(t, nilState.Clone())
}
