package domain

import "time"

// Role labels the author of a conversation message.
type Role string

// Message roles.
const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"

	// RoleAttribution marks citation text. Attribution messages are shown
	// to the user but never summarised or replayed to the model.
	RoleAttribution Role = "attribution"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleHuman, RoleAssistant, RoleSystem, RoleAttribution:
		return true
	default:
		return false
	}
}

// Message is one entry in a conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ThreadState is the conversation state of one chat thread.
type ThreadState struct {
	// ThreadID identifies the thread.
	ThreadID string `json:"thread_id"`

	// Messages is the ordered history, attribution messages included.
	Messages []Message `json:"messages"`

	// Summary is the latest running summary of older turns.
	Summary string `json:"summary,omitempty"`

	// SearchQuery, Context and Attribution are scratch fields of the last turn.
	SearchQuery string `json:"search_query,omitempty"`
	Context     string `json:"context,omitempty"`
	Attribution string `json:"attribution,omitempty"`

	// UpdatedAt is when the thread last completed a turn.
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy whose message slice is independent of s.
func (s *ThreadState) Clone() *ThreadState {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Messages = append([]Message(nil), s.Messages...)
	return &cp
}

// WithoutAttribution returns msgs minus attribution messages.
func WithoutAttribution(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != RoleAttribution {
			out = append(out, m)
		}
	}
	return out
}

// Answer is the result of one question asked of a chat thread.
type Answer struct {
	// AI is the model's answer, empty if none was produced.
	AI string

	// Attribution is the citation block, empty when nothing was retrieved.
	Attribution string

	// NoResult is set when neither AI nor Attribution was produced.
	NoResult string
}
