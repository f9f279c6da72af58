package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/logger"
)

const (
	// NoQuestionText is the reply when a turn carries no human message.
	NoQuestionText = "I'm sorry, I didn't receive a question."

	// bytesPerToken is the rough estimator used for the summary budget.
	bytesPerToken = 4

	// summaryPrefix introduces the running summary in the search query.
	summaryPrefix = "Summary of the earlier conversation:\n"
)

// DefaultChatSystemPrompt is used when no prompt template is configured.
const DefaultChatSystemPrompt = `You are an assistant helping researchers explore oral history interviews
held by a library. Answer the question using only the interview excerpts below.
If the excerpts do not contain the answer, say that you do not know.

Excerpts:
{context}

Question: {question}`

// ConversationConfig tunes the conversation stages.
type ConversationConfig struct {
	// TopK is the number of chunks retrieved per turn.
	TopK int

	// SummaryTokenBudget is the history size, in estimated tokens, above
	// which older turns are summarised. Zero disables summarisation.
	SummaryTokenBudget int

	// SearchCharBudget caps the search query; the tail is kept.
	SearchCharBudget int

	// KeepRecent is the number of latest messages kept verbatim when summarising.
	KeepRecent int

	// PromptTemplate overrides the system prompt. It must contain
	// {context} and {question} placeholders.
	PromptTemplate string
}

// DefaultConversationConfig returns the stock tuning.
func DefaultConversationConfig() ConversationConfig {
	return ConversationConfig{
		TopK:               4,
		SummaryTokenBudget: 2000,
		SearchCharBudget:   2048,
		KeepRecent:         4,
	}
}

// Ensure ConversationGraph can take a prompt store.
var _ driven.PromptStoreAware = (*ConversationGraph)(nil)

// ConversationGraph runs one retrieval-augmented turn over a thread state.
// The stages always run in the same order:
//
//  1. filter attribution messages out of the working history
//  2. summarise long histories
//  3. build the search query from the tail of the history
//  4. retrieve context and citations
//  5. generate the answer
//
// Only a failed model call fails the turn; every other stage degrades to
// an empty or pass-through result.
type ConversationGraph struct {
	index     driven.VectorIndex
	llm       driven.LLMService
	citations *CitationFormatter
	prompts   driven.PromptStore
	cfg       ConversationConfig
}

// NewConversationGraph creates a graph. index may be nil, in which case no
// context is ever retrieved.
func NewConversationGraph(
	index driven.VectorIndex,
	llm driven.LLMService,
	citations *CitationFormatter,
	cfg ConversationConfig,
) *ConversationGraph {
	if citations == nil {
		citations = NewCitationFormatter("")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	if cfg.SearchCharBudget <= 0 {
		cfg.SearchCharBudget = 2048
	}
	if cfg.KeepRecent < 0 {
		cfg.KeepRecent = 0
	}
	return &ConversationGraph{index: index, llm: llm, citations: citations, cfg: cfg}
}

// SetPromptStore sets the store the system prompt is loaded from.
func (g *ConversationGraph) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// Run executes one turn. state must already hold the new human message.
// The returned state is a new value; state itself is never modified, so
// a failed turn leaves the caller's state as it was.
func (g *ConversationGraph) Run(ctx context.Context, state *domain.ThreadState) (*domain.ThreadState, error) {
	next := state.Clone()
	if next == nil {
		next = &domain.ThreadState{}
	}

	history := filterAttributionMessages(next.Messages)

	working, summary := g.summarize(ctx, history)
	if summary != "" {
		next.Summary = summary
	}

	next.SearchQuery = prepareSearchQuery(summary, working, g.cfg.SearchCharBudget)

	next.Context, next.Attribution = g.retrieveContext(ctx, next.SearchQuery)

	reply, err := g.generateResponse(ctx, history, next.Context)
	if err != nil {
		return nil, err
	}

	next.Messages = append(next.Messages, domain.Message{Role: domain.RoleAssistant, Content: reply.answer})
	if reply.cite && next.Attribution != "" {
		next.Messages = append(next.Messages, domain.Message{Role: domain.RoleAttribution, Content: next.Attribution})
	}
	return next, nil
}

// filterAttributionMessages drops citation messages from the working history.
func filterAttributionMessages(msgs []domain.Message) []domain.Message {
	return domain.WithoutAttribution(msgs)
}

// estimateTokens approximates the token count of msgs.
func estimateTokens(msgs []domain.Message) int {
	n := 0
	for _, m := range msgs {
		n += len(m.Content)
	}
	return n / bytesPerToken
}

// summarize compresses history above the token budget into a running
// summary and returns it with the most recent messages. Any failure, or
// an empty summary, returns history unchanged and no summary.
func (g *ConversationGraph) summarize(ctx context.Context, history []domain.Message) ([]domain.Message, string) {
	budget := g.cfg.SummaryTokenBudget
	if budget <= 0 || g.llm == nil || estimateTokens(history) <= budget {
		return history, ""
	}

	keep := g.cfg.KeepRecent
	if keep > len(history) {
		keep = len(history)
	}
	older, recent := history[:len(history)-keep], history[len(history)-keep:]
	if len(older) == 0 {
		return history, ""
	}

	var transcript strings.Builder
	for _, m := range older {
		fmt.Fprintf(&transcript, "%s: %s\n", m.Role, m.Content)
	}

	summary, err := g.llm.Summarise(ctx, transcript.String(), budget*bytesPerToken/2)
	if err != nil {
		logger.Warn("conversation: summarise failed, using full history: %v", err)
		return history, ""
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		logger.Debug("conversation: empty summary, using full history")
		return history, ""
	}

	return append([]domain.Message(nil), recent...), summary
}

// prepareSearchQuery joins the running summary and the human and assistant
// contents in order, then keeps the last budget characters. System text
// never reaches the query.
func prepareSearchQuery(summary string, msgs []domain.Message, budget int) string {
	parts := make([]string, 0, len(msgs)+1)
	if summary != "" {
		parts = append(parts, summaryPrefix+summary)
	}
	for _, m := range msgs {
		if m.Role != domain.RoleHuman && m.Role != domain.RoleAssistant {
			continue
		}
		if c := strings.TrimSpace(m.Content); c != "" {
			parts = append(parts, c)
		}
	}
	query := strings.Join(parts, "\n")

	runes := []rune(query)
	if budget > 0 && len(runes) > budget {
		query = string(runes[len(runes)-budget:])
	}
	return query
}

// retrieveContext fetches the top chunks for query and renders their
// citations. An empty query makes no index call.
func (g *ConversationGraph) retrieveContext(ctx context.Context, query string) (string, string) {
	if strings.TrimSpace(query) == "" || g.index == nil {
		return "", ""
	}

	chunks, err := g.index.Retrieve(ctx, query, g.cfg.TopK)
	if err != nil {
		logger.Warn("conversation: retrieval failed: %v", err)
		return "", ""
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	return strings.Join(texts, "\n\n"), g.citations.RenderCitations(chunks)
}

type response struct {
	answer string
	cite   bool
}

// generateResponse asks the model to answer the latest human message.
// Without one, it returns NoQuestionText and the model is not called.
func (g *ConversationGraph) generateResponse(ctx context.Context, history []domain.Message, retrieved string) (response, error) {
	question, ok := latestHuman(history)
	if !ok {
		return response{answer: NoQuestionText}, nil
	}
	if g.llm == nil {
		return response{}, domain.ErrLLMUnavailable
	}

	system := strings.NewReplacer("{context}", retrieved, "{question}", question).Replace(g.promptTemplate())

	messages := make([]driven.ChatMessage, 0, len(history)+1)
	messages = append(messages, driven.ChatMessage{Role: driven.ChatRoleSystem, Content: system})
	for _, m := range history {
		switch m.Role {
		case domain.RoleHuman:
			messages = append(messages, driven.ChatMessage{Role: driven.ChatRoleUser, Content: m.Content})
		case domain.RoleAssistant:
			messages = append(messages, driven.ChatMessage{Role: driven.ChatRoleAssistant, Content: m.Content})
		}
	}

	answer, err := g.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return response{}, fmt.Errorf("generate response: %w", err)
	}
	return response{answer: answer, cite: true}, nil
}

// promptTemplate picks the configured template, then the prompt store,
// then the built-in default.
func (g *ConversationGraph) promptTemplate() string {
	if g.cfg.PromptTemplate != "" {
		return g.cfg.PromptTemplate
	}
	if g.prompts != nil {
		if tmpl, err := g.prompts.Load(driven.PromptChatSystem); err == nil && tmpl != "" {
			return tmpl
		}
	}
	return DefaultChatSystemPrompt
}

func latestHuman(msgs []domain.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleHuman {
			return msgs[i].Content, true
		}
	}
	return "", false
}
