package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

// DefaultPromptBudget is the approximate token budget for an
// assembled prompt.
const DefaultPromptBudget = 6000

// defaultSystemPrompt grounds the model in the retrieved context.
const defaultSystemPrompt = `You are a helpful assistant that answers questions using the provided document context.
Base your answers on the context below and cite sources by name when you use them.
If the context does not contain the answer, say so honestly instead of guessing.`

// defaultNoContextPrompt replaces the context block when retrieval
// found nothing above the threshold.
const defaultNoContextPrompt = `No relevant documents were found for this question.
Answer from general knowledge if you can, state clearly that the answer is not based on the indexed documents, and do not cite any sources.`

// PromptAssembler builds the message sequence sent to the model:
// system instructions, retrieved context tagged by source, then
// conversation history oldest to newest, then the current user turn.
// A token budget is enforced by trimming lowest-scoring context
// first, then oldest history - never the system instructions or the
// current user turn.
type PromptAssembler struct {
	prompts driven.PromptStore
	budget  int
}

// AssemblerOption configures the prompt assembler.
type AssemblerOption func(*PromptAssembler)

// WithPromptBudget sets the approximate token budget.
func WithPromptBudget(n int) AssemblerOption {
	return func(a *PromptAssembler) {
		if n > 0 {
			a.budget = n
		}
	}
}

// NewPromptAssembler creates an assembler. The prompt store is
// optional; when nil the embedded defaults are used.
func NewPromptAssembler(prompts driven.PromptStore, opts ...AssemblerOption) *PromptAssembler {
	a := &PromptAssembler{
		prompts: prompts,
		budget:  DefaultPromptBudget,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build assembles the prompt for one query turn.
func (a *PromptAssembler) Build(
	history []domain.Turn, retrieval domain.RetrievalResult, userText string,
) []driven.ChatMessage {
	system := a.loadPrompt(driven.PromptSystem, defaultSystemPrompt)

	// Fixed cost: system prompt and the current user turn are never
	// trimmed.
	used := approxTokens(system) + approxTokens(userText)

	var contextBlock string
	if retrieval.Empty() {
		// The model must know there is no context rather than being
		// left to invent one.
		contextBlock = a.loadPrompt(driven.PromptNoContext, defaultNoContextPrompt)
		used += approxTokens(contextBlock)
	} else {
		chunks := a.trimContext(retrieval.Chunks, a.budget-used)
		contextBlock = renderContext(chunks)
		used += approxTokens(contextBlock)
	}

	kept := a.trimHistory(history, a.budget-used)

	messages := make([]driven.ChatMessage, 0, len(kept)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    string(domain.RoleSystem),
		Content: system + "\n\n" + contextBlock,
	})
	for _, t := range kept {
		messages = append(messages, driven.ChatMessage{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    string(domain.RoleUser),
		Content: userText,
	})

	logger.Debug("Prompt: %d messages, %d context chunks, %d history turns",
		len(messages), len(retrieval.Chunks), len(kept))
	return messages
}

// trimContext drops the lowest-scoring chunks until the remainder
// fits the budget. At least the single best chunk survives.
func (a *PromptAssembler) trimContext(chunks []domain.RetrievedChunk, budget int) []domain.RetrievedChunk {
	kept := make([]domain.RetrievedChunk, len(chunks))
	copy(kept, chunks)
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })

	for len(kept) > 1 && contextTokens(kept) > budget {
		dropped := kept[len(kept)-1]
		kept = kept[:len(kept)-1]
		logger.Debug("Prompt: dropped context chunk %s (score %.2f) for budget",
			dropped.Chunk.ID, dropped.Score)
	}
	return kept
}

// trimHistory drops the oldest exchanges until the remainder fits,
// at the same exchange granularity conversation eviction uses so no
// tool/assistant pairing is ever split.
func (a *PromptAssembler) trimHistory(history []domain.Turn, budget int) []domain.Turn {
	kept := history
	for len(kept) > 0 && historyTokens(kept) > budget {
		n := 0
		for n < len(kept) {
			role := kept[n].Role
			n++
			if role == domain.RoleAssistant {
				break
			}
		}
		kept = kept[n:]
	}
	return kept
}

// loadPrompt fetches a template from the store, falling back to the
// embedded default.
func (a *PromptAssembler) loadPrompt(name, fallback string) string {
	if a.prompts == nil {
		return fallback
	}
	prompt, err := a.prompts.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// renderContext formats retrieved chunks, each tagged with its source
// so the model can cite it.
func renderContext(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	b.WriteString("Context from documents:\n")
	for _, rc := range chunks {
		fmt.Fprintf(&b, "\n[source: %s]\n%s\n", rc.Chunk.SourceName, rc.Chunk.Content)
	}
	return b.String()
}

func approxTokens(s string) int {
	return len(s)/4 + 1
}

func contextTokens(chunks []domain.RetrievedChunk) int {
	total := 0
	for _, rc := range chunks {
		total += approxTokens(rc.Chunk.Content) + 8
	}
	return total
}

func historyTokens(turns []domain.Turn) int {
	total := 0
	for _, t := range turns {
		total += t.ApproxTokens()
	}
	return total
}
