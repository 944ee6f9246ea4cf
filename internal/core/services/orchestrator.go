package services

import (
	"context"
	"fmt"

	"github.com/paperchat-ai/paperchat/internal/core/domain"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driven"
	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.ChatService = (*Orchestrator)(nil)

// DefaultMaxToolHops bounds the tool-dispatch/generate loop per turn.
const DefaultMaxToolHops = 1

// queryState names the phases of one query turn for observability.
type queryState string

const (
	stateReceived     queryState = "RECEIVED"
	stateRetrieving   queryState = "RETRIEVING"
	statePrompting    queryState = "PROMPTING"
	stateGenerating   queryState = "GENERATING"
	stateToolDispatch queryState = "TOOL_DISPATCH"
	stateMemoryUpdate queryState = "MEMORY_UPDATE"
	stateDone         queryState = "DONE"
	stateFailed       queryState = "FAILED"
)

// Orchestrator coordinates one query turn end to end: retrieval,
// prompt assembly, generation, tool dispatch and the memory update.
// It holds no cross-request state beyond the conversation memory.
type Orchestrator struct {
	retriever   *Retriever
	memory      *Memory
	assembler   *PromptAssembler
	llm         driven.LLMService
	dispatcher  *Dispatcher
	registry    *ToolRegistry
	retrieval   domain.RetrieveOptions
	chatOpts    driven.ChatOptions
	maxToolHops int
}

// OrchestratorOption configures the orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithMaxToolHops sets how many tool dispatch rounds one turn may use.
func WithMaxToolHops(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxToolHops = n
		}
	}
}

// WithRetrieveOptions sets the retrieval parameters per query.
func WithRetrieveOptions(opts domain.RetrieveOptions) OrchestratorOption {
	return func(o *Orchestrator) {
		o.retrieval = opts
	}
}

// WithChatOptions sets generation parameters.
func WithChatOptions(opts driven.ChatOptions) OrchestratorOption {
	return func(o *Orchestrator) {
		o.chatOpts = opts
	}
}

// NewOrchestrator wires the query pipeline.
func NewOrchestrator(
	retriever *Retriever,
	memory *Memory,
	assembler *PromptAssembler,
	llm driven.LLMService,
	dispatcher *Dispatcher,
	registry *ToolRegistry,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		retriever:   retriever,
		memory:      memory,
		assembler:   assembler,
		llm:         llm,
		dispatcher:  dispatcher,
		registry:    registry,
		maxToolHops: DefaultMaxToolHops,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Query runs one full turn for a session.
func (o *Orchestrator) Query(ctx context.Context, sessionID, text string) (*driving.Answer, error) {
	if sessionID == "" {
		sessionID = "default"
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	// One active turn per session; concurrent requests for the same
	// session wait here.
	unlock := o.memory.LockSession(sessionID)
	defer unlock()

	state := o.transition(sessionID, stateReceived)

	// RETRIEVING
	state = o.transition(sessionID, stateRetrieving)
	retrieval, err := o.retriever.Retrieve(ctx, text, o.retrieval)
	if err != nil {
		o.fail(sessionID, state, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	// PROMPTING
	state = o.transition(sessionID, statePrompting)
	history, err := o.memory.Context(ctx, sessionID)
	if err != nil {
		o.fail(sessionID, state, err)
		return nil, err
	}
	messages := o.assembler.Build(history, retrieval, text)

	// GENERATING with a bounded tool loop.
	answer, toolTurns, toolsUsed, err := o.generate(ctx, sessionID, messages)
	if err != nil {
		o.fail(sessionID, stateGenerating, err)
		return nil, err
	}

	// MEMORY_UPDATE - the user turn, any tool turns, then the
	// assistant answer, appended as one consistent exchange.
	o.transition(sessionID, stateMemoryUpdate)
	exchange := make([]domain.Turn, 0, len(toolTurns)+2)
	exchange = append(exchange, domain.Turn{Role: domain.RoleUser, Content: text})
	exchange = append(exchange, toolTurns...)
	exchange = append(exchange, domain.Turn{Role: domain.RoleAssistant, Content: answer})
	if err := o.memory.Append(ctx, sessionID, exchange...); err != nil {
		o.fail(sessionID, stateMemoryUpdate, err)
		return nil, err
	}

	o.transition(sessionID, stateDone)

	var cited []string
	if !retrieval.Empty() {
		cited = retrieval.Sources()
	}
	return &driving.Answer{
		Text:          answer,
		CitedSources:  cited,
		ToolCallsMade: toolsUsed,
	}, nil
}

// generate runs the model, dispatching tool calls until the model
// answers with content or the hop budget is spent. After the budget
// is spent the model is asked once more without tools so the turn
// always ends with a best-effort answer.
func (o *Orchestrator) generate(
	ctx context.Context, sessionID string, messages []driven.ChatMessage,
) (answer string, toolTurns []domain.Turn, toolsUsed []string, err error) {
	schemas := o.registry.Schemas()

	o.transition(sessionID, stateGenerating)
	completion, err := o.complete(ctx, messages, schemas)
	if err != nil {
		return "", nil, nil, err
	}

	for hops := 0; completion.ToolCall != nil && hops < o.maxToolHops; hops++ {
		o.transition(sessionID, stateToolDispatch)
		call := completion.ToolCall
		toolTurn := o.dispatcher.Dispatch(ctx, call)
		toolTurns = append(toolTurns, toolTurn)
		toolsUsed = append(toolsUsed, call.Name)

		// Replay the exchange so the model sees its own call and the
		// result (or error) and can incorporate it.
		messages = append(messages,
			driven.ChatMessage{Role: string(domain.RoleAssistant), ToolCall: call},
			driven.ChatMessage{Role: string(domain.RoleTool), Content: toolTurn.Content, ToolCallID: call.ID},
		)

		o.transition(sessionID, stateGenerating)
		completion, err = o.complete(ctx, messages, schemas)
		if err != nil {
			return "", nil, nil, err
		}
	}

	if completion.ToolCall != nil {
		// Hop budget exhausted and the model still wants a tool.
		// Force a final answer by withdrawing the tool schemas.
		logger.Warn("Tool hop budget (%d) exhausted for session %s, forcing final answer",
			o.maxToolHops, sessionID)
		messages = append(messages, driven.ChatMessage{
			Role:    string(domain.RoleSystem),
			Content: "No further tool calls are available. Answer with the information you have.",
		})
		o.transition(sessionID, stateGenerating)
		completion, err = o.complete(ctx, messages, nil)
		if err != nil {
			return "", nil, nil, err
		}
	}

	return completion.Content, toolTurns, toolsUsed, nil
}

// complete calls the LLM. Generation is not idempotent, so retries
// happen only for failures known to precede execution.
func (o *Orchestrator) complete(
	ctx context.Context, messages []driven.ChatMessage, schemas []domain.ToolSchema,
) (*driven.Completion, error) {
	var completion *driven.Completion
	retry := RetryPolicy{}
	err := retry.Do(ctx, func(ctx context.Context) error {
		var completeErr error
		completion, completeErr = o.llm.Complete(ctx, messages, schemas, o.chatOpts)
		if completeErr != nil && !PreExecution(completeErr) {
			return Permanent(completeErr)
		}
		return completeErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if completion == nil || (completion.Content == "" && completion.ToolCall == nil) {
		return nil, fmt.Errorf("%w: model returned an empty completion", domain.ErrLLMUnavailable)
	}
	return completion, nil
}

// History returns the surviving turns of a session.
func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]driving.Turn, error) {
	turns, err := o.memory.Context(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]driving.Turn, len(turns))
	for i, t := range turns {
		out[i] = driving.Turn{
			Role:     string(t.Role),
			Content:  t.Content,
			ToolName: t.ToolName,
		}
	}
	return out, nil
}

// ClearSession discards a session's memory.
func (o *Orchestrator) ClearSession(ctx context.Context, sessionID string) error {
	return o.memory.Clear(ctx, sessionID)
}

// transition logs a state change and returns the new state.
func (o *Orchestrator) transition(sessionID string, next queryState) queryState {
	logger.Debug("Query %s: -> %s", sessionID, next)
	return next
}

// fail logs the transition to FAILED with its cause.
func (o *Orchestrator) fail(sessionID string, from queryState, err error) {
	logger.Error("Query %s: %s -> %s: %v", sessionID, from, stateFailed, err)
}
