package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the
// binary, or fall back to hardcoded defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Implementations return a sensible default when the prompt has
	// not been customised.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSystem is the grounding system prompt for answering from
	// retrieved context. No format placeholders.
	PromptSystem = "system"

	// PromptNoContext is the system addition used when retrieval
	// found nothing above the score threshold. No placeholders.
	PromptNoContext = "no_context"
)
