package driven

// Prompt names understood by PromptStore.
const (
	// PromptInstructions is the guardrail block appended to every augmented prompt.
	PromptInstructions = "instructions"

	// PromptAgentSystem is the system message template of the general agent.
	// The placeholders {{disclaimer}} and {{profile}} are substituted.
	PromptAgentSystem = "agent_system"
)

// PromptStore provides user-editable prompt text.
type PromptStore interface {
	// Load returns the prompt for name, falling back to the built-in default.
	Load(name string) (string, error)
}
