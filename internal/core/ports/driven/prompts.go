package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return the built-in
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer frames a grounded answer. The template expects two %s
	// placeholders: the retrieved context, then the question.
	PromptAnswer = "answer"
)

// DefaultAnswerPrompt is the built-in PromptAnswer template.
const DefaultAnswerPrompt = `You are an educational assistant analyzing a historical text.
Answer the user's question strictly based on the provided text excerpt.
If the excerpt does not contain the answer, say so.

Context (Historical Text):
%s

Question:
%s

Answer:`
