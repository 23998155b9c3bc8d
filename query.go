package lawdoc

import (
	"context"
	"fmt"
	"strings"
)

// Source is a document cited in support of an answer.
type Source struct {
	URL   string  `json:"url"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// QueryResult is the answer to a question. When Sources is empty the
// result carries exactly three Suggestions for rephrasing the question.
type QueryResult struct {
	Answer      string   `json:"answer"`
	Sources     []Source `json:"sources"`
	Suggestions []string `json:"suggestions"`
}

// Asker answers natural language questions about a state's documentation.
type Asker interface {
	// Ask retrieves documentation indexed for state and answers question
	// from it. Returns EINVALID for a missing question or unknown state.
	Ask(ctx context.Context, state, question string) (*QueryResult, error)
}

// Completer produces an LLM response to a prompt under a system
// instruction.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// NoContextPlaceholder stands in for retrieved context when nothing
// relevant enough was found.
const NoContextPlaceholder = "No specific documentation found for this query."

// QueryFocus names the subject area retrieval and answers are steered
// towards.
const QueryFocus = "Restaurant permits and business licenses"

const systemPersona = `You are a friendly assistant who helps people understand state laws, regulations and government requirements.

Guidelines:
- Answer only from the documentation provided below. If it does not cover the question, say so plainly.
- Write in plain language a non-lawyer can follow.
- When you use a legal term, explain what it means.
- Use short everyday examples when they make a rule easier to understand.
- Simplify where you can, but keep the details that matter.`

// BuildSystemPrompt returns the system instruction for answering a
// question about state using the formatted context.
func BuildSystemPrompt(state, context string) string {
	if strings.TrimSpace(context) == "" {
		context = NoContextPlaceholder
	}
	return fmt.Sprintf("%s\n\nState: %s\nFocus: %s\n\nDocumentation:\n%s", systemPersona, state, QueryFocus, context)
}

// NotFoundAnswer is returned in place of an LLM answer when no indexed
// documentation is relevant to the question.
func NotFoundAnswer(state string) string {
	return fmt.Sprintf("I couldn't find documentation for %s that answers this question.", state)
}
