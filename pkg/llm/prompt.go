// Package llm holds the provider-agnostic types shared by the upstream
// provider clients and the proxy.
package llm

import "strings"

const (
	instruction   = "Be concise, critical, but helpful to answer the question given: "
	contextHeader = "\n\n---\nRésumé for context:\n"
)

// Prompt is a visitor question together with its grounding context.
type Prompt struct {
	Question string

	// Context is the résumé text built by the context loader.
	Context string

	// Hint is appended to the question instead of the résumé by providers
	// that search live sources, e.g. a social handle.
	Hint string
}

// Grounded renders the question followed by the résumé.
func (p Prompt) Grounded() string {
	var b strings.Builder
	b.Grow(len(instruction) + len(p.Question) + len(contextHeader) + len(p.Context))

	b.WriteString(instruction)
	b.WriteString(p.Question)
	b.WriteString(contextHeader)
	b.WriteString(p.Context)

	return b.String()
}

// Search renders the question followed by the search hint, without the résumé.
func (p Prompt) Search() string {
	if p.Hint == "" {
		return instruction + p.Question
	}
	return instruction + p.Question + " " + p.Hint
}
