// Package oracle wraps the external text-completion services used to
// explain questions and grade free-text answers.
package oracle

import "context"

// Oracle is a black-box text-completion service. Implementations make a
// single attempt per call and honor ctx for timeouts.
type Oracle interface {
	// Complete returns the model's text completion for prompt, limited to
	// roughly maxTokens output tokens.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Name identifies the backend and model, e.g. "gemini/gemini-2.0-flash".
	Name() string
}

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names pass through unchanged so direct model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
