package llm

import (
	"context"
)

// LLMClient turns a prompt into a completion.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
