package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"trendscope/internal/llm"
)

// Completer is the one LLM operation the pipeline needs. Satisfied by
// *llm.Client.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

const categoryPromptTemplate = `Given the user input: "%s"
Identify the main video category or topic the user is interested in.
Output just the category name without any additional text.`

// Extractor turns a free-text prompt into a short search category.
type Extractor struct {
	llm    Completer
	logger *log.Logger
}

func NewExtractor(completer Completer, logger *log.Logger) *Extractor {
	return &Extractor{llm: completer, logger: logger}
}

// Extract asks the model for the main category of the prompt. Any failure,
// including an empty completion, falls back to the trimmed lowercase prompt;
// this never errors to the caller.
func (e *Extractor) Extract(ctx context.Context, prompt string) string {
	fallback := strings.ToLower(strings.TrimSpace(prompt))

	out, err := e.llm.Complete(ctx, llm.Request{
		System:      "You are a helpful assistant.",
		Prompt:      fmt.Sprintf(categoryPromptTemplate, prompt),
		Temperature: 0.1,
		MaxTokens:   50,
	})
	if err != nil {
		e.logger.Printf("Error extracting category: %v", err)
		return fallback
	}

	category := strings.TrimSpace(out)
	if category == "" {
		e.logger.Printf("Empty category from model for prompt '%s'", prompt)
		return fallback
	}

	e.logger.Printf("Extracted category '%s' from prompt: '%s'", category, prompt)
	return category
}
