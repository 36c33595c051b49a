// Package intelligence provides the summarization strategies used when
// storing document, page, and section memories. The strategy is chosen once
// at construction: an extractive first-sentence heuristic by default, or an
// external LLM collaborator when configured.
package intelligence

import (
	"context"
	"fmt"
)

// Summarizer produces a short summary for a block of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Config selects and configures a summarizer strategy.
type Config struct {
	// Strategy is "extractive" (default) or "openai".
	Strategy string
	Model    string
	APIKey   string
	BaseURL  string
}

// FromConfig builds the configured summarizer.
func FromConfig(cfg Config) (Summarizer, error) {
	switch cfg.Strategy {
	case "", "extractive":
		return Extractive{}, nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai summarizer requires an API key")
		}
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown intelligence strategy %q", cfg.Strategy)
	}
}
