package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	openAIDefaultModel = openai.ChatModelGPT4oMini

	// Long inputs are truncated before being sent; summaries only need the
	// opening of the text to be useful.
	openAIMaxInputLen = 8000

	summarySystemPrompt = "You summarize document excerpts. Reply with one or two " +
		"plain sentences capturing the main subject. No preamble."
)

// OpenAI summarizes via the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-backed summarizer.
func NewOpenAI(cfg Config) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = openAIDefaultModel
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Summarize sends the text for summarization, retrying transient failures.
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if len(text) > openAIMaxInputLen {
		text = text[:openAIMaxInputLen]
	}

	var summary string
	err := retry.Do(
		func() error {
			resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(o.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(summarySystemPrompt),
					openai.UserMessage(text),
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("empty completion response")
			}
			summary = strings.TrimSpace(resp.Choices[0].Message.Content)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
	)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return summary, nil
}
