package ollama

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// Chat generates answers through an Ollama server's OpenAI-compatible
// chat completion endpoint.
type Chat struct {
	client     openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
}

func NewChat(baseURL, model string, timeout time.Duration, maxRetries int) *Chat {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	return &Chat{
		client: openai.NewClient(
			option.WithAPIKey("ollama"),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0), // retries are handled here
		),
		model:      model,
		timeout:    timeout,
		maxRetries: maxRetries,
	}
}

// Generate sends a single-turn prompt and returns the model's reply.
func (c *Chat) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	var content string
	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		completion, err := c.client.Chat.Completions.New(callCtx, params)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(completion.Choices) == 0 {
			return backoff.Permanent(errors.New("no completion choices returned"))
		}
		content = completion.Choices[0].Message.Content
		return nil
	}

	if err := backoff.Retry(op, retryPolicy(ctx, c.maxRetries)); err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	return content, nil
}

func (c *Chat) ModelName() string {
	return c.model
}
