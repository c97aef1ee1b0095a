// Package openai provides an implementation of model.Adapter using the
// OpenAI Chat Completions API. The evaluator only needs a single prompt in
// and a single response text out, so the adapter stays non-streaming.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/llmsentinel/model"
)

// Options configure the OpenAI adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Adapter wraps the OpenAI Chat Completions API behind model.Adapter.
type Adapter struct {
	client *openai.Client
	opts   Options
}

// NewAdapter creates a new OpenAI adapter using the official client
func NewAdapter(optFns ...func(o *Options)) *Adapter {
	client := openai.NewClient()
	return NewAdapterFromClient(&client, optFns...)
}

// NewAdapterFromClient creates a new OpenAI adapter from an existing client
func NewAdapterFromClient(client *openai.Client, optFns ...func(o *Options)) *Adapter {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{client: client, opts: opts}
}

// Generate implements model.Adapter.
func (a *Adapter) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:               a.opts.Model,
		Temperature:         openai.Float(a.opts.Temperature),
		MaxCompletionTokens: openai.Int(a.opts.MaxCompletionTokens),
	}
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Info implements model.Adapter.
func (a *Adapter) Info() model.Info {
	return model.Info{Name: a.opts.Model, Provider: "openai"}
}

var _ model.Adapter = (*Adapter)(nil)
