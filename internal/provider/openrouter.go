package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const classifyPrompt = `You are a classifier for a personal long-term memory store called "Mind". ` +
	`Return ONLY JSON with keys: "type", "tags", "importance", "summary". ` +
	`"type" must be one of ["fact", "preference", "task", "journal", "note"]. ` +
	`Tags must be a lowercase array. Importance is 0.0-1.0.`

// Options configures an OpenRouterClient.
type Options struct {
	BaseURL         string // OpenAI-compatible API base, e.g. https://openrouter.ai/api/v1
	APIKey          string
	EmbedModel      string
	EmbedDim        int // expected vector width; 0 disables the check
	ChatModel       string
	EmbedTimeout    time.Duration
	ClassifyTimeout time.Duration
}

// OpenRouterClient talks to an OpenAI-compatible API (OpenRouter by
// default) and implements both Embedder and Classifier.
type OpenRouterClient struct {
	api  *openai.Client
	opts Options
}

// NewOpenRouterClient builds a client. A missing API key is not an error
// here; calls fail fast instead, so a store without AI assist still works.
func NewOpenRouterClient(opts Options) *OpenRouterClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenRouterClient{
		api:  openai.NewClientWithConfig(cfg),
		opts: opts,
	}
}

// EmbedTexts returns one vector per input text, in input order. An empty
// batch returns an empty result without a network call.
func (c *OpenRouterClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if c.opts.APIKey == "" {
		return nil, fmt.Errorf("embed: %w", ErrMissingAPIKey)
	}

	if c.opts.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.EmbedTimeout)
		defer cancel()
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.opts.EmbedModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, d := range resp.Data {
		if c.opts.EmbedDim > 0 && len(d.Embedding) != c.opts.EmbedDim {
			return nil, fmt.Errorf("embed: vector %d has dimension %d, want %d",
				i, len(d.Embedding), c.opts.EmbedDim)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// Classify asks the chat model for a type/tags/importance/summary guess in
// JSON mode and validates it strictly; any schema violation is a provider
// error.
func (c *OpenRouterClient) Classify(ctx context.Context, text string) (*Classification, error) {
	if c.opts.APIKey == "" {
		return nil, fmt.Errorf("classify: %w", ErrMissingAPIKey)
	}

	if c.opts.ClassifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ClassifyTimeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.opts.ChatModel,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "TEXT:\n\"\"\"" + text + "\"\"\""},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("classify: empty response")
	}

	var guess Classification
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &guess); err != nil {
		return nil, fmt.Errorf("classify: model did not return valid JSON: %w", err)
	}
	if err := guess.Validate(); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return &guess, nil
}
