package answer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const qaSystemPrompt = `You answer questions strictly from the provided contract excerpt.
Reply with a JSON object {"answer": "<short answer taken from the excerpt>", "confidence": <0.0-1.0>}.
If the excerpt does not contain the answer, use an empty answer and confidence 0.`

// OpenAIQA answers questions through an OpenAI-compatible chat API.
type OpenAIQA struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// OpenAIQAConfig configures the OpenAI-compatible QA model.
type OpenAIQAConfig struct {
	Model     string
	APIKeyEnv string
	BaseURL   string
	Timeout   time.Duration
}

// NewOpenAIQA creates a QA model backed by the configured API.
func NewOpenAIQA(cfg OpenAIQAConfig) (*OpenAIQA, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIQA{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Name returns the identifier of this QA implementation.
func (q *OpenAIQA) Name() string { return "openai" }

// Answer asks the chat model for an answer span and confidence.
func (q *OpenAIQA) Answer(question, excerpt string) (string, float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	resp, err := q.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: q.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: qaSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Excerpt:\n" + excerpt + "\n\nQuestion: " + question},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, errors.New("no completion returned from API")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var parsed struct {
		Answer     string  `json:"answer"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed.Answer != "" {
		if parsed.Confidence < 0 {
			parsed.Confidence = 0
		}
		if parsed.Confidence > 1 {
			parsed.Confidence = 1
		}
		return parsed.Answer, parsed.Confidence, nil
	}
	// Model ignored the JSON instruction; take the raw reply with a
	// neutral confidence.
	return content, 0.5, nil
}
