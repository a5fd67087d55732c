// Package llm provides the OpenAI-compatible chat completion backend
// for the platform assistant.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"skill-bridge/internal/config"

	"github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

func NewOpenAIProvider(cfg config.ChatConfig, logger *log.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing chat API key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("missing chat model")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: 0.1,
	})
	if err != nil {
		if p.logger != nil {
			p.logger.Printf("LLM request failed | elapsed=%s error=%v", time.Since(start), err)
		}
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	if p.logger != nil {
		p.logger.Printf("LLM request completed | model=%s prompt_tokens=%d completion_tokens=%d elapsed=%s",
			p.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, time.Since(start))
	}

	return resp.Choices[0].Message.Content, nil
}
