// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	// DefaultGroqModel is the model the dashboard was built against.
	DefaultGroqModel = "llama-3.1-8b-instant"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"

	requestTimeout = 60 * time.Second
)

// chatProvider implements Provider over any OpenAI-compatible chat
// completions API using the official openai-go SDK.
type chatProvider struct {
	name    string
	model   string
	baseURL string
	client  openai.Client
}

func newGroq(cfg ProviderConfig) *chatProvider {
	return newChatProvider("groq", cfg, DefaultGroqBaseURL, DefaultGroqModel)
}

func newOpenAI(cfg ProviderConfig) *chatProvider {
	return newChatProvider("openai", cfg, DefaultOpenAIBaseURL, DefaultOpenAIModel)
}

func newChatProvider(name string, cfg ProviderConfig, baseURL, model string) *chatProvider {
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		model = cfg.Model
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	// Failed calls surface immediately; the SDK would otherwise retry twice.
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(requestTimeout),
	)

	return &chatProvider{name: name, model: model, baseURL: baseURL, client: client}
}

func (p *chatProvider) Name() string { return p.name }

// Generate sends the instruction as a lone system message and returns the
// first choice's content.
func (p *chatProvider) Generate(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instruction),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", p.name, ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
