// Package describe fills blank item descriptions using a text generation API.
package describe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/inventory-console/internal/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
)

var (
	errNoAPIKey  = errors.New("no api key configured")
	errNoChoices = errors.New("no completion text returned")
)

// Describer produces a description for an item. Implementations never fail;
// they fall back to a templated string instead.
type Describer interface {
	Generate(ctx context.Context, name, category string) string
}

// Generator calls an OpenAI-compatible chat completions endpoint
type Generator struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
	enabled     bool
	log         zerolog.Logger
}

// NewGenerator builds a Generator from configuration. Without an API key
// every call returns the fallback description.
func NewGenerator(cfg config.GeneratorConfig, log zerolog.Logger) *Generator {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{}),
	)
	return &Generator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		enabled:     cfg.Enabled(),
		log:         log.With().Str("component", "describer").Logger(),
	}
}

// Generate returns a short generated description, or Fallback on any failure
func (g *Generator) Generate(ctx context.Context, name, category string) string {
	text, err := g.complete(ctx, Prompt(name, category))
	if err != nil {
		g.log.Warn().Err(err).Str("name", name).Str("category", category).Msg("Description generation failed, using fallback")
		return Fallback(name, category)
	}
	return text
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	if !g.enabled {
		return "", errNoAPIKey
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(g.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	text := strings.TrimSpace(StripQuotes(strings.TrimSpace(resp.Choices[0].Message.Content)))
	if text == "" {
		return "", errNoChoices
	}
	return text, nil
}

// Prompt builds the generation request for an item
func Prompt(name, category string) string {
	return fmt.Sprintf(
		"Write a short, catchy product description for an inventory item named %q in the %q category. Keep it under 20 words.",
		name, category,
	)
}

// Fallback is the description used whenever generation fails
func Fallback(name, category string) string {
	return fmt.Sprintf("Smart description for %s in %s", name, category)
}

// StripQuotes removes one layer of matching quotes around s
func StripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
