// Package ai wraps the OpenAI-compatible completion endpoint used for food
// extraction and the recipe assistant.
//
// Callers depend only on Completer: submit a model id and a message list
// (optionally with an image URL) and receive a single text completion.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

var (
	// ErrNotConfigured is returned by Disabled.
	ErrNotConfigured = errors.New("ai completion is not configured")

	// ErrEmptyCompletion is returned when the model replies with no content.
	ErrEmptyCompletion = errors.New("ai completion returned no content")
)

// Role is the author of a prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prompt message. ImageURL may be an http(s) URL or a data URL.
type Message struct {
	Role     Role
	Text     string
	ImageURL string
}

// Request is a single completion request.
type Request struct {
	// Model overrides the client's default model when set.
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Completer issues one completion request and returns the reply text.
// Implementations do not retry.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config configures Client.
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// generator is the subset of llms.Model used by Client.
type generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Client implements Completer with langchaingo's OpenAI client.
type Client struct {
	llm     generator
	model   string
	limiter *rate.Limiter
}

// Ensure Client implements Completer
var _ Completer = (*Client)(nil)

// New creates a Client for an OpenAI-compatible endpoint.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return newClient(llm, cfg.Model, newLimiter(cfg.RatePerSecond, cfg.Burst)), nil
}

func newClient(llm generator, model string, limiter *rate.Limiter) *Client {
	return &Client{llm: llm, model: model, limiter: limiter}
}

func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
}

// Complete sends the request and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	opts := []llms.CallOption{llms.WithModel(model)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, toMessageContent(req.Messages), opts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	slog.Debug("AI completion finished",
		"model", model,
		"messages", len(req.Messages),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := resp.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func toMessageContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var parts []llms.ContentPart
		if m.Text != "" {
			parts = append(parts, llms.TextContent{Text: m.Text})
		}
		if m.ImageURL != "" {
			parts = append(parts, llms.ImageURLContent{URL: m.ImageURL})
		}
		out = append(out, llms.MessageContent{Role: chatMessageType(m.Role), Parts: parts})
	}
	return out
}

func chatMessageType(r Role) schema.ChatMessageType {
	switch r {
	case RoleSystem:
		return schema.ChatMessageTypeSystem
	case RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

// Disabled is a Completer used when no API key is configured.
type Disabled struct{}

// Complete always fails with ErrNotConfigured.
func (Disabled) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}
