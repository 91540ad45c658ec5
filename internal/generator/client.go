// Package generator talks to an OpenAI-compatible chat completions endpoint.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alcyxob/triplan/internal/config"
	"alcyxob/triplan/internal/pkg/logger"
)

// ErrUnavailable is returned when the service answers with a non-2xx status
// or cannot be reached at all.
var ErrUnavailable = errors.New("generation service unavailable")

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks alcyxob/triplan/internal/generator Client

// Client produces free text for a system + user prompt pair.
type Client interface {
	// Complete asks for a single JSON object.
	Complete(ctx context.Context, system, user string) (string, error)
	// Chat continues a conversation and returns the assistant's plain-text reply.
	Chat(ctx context.Context, system string, turns []Turn) (string, error)
}

// Turn is one message of a conversation. Role is "user" or "assistant".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HTTPError carries the status and body of a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("generator http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error { return ErrUnavailable }

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewClient builds a Client from configuration. Requests are never retried.
func NewClient(cfg config.GeneratorConfig, log *logger.Logger) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing generator api key")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &client{
		log:         log.With("service", "GeneratorClient"),
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends one chat completion request asking for a JSON object and
// returns the assistant message verbatim.
func (c *client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.send(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
}

// Chat sends the system prompt followed by every turn in order.
func (c *client) Chat(ctx context.Context, system string, turns []Turn) (string, error) {
	messages := make([]chatMessage, 0, len(turns)+1)
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, t := range turns {
		messages = append(messages, chatMessage{Role: t.Role, Content: t.Content})
	}
	return c.send(ctx, chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
}

func (c *client) send(ctx context.Context, body chatRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("generator request failed", "error", err.Error())
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUnavailable, readErr)
	}

	c.log.Debug("generator responded", "status", resp.StatusCode, "elapsed", time.Since(start).String(), "bytes", len(raw))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("generator returned error status", "status", resp.StatusCode)
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode generator envelope: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("generator returned no choices")
	}
	msg := out.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("generator refused: %s", msg.Refusal)
	}
	if out.Choices[0].FinishReason == "length" {
		c.log.Warn("generator output truncated", "max_tokens", c.maxTokens)
	}
	return msg.Content, nil
}
