package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const systemPrompt = "You are a professional LinkedIn copywriter. Produce a concise LinkedIn post and suggest 3 hashtags."

// Config holds Groq client configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	MaxTokens      int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client calls the Groq OpenAI-compatible chat completions API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	maxTokens      int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		maxTokens:      cfg.MaxTokens,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "groq"),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate produces post copy for the given prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("groq api key not configured")
	}

	var content string
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		content, err = c.doRequest(ctx, prompt)
		if err == nil {
			return content, nil
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("generation request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

func (c *Client) doRequest(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
