// Package openai asks an OpenAI-compatible chat completions endpoint for
// call topics.
package openai

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

	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/suggestion/domain"
)

const (
	chatCompletionsPath = "/chat/completions"
	maxRetries          = 1
	retryBackoff        = 250 * time.Millisecond
)

type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// New returns nil when the AI integration is disabled.
func New(cfg config.AIConfig) *Client {
	if !cfg.Enabled || strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: 30 * time.Second})
}

func NewWithHTTPClient(cfg config.AIConfig, httpClient *http.Client) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		baseURL: baseURL,
		client:  httpClient,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
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

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.code, e.msg)
}

func (c *Client) Generate(ctx context.Context, in domain.Context) (domain.Result, error) {
	if c == nil {
		return domain.Result{}, errors.New("ai client not configured")
	}

	content, err := c.chatWithRetry(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(in)},
	})
	if err != nil {
		return domain.Result{}, err
	}

	suggestions, err := parseSuggestions(content)
	if err != nil {
		return domain.Result{}, err
	}
	if len(suggestions) == 0 {
		return domain.Result{}, domain.ErrEmptyResult
	}
	return domain.Result{Suggestions: suggestions, Source: domain.SourceAI}, nil
}

func (c *Client) chatWithRetry(ctx context.Context, messages []chatMessage) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		content, err := c.chat(ctx, messages)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var se *statusError
		if !errors.As(err, &se) || se.code < 500 {
			return "", err
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
	return "", lastErr
}

func (c *Client) chat(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.4,
		MaxTokens:   800,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiError
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return "", &statusError{code: resp.StatusCode, msg: errResp.Error.Message}
		}
		return "", &statusError{code: resp.StatusCode, msg: string(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	return parsed.Choices[0].Message.Content, nil
}
