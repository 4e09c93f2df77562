// Package groq implements port.TextGenerator against the Groq Chat
// Completions API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rxtract/internal/port"
)

const apiURL = "https://api.groq.com/openai/v1/chat/completions"

// Client calls the Groq API over plain HTTP.
type Client struct {
	apiKey       string
	defaultModel string
	endpoint     string
	client       *http.Client
}

// Config holds the settings a Client needs.
type Config struct {
	APIKey       string
	DefaultModel string
	TimeoutSecs  int
}

// NewClient creates a Groq chat completion client.
func NewClient(cfg Config) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg Config, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg Config, endpoint string) *Client {
	model := cfg.DefaultModel
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:       cfg.APIKey,
		defaultModel: model,
		endpoint:     endpoint,
		client:       &http.Client{Timeout: timeout},
	}
}

// Generate runs a single-turn chat completion and returns the assistant
// message content.
func (c *Client) Generate(ctx context.Context, input port.ChatInput) (string, error) {
	model := input.Model
	if model == "" {
		model = c.defaultModel
	}

	var messages []map[string]interface{}
	if input.System != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": input.System,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": input.User,
	})

	reqBody := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": input.Temperature,
	}
	if input.MaxTokens > 0 {
		reqBody["max_tokens"] = input.MaxTokens
	}
	if input.JSONMode {
		reqBody["response_format"] = map[string]interface{}{
			"type": "json_object",
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling groq API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("groq API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", NewRateLimitError("groq", baseErr, retryAfter)
		}
		return "", baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return resp.Choices[0].Message.Content, nil
}
