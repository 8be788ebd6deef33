// Package llm provides the client for the OpenAI-compatible completion
// provider.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hzhang91/docchat/domain"
)

// systemPreamble is prepended to every provider call.
const systemPreamble = "You are an expert assistant. Always provide answers in markdown format."

// Client is the completion provider client.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a new completion client. baseURL is expected to include
// the API version prefix (e.g. ".../v1").
func NewClient(baseURL, apiKey, model string, temperature float64, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// chatCompletionRequest is the wire format of the chat completion request.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// chatMessage is a single wire-format message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the wire format of the chat completion response.
type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

// choice is a single completion choice.
type choice struct {
	Index        int          `json:"index"`
	Message      *chatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

// errorResponse is the provider's error envelope.
type errorResponse struct {
	Error *apiError `json:"error"`
}

// apiError carries the provider error details.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// Generate calls the completion provider with the given conversation history.
// The fixed system instruction is always prepended; when extraContext is
// non-empty a second system entry carrying it is inserted before the history.
// Failures surface as *domain.ProviderError; an upstream success with no
// content wraps domain.ErrEmptyCompletion. There is no retry.
func (c *Client) Generate(ctx context.Context, history []domain.PromptMessage, extraContext string) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: systemPreamble},
	}
	if extraContext != "" {
		messages = append(messages, chatMessage{
			Role:    "system",
			Content: "Context information:\n" + extraContext,
		})
	}
	for _, m := range history {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	temperature := c.temperature
	req := &chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: &temperature,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &domain.ProviderError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.ProviderError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return "", &domain.ProviderError{Err: fmt.Errorf("API error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)}
		}
		return "", &domain.ProviderError{Err: fmt.Errorf("API error [%d]: %s", resp.StatusCode, string(respBody))}
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &domain.ProviderError{Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	if len(result.Choices) == 0 || result.Choices[0].Message == nil || result.Choices[0].Message.Content == "" {
		return "", &domain.ProviderError{Err: domain.ErrEmptyCompletion}
	}

	return result.Choices[0].Message.Content, nil
}
