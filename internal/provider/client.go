package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultConnectTimeout = 10 * time.Second

// ErrMissingAPIKey is returned before any network call when no credential
// is configured.
var ErrMissingAPIKey = errors.New("no API key configured (set MINICODE_API_KEY)")

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client

	// Warn receives non-fatal decode problems (a single malformed stream
	// event). Nil means they are dropped silently.
	Warn func(error)
}

func NewClient(baseURL, apiKey, model string, maxTokens int) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: newHTTPClient(),
	}
}

// newHTTPClient builds a client suitable for long-lived streaming responses.
// The client-level timeout stays disabled; callers bound requests via context.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 0,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   defaultConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

func (c *Client) post(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool, stream bool) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	reqBody := openai.ChatCompletionRequest{
		Model:      c.model,
		MaxTokens:  c.maxTokens,
		Messages:   messages,
		Tools:      tools,
		ToolChoice: "auto",
		Stream:     stream,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

// Stream requests a streamed completion and decodes it. Content deltas are
// forwarded to onContent as they arrive; the returned message carries the
// full accumulated text and any assembled tool calls.
func (c *Client) Stream(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool, onContent func(string)) (openai.ChatCompletionMessage, error) {
	resp, err := c.post(ctx, messages, tools, true)
	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}
	defer resp.Body.Close()

	content, toolCalls, err := decodeStream(resp.Body, onContent, c.Warn)
	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}
	return openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		Content:   content,
		ToolCalls: toolCalls,
	}, nil
}

// Complete requests a non-streamed completion. Both paths return the same
// message shape, so the caller never cares which mode produced it.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	resp, err := c.post(ctx, messages, tools, false)
	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("read response: %w", err)
	}
	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("no choices in response")
	}
	return completion.Choices[0].Message, nil
}
