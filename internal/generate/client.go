// Package generate adapts user prompts into completion requests against
// the generative backend and extracts code artifacts from the responses.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uicraft/uicraft/internal/domain"
)

// systemPrompt constrains the backend to emit two labeled sections. This is
// a prompt-engineering contract, not a schema the backend is forced to obey;
// Parse stays defensive regardless.
const systemPrompt = `You are an expert UI component generator. Generate clean, modern components with CSS.

Rules:
- Return only valid JSX/TSX and CSS
- Use modern CSS with flexbox/grid
- Make components responsive
- Use semantic HTML
- Include hover states and transitions
- Return in this exact format:

JSX:
<your jsx code here>

CSS:
<your css code here>`

// Generator produces a code artifact for a user prompt. Implementations
// fail with an error wrapping domain.ErrBackend when the upstream service
// is unreachable or its response is unusable as text; "parsed but empty"
// is not an error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.Artifact, error)
}

// Ensure Client implements Generator interface.
var _ Generator = (*Client)(nil)

// Client calls an OpenAI-compatible chat completion endpoint. One outbound
// call per Generate; no retry is performed here, retry policy belongs to
// the caller.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new generation client. The timeout bounds each call;
// expiry surfaces as a backend error.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt to the backend and parses the completion text
// into an artifact.
func (c *Client) Generate(ctx context.Context, prompt string) (domain.Artifact, error) {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return domain.Artifact{}, err
	}
	return Parse(text), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "User request: " + prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", domain.ErrBackend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %v", domain.ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", domain.ErrBackend, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", domain.ErrBackend, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: backend returned status %d: %s", domain.ErrBackend, resp.StatusCode, truncate(string(respBody), 200))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", domain.ErrBackend, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message == nil {
		return "", fmt.Errorf("%w: response contained no completion", domain.ErrBackend)
	}
	return completion.Choices[0].Message.Content, nil
}

// truncate shortens a string to maxLen runes, never splitting one.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
