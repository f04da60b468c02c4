// Package openrouter provides a completion.Completer for the OpenRouter
// chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mdiez/promptly/pkg/completion"
	"github.com/mdiez/promptly/pkg/completion/usage"
)

const (
	// DefaultBaseURL is the OpenRouter API root (no trailing slash).
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout bounds each completion request when the caller does
	// not supply a client of its own.
	DefaultTimeout = 30 * time.Second

	completionsPath = "/chat/completions"
)

// Ping parameters. A one-word prompt with a tiny completion window keeps
// connectivity checks close to free.
const (
	pingPrompt    = "Hi"
	pingMaxTokens = 5
)

var _ completion.Completer = (*Client)(nil)

// Auth holds authentication settings for the API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// Client implements completion.Completer for the OpenRouter API.
// Fields may be adjusted after New and before the first call.
type Client struct {
	Auth    Auth         // Authentication settings.
	BaseURL string       // API base URL (no trailing slash); falls back to DefaultBaseURL.
	Client  *http.Client // HTTP client; falls back to a client with DefaultTimeout.

	// Referer and AppTitle fill OpenRouter's optional attribution headers
	// (HTTP-Referer and X-Title). Empty values are not sent.
	Referer  string
	AppTitle string

	// Usage accumulates token counts across calls.
	Usage usage.Tracker
}

// New creates a Client for the given API key with default base URL and
// timeout.
func New(apiKey string) *Client {
	return &Client{Auth: Auth{Key: apiKey}}
}

// Complete sends one prompt to the chat completions endpoint and returns the
// generated text. Failures come back as *completion.Error classified by kind.
func (c *Client) Complete(ctx context.Context, req completion.Request) (completion.Response, error) {
	if err := req.Validate(); err != nil {
		return completion.Response{}, err
	}

	if c.Auth.Key == "" {
		return completion.Response{}, completion.MissingCredential("no API key configured")
	}

	temp := req.Settings.Temperature
	payload := apiRequest{
		Model:       req.Model,
		Messages:    []apiMessage{{Role: "user", Content: req.Prompt}},
		Temperature: &temp,
		MaxTokens:   req.Settings.MaxTokens,
	}

	var resp apiResponse
	if err := c.postJSON(ctx, completionsPath, payload, &resp); err != nil {
		return completion.Response{}, err
	}

	tc := usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}

	c.Usage.Add(model, tc)

	if len(resp.Choices) == 0 {
		return completion.Response{}, completion.MalformedResponse("no choices returned", nil)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return completion.Response{}, completion.MalformedResponse("model returned an empty completion", nil)
	}

	return completion.Response{Text: text, Model: model, Usage: tc}, nil
}

// Ping sends a minimal completion to verify the key and connectivity.
// Callers bound it with a context deadline. The response body is ignored
// beyond the status check.
func (c *Client) Ping(ctx context.Context, model string) error {
	if c.Auth.Key == "" {
		return completion.MissingCredential("no API key configured")
	}

	payload := apiRequest{
		Model:     model,
		Messages:  []apiMessage{{Role: "user", Content: pingPrompt}},
		MaxTokens: pingMaxTokens,
	}

	return c.postJSON(ctx, completionsPath, payload, nil)
}

// --- HTTP helpers ---

func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}

	return &http.Client{Timeout: DefaultTimeout}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}

	return DefaultBaseURL
}

// newRequest builds an *http.Request with auth and attribution headers
// already applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL()+path, body)
	if err != nil {
		return nil, err
	}

	header := c.Auth.Header
	if header == "" {
		header = "Authorization"
	}

	value := c.Auth.Key
	if header == "Authorization" {
		scheme := c.Auth.Scheme
		if scheme == "" {
			scheme = "Bearer"
		}

		value = scheme + " " + value
	} else if c.Auth.Scheme != "" {
		value = c.Auth.Scheme + " " + value
	}

	req.Header.Set(header, value)

	if c.Referer != "" {
		req.Header.Set("HTTP-Referer", c.Referer)
	}

	if c.AppTitle != "" {
		req.Header.Set("X-Title", c.AppTitle)
	}

	return req, nil
}

// postJSON marshals payload, sends a POST to the given path, classifies any
// failure, and unmarshals a 2xx body into dest. If dest is nil the body is
// discarded after the status check.
func (c *Client) postJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("openrouter: marshal payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("openrouter: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return completion.NetworkFailure(0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, resp.Body)
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return completion.MalformedResponse("could not decode response", err)
	}

	return nil
}

// classifyStatus turns a non-2xx response into a *completion.Error. The
// provider's own error message is used when the body carries one.
func classifyStatus(status int, body io.Reader) error {
	msg := errorMessage(body)

	switch {
	case status == http.StatusPaymentRequired:
		if msg == "" {
			msg = "payment required"
		}

		return completion.QuotaExceeded(status, msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", status)
		}

		return completion.NetworkFailure(status, msg, nil)
	}
}

// errorMessage extracts the message from an OpenRouter error body, which has
// the shape {"error": {"message": "...", "code": ...}}.
func errorMessage(body io.Reader) string {
	var e apiErrorResponse
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		return ""
	}

	return strings.TrimSpace(e.Error.Message)
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}
