// Package ai talks to a local Ollama server: it builds chat, follow-up and
// suggestion prompts, posts them to /api/generate, and tags every reply with
// the request that produced it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "http://localhost:11434/api/generate"
	DefaultModel    = "codellama"

	defaultTimeout = 240 * time.Second
	maxErrorBody   = 512
)

// Options are the sampling parameters sent with every request.
type Options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

// DefaultOptions are tuned for code answers.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, TopP: 0.9, NumPredict: 1024}
}

// GenerateRequest is the /api/generate request body.
type GenerateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

// GenerateResponse is the part of the non-streaming reply we use.
type GenerateResponse struct {
	Response *string `json:"response"`
}

// Client posts prompts to a single endpoint and model.
type Client struct {
	endpoint string
	model    string
	http     *http.Client
	log      *zap.Logger
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient returns a client for endpoint and model. Empty values fall back
// to the local Ollama defaults.
func NewClient(endpoint, model string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		endpoint: endpoint,
		model:    model,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Model() string    { return c.model }
func (c *Client) Endpoint() string { return c.endpoint }

// Generate sends prompt and returns the model's response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(GenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Options: DefaultOptions(),
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Endpoint: c.endpoint, Model: c.model, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		terr := &TransportError{
			Endpoint: c.endpoint,
			Model:    c.model,
			Refused:  errors.Is(err, syscall.ECONNREFUSED),
			Err:      err,
		}
		c.log.Warn("generate failed", zap.String("endpoint", c.endpoint), zap.Bool("refused", terr.Refused), zap.Error(err))
		return "", terr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Endpoint: c.endpoint, Model: c.model, Err: fmt.Errorf("read response: %w", err)}
	}
	c.log.Debug("generate finished",
		zap.String("model", c.model),
		zap.Int("status", resp.StatusCode),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Int("response_bytes", len(respBody)),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{
			Endpoint: c.endpoint,
			Model:    c.model,
			Status:   resp.StatusCode,
			Body:     clip(string(respBody), maxErrorBody),
		}
	}

	var gr GenerateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", &MalformedResponseError{Body: clip(string(respBody), maxErrorBody), Err: err}
	}
	if gr.Response == nil {
		return "", &MalformedResponseError{Body: clip(string(respBody), maxErrorBody), Err: errors.New(`missing "response" field`)}
	}
	return *gr.Response, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
