// Package openai implements ai.Completer on top of the chat completions API.
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
	"unicode/utf8"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/utils"
)

const (
	providerName = "openai"

	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
	DefaultTimeout     = 60 * time.Second

	completionsPath     = "/chat/completions"
	contentType         = "application/json"
	maxResponseBytes    = 4 << 20
	defaultMaxLogLength = 200
)

type Client struct {
	apiKey       string
	organization string
	baseURL      string
	model        string
	temperature  float64
	maxTokens    int
	maxRetries   int
	maxLogLen    int

	httpClient *http.Client
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// Option configures the client.
type Option func(*Client)

func WithOrganization(org string) Option {
	return func(c *Client) { c.organization = strings.TrimSpace(org) }
}

// WithBaseURL sets a custom base URL (proxies, compatible providers, tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url = strings.TrimRight(strings.TrimSpace(url), "/"); url != "" {
			c.baseURL = url
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		if model = strings.TrimSpace(model); model != "" {
			c.model = model
		}
	}
}

func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

func WithMaxLogLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxLogLen = n
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithBackOff replaces the retry policy factory. A fresh policy is built per call.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) {
		if factory != nil {
			c.newBackOff = factory
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a chat completions client. The API key is sent as a bearer token.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	c := &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		maxRetries:  2,
		maxLogLen:   defaultMaxLogLength,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		newBackOff: func() backoff.BackOff {
			expo := backoff.NewExponentialBackOff()
			expo.InitialInterval = time.Second
			expo.MaxInterval = 10 * time.Second
			return expo
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithTokenBudget returns a copy of the client that requests up to n tokens.
func (c *Client) WithTokenBudget(n int) *Client {
	clone := *c
	if n > 0 {
		clone.maxTokens = n
	}
	return &clone
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Error   any      `json:"error"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// apiError is the error object of the API. Compatible providers disagree on
// its shape: code may be a string or a number, and some send a bare string.
type apiError struct {
	Message string `mapstructure:"message"`
	Type    string `mapstructure:"type"`
	Code    string `mapstructure:"code"`
	Param   string `mapstructure:"param"`
}

// decodeAPIError converts a raw "error" value into a readable message.
func decodeAPIError(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	}

	var out apiError
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ""
	}
	if err := decoder.Decode(raw); err != nil {
		return ""
	}

	message := strings.TrimSpace(out.Message)
	if message != "" && out.Code != "" {
		message += " (code " + out.Code + ")"
	}
	return message
}

// Complete sends a system and a user message and returns the first choice.
// Rate limits, server errors and transport failures are retried.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("openai completion request",
		zap.String("model", c.model),
		zap.Int("max_tokens", c.maxTokens),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.Preview(prompt, c.maxLogLen)),
	)

	var content string
	op := func() error {
		text, err := c.do(ctx, body)
		if err != nil {
			var providerErr *ai.ProviderError
			if errors.As(err, &providerErr) && providerErr.Retryable {
				return err
			}
			return backoff.Permanent(err)
		}
		content = text
		return nil
	}

	notify := func(err error, delay time.Duration) {
		c.logger.Warn("retrying openai completion", zap.Error(err), zap.Duration("delay", delay))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", err
	}

	c.logger.Debug("openai completion response",
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", utils.Preview(content, c.maxLogLen)),
	)

	return content, nil
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ai.ProviderError{Provider: providerName, Message: "request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &ai.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Message: "read response", Cause: err, Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ai.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	return parseResponse(data)
}

func parseResponse(data []byte) (string, error) {
	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", ai.Unparseable("decode completion: %v", err)
	}

	if message := decodeAPIError(out.Error); message != "" {
		return "", &ai.ProviderError{Provider: providerName, Message: message}
	}

	if len(out.Choices) == 0 {
		return "", ai.Unparseable("no choices returned")
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", ai.Unparseable("empty completion")
	}

	return content, nil
}

func errorMessage(data []byte) string {
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if message := decodeAPIError(payload.Error); message != "" {
			return message
		}
	}
	return utils.TruncateForLog(string(data), defaultMaxLogLength)
}
