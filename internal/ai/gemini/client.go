// Package gemini implements ai.Completer with the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/utils"
)

const (
	providerName = "gemini"

	DefaultModel = "gemini-2.5-flash"

	defaultRetryDelay   = 2 * time.Second
	defaultMaxLogLength = 200
)

// wait is replaced in tests to skip retry delays.
var wait = utils.WaitFor

// contentModels is the subset of *genai.Models the generator needs.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client to provide prompt-based completions.
type Generator struct {
	models     contentModels
	model      string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	if maxRetries < 0 {
		maxRetries = 0
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:     client.Models,
		model:      model,
		maxRetries: maxRetries,
		maxLogLen:  defaultMaxLogLength,
		logger:     logger,
	}, nil
}

// SetMaxLogLength changes how much of prompts and responses is logged at debug level.
func (g *Generator) SetMaxLogLength(n int) {
	if n > 0 {
		g.maxLogLen = n
	}
}

// Complete sends the prompt with system as the system instruction and returns
// the textual response. Server errors and rate limits are retried.
func (g *Generator) Complete(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	g.logger.Debug("gemini generate content request",
		zap.String("model", g.model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.Preview(prompt, g.maxLogLen)),
	)

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * defaultRetryDelay
			g.logger.Warn("retrying gemini request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := wait(ctx, delay); err != nil {
				return "", err
			}
		}

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err != nil {
			lastErr = toProviderError(err)
			var providerErr *ai.ProviderError
			if errors.As(lastErr, &providerErr) && providerErr.Retryable {
				continue
			}
			return "", lastErr
		}

		output, err := collectText(resp)
		if err != nil {
			return "", err
		}

		g.logger.Debug("gemini generate content response",
			zap.Int("response_length", utf8.RuneCountInString(output)),
			zap.String("response_preview", utils.Preview(output, g.maxLogLen)),
		)

		return output, nil
	}

	return "", lastErr
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ai.Unparseable("gemini returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.Unparseable("gemini returned empty response")
	}

	return output, nil
}

func toProviderError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Cause:      err,
			Retryable:  apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError,
		}
	}

	return &ai.ProviderError{Provider: providerName, Message: "generate content", Cause: err}
}
