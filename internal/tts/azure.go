// Package tts turns question text into audio files with the Azure speech service.
package tts

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/utils"
)

const (
	providerName = "azure"

	DefaultVoice  = "tr-TR-AhmetNeural"
	DefaultFormat = "audio-16khz-32kbitrate-mono-mp3"

	language         = "tr-TR"
	userAgent        = "interview-coach"
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 2
	maxErrorBodySize = 4 << 10
)

// Azure synthesizes speech through the Cognitive Services REST endpoint.
type Azure struct {
	key        string
	endpoint   string
	voice      string
	format     string
	outputDir  string
	maxRetries int
	client     *http.Client
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// Option configures the synthesizer.
type Option func(*Azure)

// WithEndpoint overrides the regional endpoint (tests, private links).
func WithEndpoint(endpoint string) Option {
	return func(a *Azure) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			a.endpoint = endpoint
		}
	}
}

func WithVoice(voice string) Option {
	return func(a *Azure) {
		if voice = strings.TrimSpace(voice); voice != "" {
			a.voice = voice
		}
	}
}

func WithFormat(format string) Option {
	return func(a *Azure) {
		if format = strings.TrimSpace(format); format != "" {
			a.format = format
		}
	}
}

// WithOutputDir sets where audio files are written. Defaults to the OS temp dir.
func WithOutputDir(dir string) Option {
	return func(a *Azure) {
		if dir = strings.TrimSpace(dir); dir != "" {
			a.outputDir = dir
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(a *Azure) {
		if client != nil {
			a.client = client
		}
	}
}

// WithMaxRetries sets how often transient failures (429, 5xx, transport) are retried.
func WithMaxRetries(n int) Option {
	return func(a *Azure) {
		if n >= 0 {
			a.maxRetries = n
		}
	}
}

// WithBackOff replaces the retry delay policy. A fresh policy is built per call.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(a *Azure) {
		if factory != nil {
			a.newBackOff = factory
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Azure) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAzure creates a synthesizer for the given subscription key and region.
func NewAzure(key, region string, opts ...Option) (*Azure, error) {
	key = strings.TrimSpace(key)
	region = strings.TrimSpace(region)

	a := &Azure{
		key:        key,
		voice:      DefaultVoice,
		format:     DefaultFormat,
		outputDir:  os.TempDir(),
		maxRetries: defaultRetries,
		client:     &http.Client{Timeout: defaultTimeout},
		newBackOff: func() backoff.BackOff {
			expo := backoff.NewExponentialBackOff()
			expo.InitialInterval = 500 * time.Millisecond
			expo.MaxInterval = 5 * time.Second
			return expo
		},
		logger: zap.NewNop(),
	}
	if region != "" {
		a.endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region)
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.key == "" {
		return nil, fmt.Errorf("azure key: %w", ErrNotConfigured)
	}
	if a.endpoint == "" {
		return nil, fmt.Errorf("azure region: %w", ErrNotConfigured)
	}

	return a, nil
}

// Synthesize converts text to audio and returns the path of the written file.
// Empty voiceID or format fall back to the configured defaults.
func (a *Azure) Synthesize(ctx context.Context, text, voiceID, format string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if voiceID = strings.TrimSpace(voiceID); voiceID == "" {
		voiceID = a.voice
	}
	if format = strings.TrimSpace(format); format == "" {
		format = a.format
	}

	body, err := ssml(text, voiceID)
	if err != nil {
		return "", err
	}

	a.logger.Debug("azure synthesis request",
		zap.String("voice", voiceID),
		zap.String("format", format),
		zap.Int("text_length", utf8.RuneCountInString(text)),
	)

	var path string
	op := func() error {
		written, err := a.synthesize(ctx, body, format)
		if err != nil {
			var providerErr *ProviderError
			if errors.As(err, &providerErr) && providerErr.Retryable {
				return err
			}
			return backoff.Permanent(err)
		}
		path = written
		return nil
	}

	notify := func(err error, delay time.Duration) {
		a.logger.Warn("retrying azure synthesis", zap.Error(err), zap.Duration("delay", delay))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(a.newBackOff(), uint64(a.maxRetries)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", err
	}

	return path, nil
}

// synthesize performs a single request and writes the audio file.
func (a *Azure) synthesize(ctx context.Context, body []byte, format string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", format)
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: providerName, Message: "request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		message := utils.TruncateForLog(string(data), 200)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return "", &ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    message,
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(a.outputDir, "tts-"+uuid.NewString()+"."+Extension(format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}

	written, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", &ProviderError{Provider: providerName, Message: "read audio", Cause: err, Retryable: true}
	}

	a.logger.Debug("azure synthesis complete", zap.String("path", path), zap.Int64("bytes", written))
	return path, nil
}

// Extension maps an Azure output format to a file extension.
func Extension(format string) string {
	format = strings.ToLower(format)
	switch {
	case strings.HasPrefix(format, "riff-"):
		return "wav"
	case strings.HasPrefix(format, "ogg-"):
		return "ogg"
	case strings.HasPrefix(format, "webm-"):
		return "webm"
	case strings.HasPrefix(format, "raw-"):
		return "pcm"
	case strings.Contains(format, "mp3"):
		return "mp3"
	default:
		return "bin"
	}
}

func ssml(text, voice string) ([]byte, error) {
	var escapedText, escapedVoice bytes.Buffer
	if err := xml.EscapeText(&escapedText, []byte(text)); err != nil {
		return nil, fmt.Errorf("escape text: %w", err)
	}
	if err := xml.EscapeText(&escapedVoice, []byte(voice)); err != nil {
		return nil, fmt.Errorf("escape voice: %w", err)
	}

	doc := fmt.Sprintf(
		"<speak version='1.0' xml:lang='%s'><voice xml:lang='%s' name='%s'>%s</voice></speak>",
		language, language, escapedVoice.String(), escapedText.String(),
	)
	return []byte(doc), nil
}
