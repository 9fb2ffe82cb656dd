package tts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

func noWait() backoff.BackOff { return &backoff.ZeroBackOff{} }

func TestSynthesizeWritesAudio(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "key-1" {
			t.Errorf("unexpected key header: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/ssml+xml" {
			t.Errorf("unexpected content type: %q", got)
		}
		if got := r.Header.Get("X-Microsoft-OutputFormat"); got != DefaultFormat {
			t.Errorf("unexpected output format: %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("unexpected user agent: %q", got)
		}
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = w.Write([]byte("ID3-audio"))
	}))
	defer server.Close()

	dir := t.TempDir()
	a, err := NewAzure("key-1", "", WithEndpoint(server.URL), WithOutputDir(dir), WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := a.Synthesize(context.Background(), "  Kod & test <ne> demek? ", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "tts-") || filepath.Ext(path) != ".mp3" {
		t.Fatalf("unexpected path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if string(data) != "ID3-audio" {
		t.Fatalf("unexpected audio payload: %q", data)
	}

	for _, fragment := range []string{"xml:lang='tr-TR'", "name='" + DefaultVoice + "'", "Kod &amp; test &lt;ne&gt; demek?"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("ssml %q does not contain %q", body, fragment)
		}
	}
}

func TestSynthesizeUsesRequestedVoiceAndFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Microsoft-OutputFormat"); got != "riff-24khz-16bit-mono-pcm" {
			t.Errorf("unexpected output format: %q", got)
		}
		data, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(data), "name='tr-TR-EmelNeural'") {
			t.Errorf("unexpected ssml: %s", data)
		}
		_, _ = w.Write([]byte("RIFF"))
	}))
	defer server.Close()

	a, _ := NewAzure("key-1", "westeurope", WithEndpoint(server.URL), WithOutputDir(t.TempDir()))

	path, err := a.Synthesize(context.Background(), "Merhaba", "tr-TR-EmelNeural", "riff-24khz-16bit-mono-pcm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(path) != ".wav" {
		t.Fatalf("expected wav file, got %s", path)
	}
}

func TestSynthesizeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	dir := t.TempDir()
	a, _ := NewAzure("bad", "", WithEndpoint(server.URL), WithOutputDir(dir))

	_, err := a.Synthesize(context.Background(), "Merhaba", "", "")

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if providerErr.StatusCode != http.StatusUnauthorized || providerErr.Retryable {
		t.Fatalf("unexpected provider error: %+v", providerErr)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files on failure, got %d", len(entries))
	}
}

func TestSynthesizeRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer server.Close()

	a, _ := NewAzure("key-1", "", WithEndpoint(server.URL), WithOutputDir(t.TempDir()), WithBackOff(noWait))

	path, err := a.Synthesize(context.Background(), "Merhaba", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ID3audio" {
		t.Fatalf("unexpected audio file: %q %v", data, err)
	}
}

func TestSynthesizeRetryLimits(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retries   int
		calls     int32
		retryable bool
	}{
		{name: "rate limit exhausts retries", status: http.StatusTooManyRequests, retries: 2, calls: 3, retryable: true},
		{name: "retries disabled", status: http.StatusInternalServerError, retries: 0, calls: 1, retryable: true},
		{name: "client error is not retried", status: http.StatusBadRequest, retries: 3, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			a, _ := NewAzure("key-1", "",
				WithEndpoint(server.URL),
				WithOutputDir(t.TempDir()),
				WithBackOff(noWait),
				WithMaxRetries(tt.retries),
			)

			_, err := a.Synthesize(context.Background(), "Merhaba", "", "")

			var providerErr *ProviderError
			if !errors.As(err, &providerErr) || providerErr.StatusCode != tt.status || providerErr.Retryable != tt.retryable {
				t.Fatalf("unexpected error: %v", err)
			}
			if calls.Load() != tt.calls {
				t.Fatalf("expected %d calls, got %d", tt.calls, calls.Load())
			}
		})
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	a, _ := NewAzure("key", "westeurope")
	if _, err := a.Synthesize(context.Background(), " \n ", "", ""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestNewAzureRequiresConfiguration(t *testing.T) {
	if _, err := NewAzure("", "westeurope"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for missing key, got %v", err)
	}
	if _, err := NewAzure("key", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for missing region, got %v", err)
	}

	a, err := NewAzure("key", "westeurope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.endpoint != "https://westeurope.tts.speech.microsoft.com/cognitiveservices/v1" {
		t.Fatalf("unexpected endpoint: %s", a.endpoint)
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"audio-16khz-32kbitrate-mono-mp3": "mp3",
		"riff-24khz-16bit-mono-pcm":       "wav",
		"ogg-48khz-16bit-mono-opus":       "ogg",
		"webm-24khz-16bit-mono-opus":      "webm",
		"raw-16khz-16bit-mono-pcm":        "pcm",
		"something-else":                  "bin",
	}

	for format, expect := range tests {
		if got := Extension(format); got != expect {
			t.Fatalf("%s: expected %s, got %s", format, expect, got)
		}
	}
}
