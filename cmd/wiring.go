package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/ai/openai"
	"github.com/spigell/interview-coach/internal/feedback"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/secrets"
	"github.com/spigell/interview-coach/internal/tts"
)

// feedbackTokenBudget leaves room for a four-section evaluation.
const feedbackTokenBudget = 1000

// newGenerators wires both generators. Without a usable provider the remote
// steps are disabled and the local fallbacks answer every request.
func newGenerators(ctx context.Context, config *Config, l *zap.Logger) (*questions.Generator, *feedback.Generator) {
	questionCompleter, feedbackCompleter, err := newCompleters(ctx, config.AI, l)
	if err != nil {
		l.Warn("remote generation disabled", zap.Error(err))
	}

	return questions.New(questionCompleter, config.Interview.QuestionCount, l.Named("questions")),
		feedback.New(feedbackCompleter, l.Named("feedback"))
}

// newCompleters returns nil completers when ai is disabled.
func newCompleters(ctx context.Context, cfg AIConfig, l *zap.Logger) (ai.Completer, ai.Completer, error) {
	if !cfg.Enabled {
		l.Info("remote generation is turned off", zap.String("hint", "set ai.enabled to true"))
		return nil, nil, nil
	}

	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", "openai":
		apiKey, ok, err := secrets.LoadOptional(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, fmt.Errorf("openai api key is not set (set OPENAI_API_KEY or ai.openai.api-key-file)")
		}

		clientLogger := logger.WithCommonFields(l, "openai", cfg.OpenAI.Model)
		client, err := openai.New(apiKey,
			openai.WithOrganization(cfg.OpenAI.Organization),
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithTemperature(cfg.OpenAI.Temperature),
			openai.WithMaxTokens(cfg.OpenAI.MaxTokens),
			openai.WithMaxRetries(cfg.OpenAI.MaxRetries),
			openai.WithMaxLogLength(cfg.MaxLogLength),
			openai.WithTimeout(cfg.OpenAI.Timeout),
			openai.WithLogger(clientLogger),
		)
		if err != nil {
			return nil, nil, err
		}

		return client, client.WithTokenBudget(feedbackTokenBudget), nil
	case "gemini":
		apiKey, ok, err := secrets.LoadOptional(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, fmt.Errorf("gemini api key is not set (set GEMINI_API_KEY or ai.gemini.api-key-file)")
		}

		genLogger := logger.WithCommonFields(l, "gemini", cfg.Gemini.Model).With(
			zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
		)

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
		if err != nil {
			return nil, nil, err
		}
		generator.SetMaxLogLength(cfg.MaxLogLength)

		return generator, generator, nil
	default:
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// newSynthesizer builds the Azure synthesizer from the tts section.
func newSynthesizer(cfg TTSConfig, l *zap.Logger) (*tts.Azure, error) {
	key, ok, err := secrets.LoadOptional(secrets.Source{
		Name:  "azure tts key",
		Value: cfg.Azure.Key,
		File:  cfg.Azure.KeyFile,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("azure tts key: %w (set AZURE_TTS_KEY or tts.azure.key-file)", tts.ErrNotConfigured)
	}

	return tts.NewAzure(key, cfg.Azure.Region,
		tts.WithVoice(cfg.Azure.Voice),
		tts.WithFormat(cfg.Azure.Format),
		tts.WithOutputDir(cfg.OutputDir),
		tts.WithLogger(l.Named("tts")),
	)
}
