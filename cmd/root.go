package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/ai/openai"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/tts"
)

const (
	app = "interview-coach"
)

type Config struct {
	Interview InterviewConfig `mapstructure:"interview"`
	AI        AIConfig        `mapstructure:"ai"`
	TTS       TTSConfig       `mapstructure:"tts"`
}

type InterviewConfig struct {
	QuestionCount int `mapstructure:"question-count" validate:"min=1,max=10"`
}

type AIConfig struct {
	Enabled      bool         `mapstructure:"enabled"`
	Provider     string       `mapstructure:"provider" validate:"oneof=openai gemini"`
	MaxLogLength int          `mapstructure:"max-log-length" validate:"gte=0"`
	OpenAI       OpenAIConfig `mapstructure:"openai"`
	Gemini       GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey       string        `mapstructure:"api-key" json:"-"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Organization string        `mapstructure:"organization"`
	BaseURL      string        `mapstructure:"base-url" validate:"omitempty,url"`
	Model        string        `mapstructure:"model"`
	Temperature  float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens    int           `mapstructure:"max-tokens" validate:"gte=1"`
	MaxRetries   int           `mapstructure:"max-retries" validate:"gte=0"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key" json:"-"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries" validate:"gte=0"`
}

type TTSConfig struct {
	Enabled   bool        `mapstructure:"enabled"`
	OutputDir string      `mapstructure:"output-dir"`
	Azure     AzureConfig `mapstructure:"azure"`
}

type AzureConfig struct {
	Key     string `mapstructure:"key" json:"-"`
	KeyFile string `mapstructure:"key-file"`
	Region  string `mapstructure:"region"`
	Voice   string `mapstructure:"voice"`
	Format  string `mapstructure:"format"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interview-coach is an interactive job interview simulator with AI feedback",
	}

	envBindings = map[string]string{
		"ai.openai.api-key":      "OPENAI_API_KEY",
		"ai.openai.organization": "OPENAI_ORG_ID",
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"tts.azure.key":          "AZURE_TTS_KEY",
		"tts.azure.region":       "AZURE_TTS_REGION",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-coach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interview.question-count", questions.DefaultCount)

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.max-log-length", 200)

	v.SetDefault("ai.openai.base-url", openai.DefaultBaseURL)
	v.SetDefault("ai.openai.model", openai.DefaultModel)
	v.SetDefault("ai.openai.temperature", openai.DefaultTemperature)
	v.SetDefault("ai.openai.max-tokens", openai.DefaultMaxTokens)
	v.SetDefault("ai.openai.max-retries", 2)
	v.SetDefault("ai.openai.timeout", openai.DefaultTimeout)

	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.max-retries", 2)

	v.SetDefault("tts.enabled", false)
	v.SetDefault("tts.azure.voice", tts.DefaultVoice)
	v.SetDefault("tts.azure.format", tts.DefaultFormat)
}

func initConfig() {
	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

// readConfig loads an explicit config file or the default one from the
// current directory. Only a missing default file is tolerated.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && file == "" && errors.As(err, &notFound) {
		return nil
	}
	return err
}

var validate = validator.New()

func getConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setup builds the logger and the config shared by all commands.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig(viper.GetViper())
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	return l, config
}
