// Package config loads skillgap settings from defaults, an optional YAML
// file, a .env file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/skillgap/internal/llm"
	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/quiz"
	"github.com/abhisek/skillgap/internal/recommend"
	"github.com/abhisek/skillgap/internal/store"
)

// EnvPrefix prefixes every environment variable, e.g. SKILLGAP_LLM_PROVIDER.
const EnvPrefix = "SKILLGAP"

type Config struct {
	DataDir       string   `mapstructure:"data_dir"`
	ProfilePath   string   `mapstructure:"profile"`
	QuestionsPath string   `mapstructure:"questions"`
	DBPath        string   `mapstructure:"db"`
	StudentID     string   `mapstructure:"student_id"`
	TopicSequence []string `mapstructure:"topic_sequence"`
	Verbose       bool     `mapstructure:"verbose"`

	LLM    LLMConfig    `mapstructure:"llm"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature"`
	RetryAttempts int           `mapstructure:"retry_attempts"`

	Ollama     EndpointConfig `mapstructure:"ollama"`
	OpenAI     EndpointConfig `mapstructure:"openai"`
	OpenRouter EndpointConfig `mapstructure:"openrouter"`
	Anthropic  EndpointConfig `mapstructure:"anthropic"`
	Gemini     EndpointConfig `mapstructure:"gemini"`
}

type EndpointConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	SessionSecret string `mapstructure:"session_secret"`
	TutorRate     int    `mapstructure:"tutor_rate_per_minute"`
	TutorBurst    int    `mapstructure:"tutor_burst"`

	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SetDefaults registers every key so that AutomaticEnv can override it.
func SetDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()

	v.SetDefault("data_dir", "")
	v.SetDefault("profile", "")
	v.SetDefault("questions", "")
	v.SetDefault("db", "")
	v.SetDefault("student_id", profile.DefaultStudentID)
	v.SetDefault("topic_sequence", recommend.DefaultTopicSequence)
	v.SetDefault("verbose", false)

	v.SetDefault("llm.provider", def.Provider)
	v.SetDefault("llm.timeout", def.Timeout)
	v.SetDefault("llm.max_tokens", def.MaxTokens)
	v.SetDefault("llm.temperature", def.Temperature)
	v.SetDefault("llm.retry_attempts", def.Retry.MaxAttempts)

	v.SetDefault("llm.ollama.base_url", def.Ollama.BaseURL)
	v.SetDefault("llm.ollama.model", def.Ollama.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", def.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", def.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", def.Anthropic.Model)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", def.Gemini.Model)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.tutor_rate_per_minute", 10)
	v.SetDefault("server.tutor_burst", 3)
	v.SetDefault("server.session_ttl", quiz.DefaultSessionTTL)
	v.SetDefault("server.max_sessions", quiz.DefaultMaxSessions)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads configuration into a Config. file names an explicit YAML file;
// when empty, config.yaml in the data directory is used if present.
// Flags must already be bound on v.
func Load(v *viper.Viper, file string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dataDir := v.GetString("data_dir")
	if dataDir == "" {
		d, err := store.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = d
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(dataDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	cfg.fillPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fillPaths derives file locations that were not set explicitly.
func (c *Config) fillPaths() {
	if c.ProfilePath == "" {
		c.ProfilePath = filepath.Join(c.DataDir, "student_profile.json")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, store.AppName+".db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "logs", store.AppName+".log")
	}
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	if c.LLM.RetryAttempts < 1 {
		return fmt.Errorf("llm.retry_attempts must be at least 1")
	}
	if c.Server.TutorRate < 1 {
		return fmt.Errorf("server.tutor_rate_per_minute must be at least 1")
	}
	return nil
}

// LLMSettings converts the llm section into provider configuration.
func (c *Config) LLMSettings() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	out.Timeout = c.LLM.Timeout
	out.MaxTokens = c.LLM.MaxTokens
	out.Temperature = c.LLM.Temperature
	out.Retry.MaxAttempts = c.LLM.RetryAttempts

	out.Ollama = llm.OllamaConfig{BaseURL: c.LLM.Ollama.BaseURL, Model: c.LLM.Ollama.Model}
	out.OpenAI = llm.OpenAIConfig{APIKey: c.LLM.OpenAI.APIKey, Model: c.LLM.OpenAI.Model, BaseURL: c.LLM.OpenAI.BaseURL}
	out.OpenRouter = llm.OpenRouterConfig{APIKey: c.LLM.OpenRouter.APIKey, Model: c.LLM.OpenRouter.Model, BaseURL: c.LLM.OpenRouter.BaseURL}
	out.Anthropic = llm.AnthropicConfig{APIKey: c.LLM.Anthropic.APIKey, Model: c.LLM.Anthropic.Model}
	out.Gemini = llm.GeminiConfig{APIKey: c.LLM.Gemini.APIKey, Model: c.LLM.Gemini.Model}
	return out
}
