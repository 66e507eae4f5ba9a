package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"`
	Wikipedia WikipediaConfig `mapstructure:"wikipedia"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Summarize SummarizeConfig `mapstructure:"summarize"`
	Server    ServerConfig    `mapstructure:"server"`
}

type BackendConfig struct {
	// Provider selects the model backend: a remote OpenAI compatible API
	// or a local Ollama runtime
	Provider      string       `mapstructure:"provider" validate:"oneof=openai ollama"`
	RetryAttempts uint         `mapstructure:"retry_attempts"`
	OpenAI        OpenAIConfig `mapstructure:"openai"`
	Ollama        OllamaConfig `mapstructure:"ollama"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OllamaConfig struct {
	Host  string `mapstructure:"host"`
	Model string `mapstructure:"model"`
}

type WikipediaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Sentences caps the extract length. The MediaWiki API allows 1-10.
	Sentences      int    `mapstructure:"sentences" validate:"min=1,max=10"`
	CacheDirectory string `mapstructure:"cache_directory"`
	CacheEnabled   bool   `mapstructure:"cache_enabled"`
}

type ResolverConfig struct {
	// Memory enables conversation history and LLM topic resolution
	Memory       bool `mapstructure:"memory"`
	HistoryTurns int  `mapstructure:"history_turns" validate:"min=0"`
}

type SummarizeConfig struct {
	// ChunkSize is the rune threshold above which map-reduce kicks in
	ChunkSize    int `mapstructure:"chunk_size" validate:"min=1"`
	ChunkOverlap int `mapstructure:"chunk_overlap" validate:"min=0"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wikibot")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("backend.provider", "openai")
	v.SetDefault("backend.retry_attempts", 3)
	v.SetDefault("backend.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("backend.openai.model", "gpt-4o-mini")
	v.SetDefault("backend.ollama.host", "http://localhost:11434")
	v.SetDefault("backend.ollama.model", "qwen2.5:3b")
	v.SetDefault("wikipedia.base_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("wikipedia.sentences", 10)
	v.SetDefault("wikipedia.cache_directory", filepath.Join("cache", "wikipedia"))
	v.SetDefault("wikipedia.cache_enabled", false)
	v.SetDefault("resolver.memory", true)
	v.SetDefault("resolver.history_turns", 12)
	v.SetDefault("summarize.chunk_size", 3000)
	v.SetDefault("summarize.chunk_overlap", 200)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})

	// Bind the OpenAI secrets to environment variables only (not from config file)
	if err := v.BindEnv("backend.openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("backend.openai.base_url", "OPENAI_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_BASE_URL environment variable: %w", err)
	}
	if err := v.BindEnv("backend.openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("backend.ollama.host", "OLLAMA_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind OLLAMA_HOST environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
