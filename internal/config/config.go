package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the market dashboard service.
type Config struct {
	ListenAddr     string
	SampleSize     int
	OpenAIAPIKey   string
	OpenAIModel    string
	LLMTemperature float64
	LLMMaxTokens   int
}

// FromEnv creates a configuration instance sourced from environment variables.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     getEnv("AIRMARKET_LISTEN_ADDR", ":8080"),
		SampleSize:     100,
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("AIRMARKET_OPENAI_MODEL", "gpt-3.5-turbo"),
		LLMTemperature: 0.7,
		LLMMaxTokens:   1000,
	}

	if size := os.Getenv("AIRMARKET_SAMPLE_SIZE"); size != "" {
		if _, err := fmt.Sscanf(size, "%d", &cfg.SampleSize); err != nil {
			return Config{}, fmt.Errorf("parse AIRMARKET_SAMPLE_SIZE: %w", err)
		}
	}

	if temp := os.Getenv("AIRMARKET_LLM_TEMPERATURE"); temp != "" {
		if _, err := fmt.Sscanf(temp, "%f", &cfg.LLMTemperature); err != nil {
			return Config{}, fmt.Errorf("parse AIRMARKET_LLM_TEMPERATURE: %w", err)
		}
	}

	if tokens := os.Getenv("AIRMARKET_LLM_MAX_TOKENS"); tokens != "" {
		if _, err := fmt.Sscanf(tokens, "%d", &cfg.LLMMaxTokens); err != nil {
			return Config{}, fmt.Errorf("parse AIRMARKET_LLM_MAX_TOKENS: %w", err)
		}
	}

	if cfg.SampleSize <= 0 {
		return Config{}, fmt.Errorf("AIRMARKET_SAMPLE_SIZE must be positive, got %d", cfg.SampleSize)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
