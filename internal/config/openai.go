package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/garyyong/askgary/pkg/log"
)

type OpenAIConfig struct {
	APIKey          string  `env:"OPENAI_API_KEY,required,notEmpty"`
	BaseURL         string  `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	ChatModel       string  `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingsModel string  `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	Temperature     float64 `env:"CHAT_TEMPERATURE" envDefault:"0.8"`
	MaxTokens       int     `env:"CHAT_MAX_TOKENS" envDefault:"150"`
}

func NewOpenAIConfig(ctx context.Context) *OpenAIConfig {
	c := &OpenAIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenAI config")
	}
	return c
}
