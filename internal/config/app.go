package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/garyyong/askgary/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"ASKGARY_RUNTIME_PATH" envDefault:".askgary"`

	// Retrieval
	TopKResults        int `env:"TOP_K_RESULTS" envDefault:"6"`
	ContextTokenBudget int `env:"CONTEXT_TOKEN_BUDGET" envDefault:"1500"`

	// Conversation memory
	MaxHistoryTurns int           `env:"MAX_HISTORY_TURNS" envDefault:"10"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetIndexPath() string {
	return filepath.Join(c.RuntimePath, "index.db")
}

func (c AppConfig) GetSessionsPath() string {
	return filepath.Join(c.RuntimePath, "sessions")
}
