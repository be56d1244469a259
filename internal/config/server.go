package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/garyyong/askgary/pkg/log"
)

type ServerConfig struct {
	ListenAddr   string   `env:"LISTEN_ADDR" envDefault:":8000"`
	AdminKey     string   `env:"ADMIN_KEY,required,notEmpty"`
	AllowOrigins []string `env:"ALLOW_ORIGINS" envDefault:"http://localhost:5500,http://127.0.0.1:5500,https://gary-yong.com"`
}

func NewServerConfig(ctx context.Context) *ServerConfig {
	c := &ServerConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Server config")
	}
	return c
}
