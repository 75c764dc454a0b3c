package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Env holds settings read from the process environment.
type Env struct {
	Jobs     int    `env:"GCMS_JOBS, default=1"`
	LogLevel string `env:"GCMS_LOG_LEVEL"`
	Strict   bool   `env:"GCMS_STRICT, default=true"`
	Database string `env:"GCMS_DB"`
}

// LoadEnv reads Env from the environment after loading an optional .env file.
func LoadEnv(ctx context.Context) (*Env, error) {
	// A missing .env file is fine
	_ = godotenv.Load()
	return ProcessEnv(ctx, envconfig.OsLookuper())
}

// ProcessEnv reads Env through the given lookuper.
func ProcessEnv(ctx context.Context, lookuper envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if env.Jobs < 1 {
		return nil, fmt.Errorf("GCMS_JOBS must be at least 1, got %d", env.Jobs)
	}
	return &env, nil
}
