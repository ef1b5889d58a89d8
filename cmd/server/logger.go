package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskprefs-api/internal/config"
	"github.com/phrazzld/taskprefs-api/internal/platform/logger"
	"github.com/phrazzld/taskprefs-api/internal/redact"
)

// setupAppLogger configures structured logging from the server settings and
// records the loaded configuration.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	l.Debug("Database configuration",
		"url", redact.String(cfg.Database.URL),
		"max_open_conns", cfg.Database.MaxOpenConns)
	l.Debug("Auth configuration",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	return l, nil
}
