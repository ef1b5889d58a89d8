package main

import (
	"fmt"

	"github.com/phrazzld/taskprefs-api/internal/config"
)

// loadAppConfig loads and validates the application configuration.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
