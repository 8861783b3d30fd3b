package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvProduction is the environment name that marks a production build.
const EnvProduction = "production"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// IsProduction reports whether an environment name denotes a production build.
func IsProduction(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), EnvProduction)
}
