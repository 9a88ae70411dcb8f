// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every environment variable the service reads.
const Prefix = "STAGEDOOR_"

// ParseEnv populates target from prefixed environment variables.
func ParseEnv(target any) error {
	return ParseEnvWithPrefix(target, Prefix)
}

// ParseEnvWithPrefix populates target using an explicit prefix. Required
// tags without a value fail the parse.
func ParseEnvWithPrefix(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
