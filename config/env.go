package config

import (
	"os"

	"go.uber.org/zap"
)

// GetEnv reads an environment variable. Missing variables are logged once so
// boot failures point at the right key.
func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		Logger.Warn("Environment variable not set", zap.String("key", key))
	}
	return value
}

// GetEnvWithDefault reads an environment variable and falls back to the given
// default when it is unset.
func GetEnvWithDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		Logger.Warn("Environment variable not set, using default",
			zap.String("key", key),
			zap.String("default", fallback),
		)
		return fallback
	}
	return value
}
