package utils

import (
	"fmt"
	"os"
	"strconv"
)

// CreateFolder makes the directory (and any parents) if it does not exist.
func CreateFolder(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// EnvFloat reads a float64 from the environment, falling back to def when
// the variable is unset or malformed.
func EnvFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		GetLogger().Warn("ignoring malformed environment value", "key", key, "value", raw)
		return def
	}
	return value
}

// EnvInt reads an int from the environment, falling back to def when the
// variable is unset or malformed.
func EnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		GetLogger().Warn("ignoring malformed environment value", "key", key, "value", raw)
		return def
	}
	return value
}
