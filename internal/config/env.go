// Package config provides shared configuration utilities.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/tomz197/letterfall/internal/layout"
)

// DefaultDBPath is used when LETTERFALL_DB is not set.
const DefaultDBPath = "data/letterfall.db"

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the environment without overriding variables that are already set.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt returns the integer value of key, or fallback if the variable is
// unset or not a number.
func GetEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// Port returns the TCP port named by key as a string for net.JoinHostPort.
// Unset, non-numeric or out-of-range values fall back.
func Port(key string, fallback int) string {
	port := GetEnvInt(key, fallback)
	if port < 1 || port > 65535 {
		port = fallback
	}
	return strconv.Itoa(port)
}

// LogLevel returns the level named by LOG_LEVEL, defaulting to info.
func LogLevel() log.Level {
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DBPath returns the score database path. An empty LETTERFALL_DB disables
// persistence.
func DBPath() string {
	return GetEnv("LETTERFALL_DB", DefaultDBPath)
}

// Layout returns the initial keyboard layout from LETTERFALL_LAYOUT.
// An unknown name returns layout.Default together with the parse error.
func Layout() (layout.Layout, error) {
	name, ok := os.LookupEnv("LETTERFALL_LAYOUT")
	if !ok || name == "" {
		return layout.Default, nil
	}
	return layout.Parse(name)
}
