// Package config loads process configuration from dotenv files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read when no explicit path is configured.
const DefaultEnvFile = ".env"

// EnvFileVar names the variable that overrides the dotenv file location.
const EnvFileVar = "CONTACTS_ENV_FILE"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv populates unset environment variables from the dotenv file named
// by CONTACTS_ENV_FILE, falling back to DefaultEnvFile. Variables already
// present in the environment are never overwritten. A missing file is not an
// error.
func LoadDotEnv() error {
	path := strings.TrimSpace(os.Getenv(EnvFileVar))
	if path == "" {
		path = DefaultEnvFile
	}
	return LoadDotEnvFile(path)
}

// LoadDotEnvFile loads one dotenv file without overriding existing variables.
func LoadDotEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load dotenv %s: %w", path, err)
	}
	return nil
}
