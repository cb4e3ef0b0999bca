// Package config loads cstep's ambient configuration from a .env file via
// github.com/joho/godotenv, grounded on cmd/flowa/main.go's loadEnvFile
// (here actually wired to the library the teacher's go.mod names but never
// imports — see DESIGN.md).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the recognized CSTEP_* environment keys (spec SPEC_FULL §1).
type Config struct {
	InputDir             string
	OutputFile           string
	WritePassphraseHash  string
	JWTSecret            string
	ReportTo             string
}

// Load reads a .env file if one exists at envPath (a missing file is
// skipped before godotenv.Load is called, the same way the teacher's
// loader treats it as optional) and applies defaults for any unset key.
func Load(envPath string) (*Config, error) {
	if envPath == "" {
		envPath = ".env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envPath, err)
		}
	}

	cfg := &Config{
		InputDir:            getenv("CSTEP_INPUT_DIR", "inputs"),
		OutputFile:          getenv("CSTEP_OUTPUT_FILE", "output.c"),
		WritePassphraseHash: os.Getenv("CSTEP_WRITE_PASSPHRASE_HASH"),
		JWTSecret:           os.Getenv("CSTEP_JWT_SECRET"),
		ReportTo:            os.Getenv("CSTEP_REPORT_TO"),
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// HashPassphrase produces the value an operator stores as
// CSTEP_WRITE_PASSPHRASE_HASH.
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AllowsOverwrite reports whether the existing output file (OutputFile)
// may be overwritten: always true
// when no passphrase is configured, otherwise true only when passphrase
// verifies against the configured hash (C8's overwrite guard).
func (c *Config) AllowsOverwrite(passphrase string) bool {
	if c.WritePassphraseHash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(c.WritePassphraseHash), []byte(passphrase)) == nil
}
