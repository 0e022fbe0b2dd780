package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadEnv.
const (
	EnvAPIKey    = "BINANCE_API_KEY"
	EnvSecretKey = "BINANCE_SECRET_KEY"
	EnvTestnet   = "BINANCE_TESTNET"
	EnvLogLevel  = "BINANCE_LOG_LEVEL"
)

// LoadConfigFile reads a YAML file on top of DefaultConfig and validates the result.
// Keys missing from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return config, nil
}

// LoadEnv loads the given dotenv files (".env" when none are given) into the
// process environment and applies the BINANCE_* variables to config.
// Missing dotenv files are not an error; variables already set in the
// environment take precedence over file values.
func LoadEnv(config *Config, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	key, secret := os.Getenv(EnvAPIKey), os.Getenv(EnvSecretKey)
	if key != "" || secret != "" {
		config.Credentials = &Credentials{APIKey: key, SecretKey: secret}
	}

	if v := os.Getenv(EnvTestnet); v != "" {
		testnet, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTestnet, err)
		}
		config.Testnet = testnet
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}

	return nil
}
