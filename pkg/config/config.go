// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	Port        int
	ReadTimeout time.Duration
	// WriteTimeout stays 0 (disabled): analysis streams are long-lived and
	// a fixed write deadline would cut them off mid-run
	WriteTimeout time.Duration

	// Schema resolution
	SampleRows int
	AliasFile  string

	// Demo data generation
	DemoTransactions int

	// Optional resolution provenance store
	Audit *AuditConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8000),
		ReadTimeout:      time.Duration(getEnvAsInt("READ_TIMEOUT_SECONDS", 60)) * time.Second,
		WriteTimeout:     0,
		SampleRows:       getEnvAsInt("SAMPLE_ROWS", 100),
		AliasFile:        getEnv("ALIAS_FILE", ""),
		DemoTransactions: getEnvAsInt("DEMO_TRANSACTIONS", 1500),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	// Audit store is optional; absent configuration disables it
	auditCfg, err := LoadAuditConfig()
	if err != nil {
		return nil, errors.New("failed to load audit configuration: " + err.Error())
	}
	cfg.Audit = auditCfg

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("port must be in (0, 65535]")
	}

	if c.SampleRows <= 0 {
		return errors.New("sample rows must be positive")
	}

	if c.DemoTransactions <= 0 {
		return errors.New("demo transaction count must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
