// pkg/config/audit.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// AuditConfig holds connection parameters for the optional PostgreSQL
// provenance store. The store only records schema-resolution decisions;
// ledger rows are never persisted.
type AuditConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Statement timeout
	StatementTimeout time.Duration
}

// LoadAuditConfig loads audit store configuration from environment
// variables. Returns (nil, nil) when AUDIT_PG_HOST is unset, which
// disables auditing entirely.
func LoadAuditConfig() (*AuditConfig, error) {
	host := os.Getenv("AUDIT_PG_HOST")
	if host == "" {
		return nil, nil
	}

	user := os.Getenv("AUDIT_PG_USER")
	if user == "" {
		return nil, errors.New("AUDIT_PG_USER environment variable is required when auditing is enabled")
	}

	password := os.Getenv("AUDIT_PG_PASSWORD")
	if password == "" {
		return nil, errors.New("AUDIT_PG_PASSWORD environment variable is required when auditing is enabled")
	}

	database := os.Getenv("AUDIT_PG_DB")
	if database == "" {
		return nil, errors.New("AUDIT_PG_DB environment variable is required when auditing is enabled")
	}

	cfg := &AuditConfig{
		Host:     host,
		Port:     getEnvAsInt("AUDIT_PG_PORT", 5432),
		User:     user,
		Password: password,
		Database: database,
		SSLMode:  getEnv("AUDIT_PG_SSLMODE", "disable"),

		MaxOpenConns:     getEnvAsInt("AUDIT_PG_MAX_OPEN_CONNS", 10),
		MaxIdleConns:     getEnvAsInt("AUDIT_PG_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:  time.Duration(getEnvAsInt("AUDIT_PG_CONN_MAX_LIFETIME_SECONDS", 1800)) * time.Second,
		ConnMaxIdleTime:  time.Duration(getEnvAsInt("AUDIT_PG_CONN_MAX_IDLE_TIME_SECONDS", 600)) * time.Second,
		StatementTimeout: time.Duration(getEnvAsInt("AUDIT_PG_STATEMENT_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	return cfg, nil
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *AuditConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
