package app

import (
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DatabasePath  string
	LogLevel      string
	LogFile       string
	SessionTTL    time.Duration
	SessionSecret string
	PinHashCost   int
}

// NewConfigFromFlags parses the command line and then applies environment
// overrides. Defaults reproduce the plain `atm` invocation.
func NewConfigFromFlags(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("atm", flag.ContinueOnError)
	fs.StringVar(&cfg.DatabasePath, "d", "atm.db", "SQLite database file (env: DATABASE_PATH)")
	fs.StringVar(&cfg.LogLevel, "l", "info", "Log level (debug|info|warn|error) (env: LOG_LEVEL)")
	fs.StringVar(&cfg.LogFile, "log-file", "atm.log", "Log destination, a file path or stderr (env: LOG_FILE)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 15*time.Minute, "Lifetime of a login session (env: SESSION_TTL)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing key, random when empty (env: SESSION_SECRET)")
	fs.IntVar(&cfg.PinHashCost, "pin-cost", bcrypt.DefaultCost, "bcrypt cost for PIN digests (env: PIN_HASH_COST)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvVars(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvVars() error {
	if envPath := os.Getenv("DATABASE_PATH"); envPath != "" {
		c.DatabasePath = envPath
	}
	if envLogLevel := os.Getenv("LOG_LEVEL"); envLogLevel != "" {
		c.LogLevel = envLogLevel
	}
	if envLogFile := os.Getenv("LOG_FILE"); envLogFile != "" {
		c.LogFile = envLogFile
	}
	if envSecret := os.Getenv("SESSION_SECRET"); envSecret != "" {
		c.SessionSecret = envSecret
	}
	if envTTL := os.Getenv("SESSION_TTL"); envTTL != "" {
		ttl, err := time.ParseDuration(envTTL)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		c.SessionTTL = ttl
	}
	if envCost := os.Getenv("PIN_HASH_COST"); envCost != "" {
		cost, err := strconv.Atoi(envCost)
		if err != nil {
			return fmt.Errorf("invalid PIN_HASH_COST: %w", err)
		}
		c.PinHashCost = cost
	}
	return nil
}

func (c *Config) validate() error {
	if c.DatabasePath == "" {
		return errors.New("database path is required (use -d flag or DATABASE_PATH env)")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.PinHashCost < bcrypt.MinCost || c.PinHashCost > bcrypt.MaxCost {
		return fmt.Errorf("pin hash cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// SessionKey returns the configured secret or a fresh random key.
func (c *Config) SessionKey() ([]byte, error) {
	if c.SessionSecret != "" {
		return []byte(c.SessionSecret), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	return key, nil
}
