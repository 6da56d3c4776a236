// Package config resolves runtime settings from command-line flags, the
// environment and an optional .env file, in that order of precedence.
package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

const (
	DefaultPort          = 5000
	DefaultDatabasePath  = "data/reeltalk.db"
	DefaultSessionDir    = "data/sessions"
	DefaultBackupDir     = "data/backups"
	DefaultSessionMaxAge = 86400 * 7

	minSecretLen = 32
)

var ErrMissingSecret = errors.New("SESSION_SECRET required (at least 32 bytes)")

type Config struct {
	Port          int
	DatabasePath  string
	SessionDir    string
	BackupDir     string
	SessionSecret string
	SessionMaxAge int
	LogLevel      string
	Debug         bool

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// Parse reads flags from args and fills anything left unset from the
// environment, loading .env first when present.
func Parse(args []string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	flags := flag.NewFlagSet("reeltalk", flag.ContinueOnError)
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabasePath, "db", "", "SQLite database file")
	flags.StringVar(&cfg.SessionDir, "sessions", "", "Session store directory")
	flags.StringVar(&cfg.BackupDir, "backups", "", "Backup directory")
	flags.StringVar(&cfg.SessionSecret, "secret", "", "Session signing secret (prefer env)")
	flags.IntVar(&cfg.SessionMaxAge, "max-age", 0, "Session lifetime in seconds")
	flags.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, notice, warn, error)")
	flags.BoolVar(&cfg.Debug, "debug", false, "Enable debug mode")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = flags.Args()

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.SessionMaxAge == 0 {
		if s := os.Getenv("SESSION_MAX_AGE"); s != "" {
			maxAge, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_MAX_AGE env variable")
			}
			cfg.SessionMaxAge = maxAge
		} else {
			cfg.SessionMaxAge = DefaultSessionMaxAge
		}
	}

	cfg.DatabasePath = firstNonEmpty(cfg.DatabasePath, os.Getenv("REELTALK_DB"), DefaultDatabasePath)
	cfg.SessionDir = firstNonEmpty(cfg.SessionDir, os.Getenv("REELTALK_SESSION_DIR"), DefaultSessionDir)
	cfg.BackupDir = firstNonEmpty(cfg.BackupDir, os.Getenv("REELTALK_BACKUP_DIR"), DefaultBackupDir)
	cfg.SessionSecret = firstNonEmpty(cfg.SessionSecret, os.Getenv("SESSION_SECRET"))
	cfg.LogLevel = firstNonEmpty(cfg.LogLevel, os.Getenv("REELTALK_LOG_LEVEL"), "info")
	if !cfg.Debug {
		cfg.Debug = os.Getenv("REELTALK_DEBUG") == "true"
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// SessionKey returns the HMAC key used to sign session cookies. Debug runs
// without a configured secret get a random key, so sessions do not survive
// a restart.
func (c Config) SessionKey() ([]byte, error) {
	if len(c.SessionSecret) >= minSecretLen {
		return []byte(c.SessionSecret), nil
	}
	if c.SessionSecret == "" && c.Debug {
		key := securecookie.GenerateRandomKey(minSecretLen)
		if key == nil {
			return nil, errors.New("failed to generate session key")
		}
		return []byte(hex.EncodeToString(key)), nil
	}
	return nil, ErrMissingSecret
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
