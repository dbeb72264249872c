package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = "8000"
	DefaultSQLitePath = "polls.sqlite"
	DefaultIndexSize  = 5
)

type Config struct {
	Port        string
	DatabaseURL string
	SQLitePath  string
	AdminKey    string
	IndexSize   int
	Debug       bool
}

// Load reads settings from the environment. Values found in envFile are
// used for variables the environment does not already define.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Port:        valueOrDefault("PORT", DefaultPort),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:  valueOrDefault("SQLITE_PATH", DefaultSQLitePath),
		AdminKey:    strings.TrimSpace(os.Getenv("ADMIN_KEY")),
		IndexSize:   DefaultIndexSize,
	}

	if raw := strings.TrimSpace(os.Getenv("INDEX_SIZE")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid INDEX_SIZE: %w", err)
		}
		cfg.IndexSize = v
	}

	if raw := strings.TrimSpace(os.Getenv("DEBUG")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEBUG: %w", err)
		}
		cfg.Debug = v
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DatabaseURL == "" && c.SQLitePath == "" {
		return errors.New("either DATABASE_URL or SQLITE_PATH must be set")
	}
	if c.IndexSize < 0 {
		return errors.New("INDEX_SIZE must not be negative")
	}
	return nil
}

// GenerateAdminKey derives a random url-safe key for the admin endpoints.
func GenerateAdminKey(name string) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%b%b", []byte(name), b)

	hash := sha256.Sum256([]byte(key))
	return base64.URLEncoding.EncodeToString(hash[:]), nil
}

func valueOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
