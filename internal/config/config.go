// ABOUTME: Centralized configuration for the dedup engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the dedup engine
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Similarity settings
	SimilarityThreshold float64
	LookbackDays        int
	VectorDimension     int

	// Storage settings
	DataDir string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel: getEnv("DEDUP_EMBEDDING_MODEL", "text-embedding-3-small"),
		DataDir:        getEnv("DEDUP_DATA_DIR", defaultDataDir()),
	}

	// A typo in a numeric variable is an operator error, not a signal to
	// fall back to defaults
	var err error
	if cfg.Timeout, err = getEnvDuration("OPENAI_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getEnvInt("OPENAI_MAX_RETRIES", 3); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.SimilarityThreshold, err = getEnvFloat("SIMILARITY_THRESHOLD", 0.85); err != nil {
		return nil, err
	}
	if cfg.LookbackDays, err = getEnvInt("SIMILARITY_LOOKBACK_DAYS", 3); err != nil {
		return nil, err
	}
	if cfg.VectorDimension, err = getEnvInt("VECTOR_DIMENSION", 1536); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate fails fast on configuration the engine cannot silently default.
func (c *Config) Validate() error {
	if c.EmbeddingModel == "" {
		return fmt.Errorf("DEDUP_EMBEDDING_MODEL must not be empty")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in (0, 1], got %f", c.SimilarityThreshold)
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("SIMILARITY_LOOKBACK_DAYS must be >= 0, got %d", c.LookbackDays)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be > 0, got %d", c.VectorDimension)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// DBPath returns the SQLite database file path
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "dedup.db")
}

// defaultDataDir follows the XDG spec for local data
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/dedup"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "dedup")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return i, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
