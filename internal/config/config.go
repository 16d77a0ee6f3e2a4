// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/simulation"
)

// Config holds the settings for a reserve estimation run
type Config struct {
	Trials        int
	ClaimInterval float64
	ClaimModel    string
	Seed          uint64
	SeedSet       bool // SIMULATION_SEED was provided
	Workers       int
	LogLevel      string
	LogPretty     bool
	HistoryDB     string // Empty disables run history
	ResultBucket  string // Empty disables S3 publishing
	ResultPrefix  string
	AWSRegion     string
	InputDir      string // Base directory for relative input paths
	OutputDir     string // Base directory for relative output paths
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromEnv() (*Config, error) {
	trials, err := getEnvAsInt("NUM_SIMULATIONS", simulation.DefaultTrials)
	if err != nil {
		return nil, err
	}

	interval, err := getEnvAsFloat("CLAIM_INTERVAL", simulation.DefaultClaimInterval)
	if err != nil {
		return nil, err
	}

	workers, err := getEnvAsInt("SIMULATION_WORKERS", 0)
	if err != nil {
		return nil, err
	}
	if workers == 0 {
		workers = DefaultWorkers()
	}

	pretty, err := getEnvAsBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Trials:        trials,
		ClaimInterval: interval,
		ClaimModel:    strings.ToLower(getEnv("CLAIM_COUNT_MODEL", simulation.ClaimModelExponential)),
		Workers:       workers,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPretty:     pretty,
		HistoryDB:     getEnv("HISTORY_DB", ""),
		ResultBucket:  getEnv("RESULT_BUCKET", ""),
		ResultPrefix:  getEnv("RESULT_PREFIX", "output/"),
		AWSRegion:     getEnv("AWS_REGION", ""),
		InputDir:      getEnv("INPUT_DIR", ""),
		OutputDir:     getEnv("OUTPUT_DIR", ""),
	}

	if value := os.Getenv("SIMULATION_SEED"); value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIMULATION_SEED %q: %w", value, err)
		}
		cfg.Seed = seed
		cfg.SeedSet = true
	}

	return cfg, nil
}

// Validate checks that the simulation settings are usable
func (c *Config) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("number of simulations must be positive, got %d", c.Trials)
	}
	if c.Workers < 0 {
		return fmt.Errorf("worker count must not be negative, got %d", c.Workers)
	}
	_, err := c.ClaimCountModel()
	return err
}

// ClaimCountModel builds the configured claim count model
func (c *Config) ClaimCountModel() (simulation.ClaimCountModel, error) {
	return simulation.NewClaimCountModel(c.ClaimModel, c.ClaimInterval)
}

// Entropy returns the randomness handle described by the seed settings
func (c *Config) Entropy() simulation.Entropy {
	if c.SeedSet {
		return simulation.NewSeededEntropy(c.Seed)
	}
	return simulation.NewEntropy()
}

// InputPath resolves a CLI input path against InputDir
func (c *Config) InputPath(path string) string {
	return resolve(c.InputDir, path)
}

// OutputPath resolves a CLI output path against OutputDir
func (c *Config) OutputPath(path string) string {
	return resolve(c.OutputDir, path)
}

func resolve(base, path string) string {
	if base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return intVal, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return floatVal, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return boolVal, nil
}
