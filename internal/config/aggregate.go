package config

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/aggregate"
)

// AggregateConfig holds the settings for summing reserve files
type AggregateConfig struct {
	Bucket      string // S3 bucket, mutually exclusive with Dir
	Prefix      string
	Dir         string // Local directory of reserve files
	Region      string
	Concurrency int
	LogLevel    string
}

// LoadAggregate reads aggregation settings from environment variables.
// The source is not validated here since flags usually supply it.
func LoadAggregate() (*AggregateConfig, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	concurrency, err := getEnvAsInt("AGGREGATE_CONCURRENCY", aggregate.DefaultConcurrency)
	if err != nil {
		return nil, err
	}

	return &AggregateConfig{
		Bucket:      getEnv("RESULT_BUCKET", ""),
		Prefix:      getEnv("RESULT_PREFIX", "output/"),
		Dir:         getEnv("RESULT_DIR", ""),
		Region:      getEnv("AWS_REGION", ""),
		Concurrency: concurrency,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Validate checks that exactly one source is configured
func (c *AggregateConfig) Validate() error {
	if (c.Bucket == "") == (c.Dir == "") {
		return fmt.Errorf("exactly one of a bucket or a directory is required")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}
