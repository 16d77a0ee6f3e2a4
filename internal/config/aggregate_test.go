package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/aggregate"
)

func clearAggregateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RESULT_BUCKET", "RESULT_PREFIX", "RESULT_DIR", "AWS_REGION",
		"AGGREGATE_CONCURRENCY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadAggregate_Defaults(t *testing.T) {
	clearAggregateEnv(t)

	cfg, err := LoadAggregate()
	require.NoError(t, err)

	assert.Empty(t, cfg.Bucket)
	assert.Empty(t, cfg.Dir)
	assert.Equal(t, "output/", cfg.Prefix)
	assert.Equal(t, aggregate.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Error(t, cfg.Validate())
}

func TestLoadAggregate_Overrides(t *testing.T) {
	clearAggregateEnv(t)
	t.Setenv("RESULT_BUCKET", "reserves")
	t.Setenv("RESULT_PREFIX", "runs/")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AGGREGATE_CONCURRENCY", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadAggregate()
	require.NoError(t, err)

	assert.Equal(t, "reserves", cfg.Bucket)
	assert.Equal(t, "runs/", cfg.Prefix)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAggregate_MalformedConcurrency(t *testing.T) {
	clearAggregateEnv(t)
	t.Setenv("AGGREGATE_CONCURRENCY", "lots")

	_, err := LoadAggregate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGGREGATE_CONCURRENCY")
}

func TestAggregateConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AggregateConfig
		wantErr bool
	}{
		{"bucket", AggregateConfig{Bucket: "b"}, false},
		{"dir", AggregateConfig{Dir: "/fsx/output"}, false},
		{"neither", AggregateConfig{}, true},
		{"both", AggregateConfig{Bucket: "b", Dir: "/fsx/output"}, true},
		{"negative concurrency", AggregateConfig{Dir: "d", Concurrency: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	client, err := NewS3Client(context.Background(), "us-east-1")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", client.Options().Region)
}
