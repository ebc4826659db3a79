package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Indexer.ThreadCount)
	assert.Len(t, cfg.Indexer.Documents, 4)
	assert.Equal(t, "index.complete", cfg.Kafka.Topics.IndexComplete)
	assert.True(t, cfg.Report.Log)
	assert.False(t, cfg.Report.Kafka)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexer.yaml")
	yamlDoc := `
indexer:
  documents: ["a.txt", "b.txt"]
  threadCount: 4
report:
  redis: true
  timeout: 2s
redis:
  statusTTL: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))
	t.Setenv("II_THREAD_COUNT", "8")
	t.Setenv("II_REDIS_ADDR", "redis:6380")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt"}, cfg.Indexer.Documents)
	assert.Equal(t, 8, cfg.Indexer.ThreadCount)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Second, cfg.Report.Timeout)
	assert.Equal(t, time.Hour, cfg.Redis.StatusTTL)
	assert.Equal(t, 1, cfg.Indexer.MaxConcurrentDocuments)
}

func TestLoadRejectsZeroThreads(t *testing.T) {
	t.Setenv("II_THREAD_COUNT", "0")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threadCount")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t,
		"host=localhost port=5432 user=invindex password=localdev dbname=invindex sslmode=disable",
		cfg.Postgres.DSN(),
	)
}
