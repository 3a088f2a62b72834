package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "namespace: test1\n"))
	require.NoError(t, err)

	assert.Equal(t, "test1", cfg.Namespace)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1000, cfg.Splitter.ChunkSize)
	assert.Equal(t, 200, cfg.Splitter.ChunkOverlap)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "chunks", cfg.Store.TableName)
	assert.Equal(t, 1536, cfg.Store.VectorDim)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedding.Host)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
namespace: docs
batch_size: 25
splitter:
  chunk_size: 512
  chunk_overlap: 64
store:
  backend: badger
  badger_path: /tmp/chunks
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.Namespace)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 512, cfg.Splitter.ChunkSize)
	assert.Equal(t, 64, cfg.Splitter.ChunkOverlap)
	assert.Equal(t, "badger", cfg.Store.Backend)
	assert.Equal(t, "/tmp/chunks", cfg.Store.BadgerPath)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "namespace: [unclosed"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INGESTKIT_NAMESPACE", "from-env")
	t.Setenv("INGESTKIT_BATCH_SIZE", "7")
	t.Setenv("INGESTKIT_STORE_BACKEND", "badger")

	cfg, err := Load(writeConfig(t, "namespace: from-file\nbatch_size: 50\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Namespace)
	assert.Equal(t, 7, cfg.BatchSize)
	assert.Equal(t, "badger", cfg.Store.Backend)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "namespace: ok\n"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Validate())
	})

	t.Run("missing namespace", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		errs := cfg.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "namespace", errs[0].Field)
	})

	t.Run("pgvector requires url", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "namespace: ok\nstore:\n  backend: pgvector\n"))
		require.NoError(t, err)
		errs := cfg.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "store.postgres_url", errs[0].Field)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "namespace: ok\nstore:\n  backend: redis\n"))
		require.NoError(t, err)
		errs := cfg.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "store.backend", errs[0].Field)
	})
}
