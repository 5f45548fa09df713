package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractrag/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.Chunking.ChunkSize)
	assert.Equal(t, 100, cfg.Chunking.ChunkOverlap)
	assert.Equal(t, "hash", cfg.Embedding.Type)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, "extractive", cfg.QA.Type)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 0.3, cfg.Retrieval.SimilarityThreshold)
	assert.NotEmpty(t, cfg.Storage.IndexPath)
	assert.NotEmpty(t, cfg.Storage.MetadataPath)
}

func TestLoadAppliesFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
data_path: /tmp/contracts
chunking:
  chunk_size: 256
  chunk_overlap: 32
embedding:
  type: openai
  model: text-embedding-3-large
retrieval:
  top_k: 5
  similarity_threshold: 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/contracts", cfg.DataPath)
	assert.Equal(t, 256, cfg.Chunking.ChunkSize)
	assert.Equal(t, 32, cfg.Chunking.ChunkOverlap)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedding.APIKeyEnv)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 0.25, cfg.Retrieval.SimilarityThreshold)
}

func TestLoadRejectsOverlapNotSmallerThanSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
chunking:
  chunk_size: 100
  chunk_overlap: 100
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadKeepsExplicitOverlapWhenSizeDefaulted(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunking:\n  chunk_overlap: 200\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Chunking.ChunkSize)
	assert.Equal(t, 200, cfg.Chunking.ChunkOverlap)

	path = filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunking:\n  chunk_overlap: 600\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunking: [not: a map"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"negative overlap", func(c *AppConfig) { c.Chunking.ChunkOverlap = -1 }},
		{"zero top_k", func(c *AppConfig) { c.Retrieval.TopK = -3 }},
		{"hash without dimension", func(c *AppConfig) { c.Embedding.Dimension = -1 }},
		{"missing index path", func(c *AppConfig) { c.Storage.IndexPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidConfig)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.DataPath = "somewhere/else"
	cfg.Retrieval.TopK = 7
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
