package toml_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/rag"
	ragtoml "github.com/fwojciec/rag/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
base_url = "https://rag.example.com/api"
top_k = 10
bm25_weight = 0.5
include_content = false
log_level = "debug"
timeout = "30s"
`)

	cfg, err := ragtoml.Load(path)

	require.NoError(t, err)
	assert.Equal(t, rag.Config{
		BaseURL:        "https://rag.example.com/api",
		TopK:           10,
		BM25Weight:     0.5,
		IncludeContent: false,
		LogLevel:       "debug",
		Timeout:        30 * time.Second,
	}, cfg)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ragtoml.Load(writeConfig(t, `top_k = 3`))

	require.NoError(t, err)
	want := rag.DefaultConfig()
	want.TopK = 3
	assert.Equal(t, want, cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ragtoml.Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := ragtoml.Load(writeConfig(t, "top_k = 3\nmodel = \"x\"\n"))

	assert.ErrorIs(t, err, rag.ErrValidation)
	assert.Contains(t, err.Error(), "model")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	_, err := ragtoml.Load(writeConfig(t, `bm25_weight = 1.5`))
	assert.ErrorIs(t, err, rag.ErrValidation)
}

func TestLoad_Syntax(t *testing.T) {
	t.Parallel()

	_, err := ragtoml.Load(writeConfig(t, `top_k = `))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := rag.DefaultConfig()
	cfg.BaseURL = "http://10.0.0.5:9000/api"
	cfg.TopK = 8
	cfg.Timeout = 2 * time.Minute

	require.NoError(t, ragtoml.Save(path, cfg))

	got, err := ragtoml.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
