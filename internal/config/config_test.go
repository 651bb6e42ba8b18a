package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8787/rpc/get_completions", cfg.Provider.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "knitr", cfg.Chunk.Engine)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4194304, cfg.Server.MaxRequestBytes)

	assert.Empty(t, cfg.Check())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, ".rassist.yml", `
provider:
  endpoint: http://localhost:9999/complete
  timeout: 5s
chunk:
  engine: sweave
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/complete", cfg.Provider.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "sweave", cfg.Chunk.Engine)
	// untouched keys keep their defaults
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, ".rassist.json", `{"log": {"level": "debug"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, ".rassist.toml", "[log]\nlevel = \"error\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.ini", "level=debug")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", FindConfig(dir))

	path := filepath.Join(dir, ".rassist.yml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))
	assert.Equal(t, path, FindConfig(dir))
}

func TestValidate_Valid(t *testing.T) {
	path := writeConfig(t, ".rassist.yml", `
provider:
  endpoint: http://localhost:8787/rpc/get_completions
`)

	result, err := Validate(path)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_BadValues(t *testing.T) {
	path := writeConfig(t, ".rassist.yml", `
provider:
  endpoint: "not a url"
  timeout: 0s
chunk:
  engine: pandoc
log:
  level: loud
`)

	result, err := Validate(path)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "provider/endpoint")
	assert.Contains(t, fields, "provider/timeout")
	assert.Contains(t, fields, "chunk/engine")
	assert.Contains(t, fields, "log/level")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidateWithSchema_Valid(t *testing.T) {
	content := []byte(`
provider:
  endpoint: http://localhost:8787/rpc/get_completions
  timeout: 3s
log:
  level: debug
`)

	result, err := ValidateWithSchema(".rassist.yml", content)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateWithSchema_UnknownKey(t *testing.T) {
	content := []byte("providers:\n  endpoint: http://x\n")

	result, err := ValidateWithSchema(".rassist.yml", content)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateWithSchema_BadEnum(t *testing.T) {
	content := []byte(`{"chunk": {"engine": "pandoc"}}`)

	result, err := ValidateWithSchema("cfg.json", content)
	require.NoError(t, err)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Field, "engine")
}

func TestValidateWithSchema_SyntaxError(t *testing.T) {
	result, err := ValidateWithSchema(".rassist.yml", []byte(":\n  - ["))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "syntax", result.Errors[0].Field)
}
