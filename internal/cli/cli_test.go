package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlab-ide/rassist/internal/provider"
)

func writeTempConfig(t *testing.T, endpoint string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".rassist.yml")
	content := fmt.Sprintf("provider:\n  endpoint: %s\n", endpoint)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func completionServer(t *testing.T, resp provider.Completions) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete_PrintsCandidates(t *testing.T) {
	srv := completionServer(t, provider.Completions{
		Token:     "pri",
		Names:     []string{"print", "print.default"},
		Packages:  []string{"base", "base"},
		Cacheable: true,
	})

	var out bytes.Buffer
	err := Complete(CompleteParams{
		LogLevel:   "error",
		ConfigPath: writeTempConfig(t, srv.URL),
		Token:      "pri",
		Position:   -1,
		Output:     &out,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "print {base}")
	assert.Contains(t, out.String(), "print.default {base}")
}

func TestComplete_ImplicitEmptyPrintsNothing(t *testing.T) {
	srv := completionServer(t, provider.Completions{Token: "zz", Cacheable: true})

	var out bytes.Buffer
	err := Complete(CompleteParams{
		LogLevel:   "error",
		ConfigPath: writeTempConfig(t, srv.URL),
		Token:      "zz",
		Position:   -1,
		Implicit:   true,
		Output:     &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "", out.String())
}

func TestComplete_DocumentScope(t *testing.T) {
	srv := completionServer(t, provider.Completions{Token: "my", Cacheable: true})

	doc := filepath.Join(t.TempDir(), "analysis.R")
	require.NoError(t, os.WriteFile(doc, []byte("mydata <- read.csv(\"x.csv\")\n"), 0o644))

	var out bytes.Buffer
	err := Complete(CompleteParams{
		LogLevel:   "error",
		ConfigPath: writeTempConfig(t, srv.URL),
		Token:      "my",
		File:       doc,
		Position:   -1,
		Output:     &out,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "mydata <variable>")
}

func TestComplete_BadEndpoint(t *testing.T) {
	err := Complete(CompleteParams{
		LogLevel:   "error",
		ConfigPath: writeTempConfig(t, "not-a-url"),
		Token:      "x",
		Position:   -1,
		Output:     &bytes.Buffer{},
	})
	assert.Error(t, err)
}

func TestValidate_MissingFile(t *testing.T) {
	err := Validate(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestValidate_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rassist.yml")
	require.NoError(t, os.WriteFile(path, []byte("chunk:\n  engine: pandoc\n"), 0o644))

	err := Validate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_ValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rassist.yml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	assert.NoError(t, Validate(path))
}

func TestSchema_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, Schema(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Contains(t, parsed, "properties")
}
