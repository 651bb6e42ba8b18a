package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlab-ide/rassist/internal/rerrors"
)

func TestHTTP_Completions(t *testing.T) {
	var gotQuery Query
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotQuery))

		resp := Completions{
			Token:     gotQuery.Token,
			Names:     []string{"read.csv", "read.table"},
			Packages:  []string{"utils", "utils"},
			Cacheable: true,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewHTTP(server.URL, time.Second)
	completions, err := p.Completions(context.Background(), Query{
		Content: "read",
		Token:   "read",
	})
	require.NoError(t, err)

	assert.Equal(t, "read", gotQuery.Token)
	assert.Equal(t, "read", completions.Token)
	assert.Equal(t, []string{"read.csv", "read.table"}, completions.Names)
	assert.True(t, completions.Cacheable)
	assert.Equal(t, "utils", completions.Package(0))
}

func TestHTTP_Completions_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewHTTP(server.URL, time.Second)
	_, err := p.Completions(context.Background(), Query{Token: "x"})
	require.Error(t, err)

	var provErr *rerrors.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "PROVIDER_ERROR", provErr.Code())
	assert.Equal(t, server.URL, provErr.Endpoint)
}

func TestHTTP_Completions_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	p := NewHTTP(server.URL, time.Second)
	_, err := p.Completions(context.Background(), Query{Token: "x"})

	var provErr *rerrors.ProviderError
	require.True(t, errors.As(err, &provErr))
}

func TestHTTP_Completions_Unreachable(t *testing.T) {
	p := NewHTTP("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := p.Completions(context.Background(), Query{Token: "x"})

	var provErr *rerrors.ProviderError
	require.True(t, errors.As(err, &provErr))
}

func TestCompletions_PackageOutOfRange(t *testing.T) {
	c := &Completions{Names: []string{"a", "b"}, Packages: []string{"pkg"}}
	assert.Equal(t, "pkg", c.Package(0))
	assert.Equal(t, "", c.Package(1))
	assert.Equal(t, "", c.Package(-1))
}

func TestValidateEndpoint(t *testing.T) {
	assert.NoError(t, ValidateEndpoint("http://127.0.0.1:6311/completions"))
	assert.NoError(t, ValidateEndpoint("https://session.example.com/assist"))
	assert.Error(t, ValidateEndpoint("ftp://example.com"))
	assert.Error(t, ValidateEndpoint("http://"))
}
