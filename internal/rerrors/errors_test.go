package rerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewProviderError("http://localhost:8787", "completion request failed", cause)

	assert.Equal(t, "PROVIDER_ERROR", err.Code())
	assert.Equal(t, "http://localhost:8787", err.Endpoint)
	assert.Contains(t, err.Error(), "completion request failed")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("/etc/rassist.yml", "failed to load config", nil)

	assert.Equal(t, "CONFIG_ERROR", err.Code())
	assert.Equal(t, "/etc/rassist.yml", err.Path)
	assert.Equal(t, "failed to load config", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("provider/endpoint", "URL must have a host", nil)

	assert.Equal(t, "VALIDATION_ERROR", err.Code())
	assert.Equal(t, "provider/endpoint", err.Field)
}

func TestChunkError(t *testing.T) {
	err := NewChunkError("knitr", "failed to parse chunk option registry", nil)

	assert.Equal(t, "CHUNK_ERROR", err.Code())
	assert.Equal(t, "knitr", err.Engine)
}

func TestErrorsAs(t *testing.T) {
	var err error = NewProviderError("http://x", "boom", nil)

	var ae AssistError
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, "PROVIDER_ERROR", ae.Code())

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
}
