package config

import (
	"fmt"
	"os"

	"github.com/statlab-ide/rassist/internal/provider"
)

// ValidationIssue describes one problem found in a configuration
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationIssue
}

var supportedEngines = map[string]bool{
	"knitr":  true,
	"sweave": true,
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate validates a config file: parse, then semantic checks on the
// resulting configuration.
func Validate(path string) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationIssue{},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg, err := Load(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationIssue{
			Field:   "syntax",
			Message: fmt.Sprintf("Failed to parse config: %v", err),
		})
		return result, nil
	}

	for _, issue := range cfg.Check() {
		result.Valid = false
		result.Errors = append(result.Errors, issue)
	}

	return result, nil
}

// Check runs the semantic checks on an already loaded configuration
func (c *Config) Check() []ValidationIssue {
	var issues []ValidationIssue

	if err := provider.ValidateEndpoint(c.Provider.Endpoint); err != nil {
		issues = append(issues, ValidationIssue{
			Field:   "provider/endpoint",
			Message: err.Error(),
		})
	}

	if c.Provider.Timeout <= 0 {
		issues = append(issues, ValidationIssue{
			Field:   "provider/timeout",
			Message: "Timeout must be positive",
		})
	}

	if !supportedEngines[c.Chunk.Engine] {
		issues = append(issues, ValidationIssue{
			Field:   "chunk/engine",
			Message: fmt.Sprintf("Unknown weave engine: %s", c.Chunk.Engine),
		})
	}

	if !logLevels[c.Log.Level] {
		issues = append(issues, ValidationIssue{
			Field:   "log/level",
			Message: fmt.Sprintf("Unknown log level: %s", c.Log.Level),
		})
	}

	if c.Server.MaxRequestBytes <= 0 {
		issues = append(issues, ValidationIssue{
			Field:   "server/max_request_bytes",
			Message: "Request size limit must be positive",
		})
	}

	return issues
}
