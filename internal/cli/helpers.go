// Package cli implements the rassist command line commands.
package cli

import (
	"fmt"
	"os"

	"github.com/statlab-ide/rassist/internal/assist"
	"github.com/statlab-ide/rassist/internal/chunk"
	"github.com/statlab-ide/rassist/internal/config"
	"github.com/statlab-ide/rassist/internal/logger"
	"github.com/statlab-ide/rassist/internal/provider"
	"github.com/statlab-ide/rassist/internal/scope"
)

// loadConfig resolves the effective configuration: an explicit path, else the
// first supported config file in the current directory, else the built-in
// defaults. The resolved path is "" when defaults apply.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = config.FindConfig(cwd)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newRequester wires a requester from the configuration. content seeds the
// scope model; empty content means console use without one.
func newRequester(cfg *config.Config, content string, log *logger.Logger) (*assist.Requester, error) {
	if err := provider.ValidateEndpoint(cfg.Provider.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid provider endpoint: %w", err)
	}

	p := provider.NewHTTP(cfg.Provider.Endpoint, cfg.Provider.Timeout)
	weave := chunk.NewWeaveContext(cfg.Chunk.Engine)

	var scopes assist.ScopeModel
	if content != "" {
		scopes = scope.Parse(content)
	}

	return assist.NewRequester(p, weave, scopes, log), nil
}
