package cli

import (
	"context"
	"fmt"

	"github.com/statlab-ide/rassist/internal/status"
)

// StatusParams contains parameters for the Status command
type StatusParams struct {
	ConfigPath string
	Version    string
}

// Status shows the current rassist configuration and provider state
func Status(params StatusParams) error {
	cfg, path, err := loadConfig(params.ConfigPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Provider.Timeout)
	defer cancel()

	data := status.Collect(ctx, cfg, path, params.Version, nil)
	fmt.Println(status.Render(data))
	return nil
}
