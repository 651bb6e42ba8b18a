package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/statlab-ide/rassist/internal/logger"
	"github.com/statlab-ide/rassist/internal/server"
)

// ServeParams contains parameters for the Serve command
type ServeParams struct {
	LogLevel   string
	ConfigPath string
}

// Serve runs the msgpack completion server on stdin/stdout until the input
// stream closes or the process is signalled.
func Serve(params ServeParams) error {
	log := logger.New(params.LogLevel, os.Stderr)

	cfg, path, err := loadConfig(params.ConfigPath)
	if err != nil {
		return err
	}
	log.Info().Str("config", path).Str("endpoint", cfg.Provider.Endpoint).Msg("Starting completion server")

	requester, err := newRequester(cfg, "", log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(requester, os.Stdin, os.Stdout, cfg.Server.MaxRequestBytes, log)
	return s.Serve(ctx)
}
