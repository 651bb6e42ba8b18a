// Package main is the entry point for the rassist CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	rcli "github.com/statlab-ide/rassist/internal/cli"
	"github.com/statlab-ide/rassist/pkg/version"
)

func main() {
	app := &cli.Command{
		Name:                  "rassist",
		Usage:                 "Completion cache and narrowing engine for R editing sessions",
		Version:               version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("RASSIST_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a rassist config file",
				Sources: cli.EnvVars("RASSIST_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "complete",
				Usage:     "Resolve completions for a token",
				ArgsUsage: "<token>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "R document to derive scope completions from ('-' for stdin)",
					},
					&cli.IntFlag{
						Name:  "position",
						Value: -1,
						Usage: "Cursor offset in the document (defaults to end of document)",
					},
					&cli.BoolFlag{
						Name:  "implicit",
						Usage: "Treat the request as automatically triggered (empty results are suppressed)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return fmt.Errorf("token required")
					}

					return rcli.Complete(rcli.CompleteParams{
						LogLevel:   cmd.String("log-level"),
						ConfigPath: cmd.String("config"),
						Token:      cmd.Args().Get(0),
						File:       cmd.String("file"),
						Position:   int(cmd.Int("position")),
						Implicit:   cmd.Bool("implicit"),
					})
				},
			},
			{
				Name:  "serve",
				Usage: "Run the msgpack completion server on stdin/stdout",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return rcli.Serve(rcli.ServeParams{
						LogLevel:   cmd.String("log-level"),
						ConfigPath: cmd.String("config"),
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show current rassist configuration and provider state",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return rcli.Status(rcli.StatusParams{
						ConfigPath: cmd.String("config"),
						Version:    version.Version,
					})
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a rassist configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					configPath := cmd.String("config")
					if cmd.Args().Len() > 0 {
						configPath = cmd.Args().Get(0)
					}
					return rcli.Validate(configPath)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for rassist configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().Get(0)
					}
					return rcli.Schema(outputPath)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
