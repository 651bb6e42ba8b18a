package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/statlab-ide/rassist/internal/assist"
	"github.com/statlab-ide/rassist/internal/logger"
)

// CompleteParams contains parameters for the Complete command
type CompleteParams struct {
	LogLevel   string
	ConfigPath string
	Token      string
	File       string // document to derive scope completions from; "-" reads stdin
	Position   int    // cursor offset in the document; negative means end of document
	Implicit   bool
	Output     io.Writer
}

// Complete runs a one-shot completion request and prints one candidate per
// line in "name {source}" form.
func Complete(params CompleteParams) error {
	out := params.Output
	if out == nil {
		out = os.Stdout
	}

	log := logger.New(params.LogLevel, os.Stderr)

	cfg, _, err := loadConfig(params.ConfigPath)
	if err != nil {
		return err
	}

	content, err := readDocument(params.File)
	if err != nil {
		return err
	}

	position := params.Position
	if position < 0 {
		position = len(content)
	}

	requester, err := newRequester(cfg, content, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Provider.Timeout)
	defer cancel()

	result, err := requester.Complete(ctx, assist.Request{
		Content:  content,
		Token:    params.Token,
		Position: position,
		Implicit: params.Implicit,
	})
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	for _, c := range result.Candidates {
		fmt.Fprintln(out, c.Display())
	}
	return nil
}

func readDocument(file string) (string, error) {
	switch file {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read document from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read document: %w", err)
		}
		return string(data), nil
	}
}
