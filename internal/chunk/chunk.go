// Package chunk completes options inside documentation chunk headers, the
// secondary completion domain next to R code. It recognizes Sweave
// (<<opts>>=) and R Markdown (```{r opts}) headers and completes option
// names and enumerated option values from a per-engine registry.
//
// Chunk completions are never cacheable: unlike code completions they are
// not guaranteed to narrow as the user types (TRUE/FALSE in particular).
package chunk

import (
	"context"
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/statlab-ide/rassist/internal/rerrors"
)

//go:embed options.yml
var builtinOptions []byte

// Option is a single chunk option an engine understands
type Option struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"` // logical, numeric or character
	Values []string `yaml:"values,omitempty"`
}

type registry struct {
	Engines map[string][]Option `yaml:"engines"`
}

// Options holds the option tables for all known weave engines
type Options struct {
	engines map[string][]Option
}

// Result is a chunk-option completion: the token being completed and the
// candidate texts that extend it.
type Result struct {
	Token string
	Names []string
}

// Load parses the embedded option registry
func Load() (*Options, error) {
	var reg registry
	if err := yaml.Unmarshal(builtinOptions, &reg); err != nil {
		return nil, rerrors.NewChunkError("", "failed to parse chunk option registry", err)
	}
	return &Options{engines: reg.Engines}, nil
}

// ForEngine returns the option table for a weave engine, nil when unknown
func (o *Options) ForEngine(engine string) []Option {
	return o.engines[strings.ToLower(engine)]
}

// Complete completes the chunk option under the cursor. The region between
// optionsStart and cursorPos is split at commas; the trailing segment is
// either an option name being typed (completed as "name=") or, after an "=",
// a value completed from the option's enumerated values. Logical options
// complete to TRUE and FALSE.
func (o *Options) Complete(line string, optionsStart, cursorPos int, engine string) Result {
	if optionsStart < 0 || optionsStart > len(line) {
		return Result{}
	}
	if cursorPos < optionsStart {
		cursorPos = optionsStart
	}
	if cursorPos > len(line) {
		cursorPos = len(line)
	}

	region := line[optionsStart:cursorPos]
	if i := strings.LastIndex(region, ","); i >= 0 {
		region = region[i+1:]
	}
	region = strings.TrimLeft(region, " \t")

	opts := o.ForEngine(engine)

	if eq := strings.Index(region, "="); eq >= 0 {
		name := strings.TrimSpace(region[:eq])
		value := strings.TrimLeft(region[eq+1:], " \t")
		return Result{Token: value, Names: valueCandidates(opts, name, value)}
	}

	var names []string
	for _, opt := range opts {
		if strings.HasPrefix(opt.Name, region) {
			names = append(names, opt.Name+"=")
		}
	}
	return Result{Token: region, Names: names}
}

func valueCandidates(opts []Option, name, prefix string) []string {
	for _, opt := range opts {
		if opt.Name != name {
			continue
		}

		values := opt.Values
		if opt.Type == "logical" {
			values = []string{"TRUE", "FALSE"}
		}

		var names []string
		for _, v := range values {
			if strings.HasPrefix(v, prefix) {
				names = append(names, v)
			}
		}
		return names
	}
	return nil
}

// WeaveContext resolves whether a cursor position sits in a chunk options
// region and supplies the option tables for the active weave engine.
type WeaveContext struct {
	engine string
	opts   *Options
}

// NewWeaveContext creates a context for the given weave engine (knitr, sweave)
func NewWeaveContext(engine string) *WeaveContext {
	return &WeaveContext{engine: engine}
}

// OptionsStart returns the offset where chunk options begin on line, or -1
// when the cursor is not inside a chunk options region.
func (w *WeaveContext) OptionsStart(line string, cursorPos int) int {
	if cursorPos > len(line) {
		cursorPos = len(line)
	}

	// Sweave header: <<opts>>=
	if strings.HasPrefix(line, "<<") {
		if end := strings.Index(line, ">>"); end >= 0 && cursorPos > end {
			return -1
		}
		if cursorPos < 2 {
			return -1
		}
		return 2
	}

	// R Markdown header: ```{r label, opts}
	if strings.HasPrefix(line, "```{r") {
		if end := strings.Index(line, "}"); end >= 0 && cursorPos > end {
			return -1
		}
		start := len("```{r")
		if comma := strings.Index(line, ","); comma >= start {
			start = comma + 1
		}
		if cursorPos < start {
			return -1
		}
		return start
	}

	return -1
}

// Options returns the option registry, loading it on first use
func (w *WeaveContext) Options(_ context.Context) (*Options, error) {
	if w.opts == nil {
		opts, err := Load()
		if err != nil {
			return nil, err
		}
		w.opts = opts
	}
	return w.opts, nil
}

// ActiveEngine returns the weave engine this context completes for
func (w *WeaveContext) ActiveEngine() string {
	return w.engine
}
