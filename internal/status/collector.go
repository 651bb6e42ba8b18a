package status

import (
	"context"

	"github.com/statlab-ide/rassist/internal/chunk"
	"github.com/statlab-ide/rassist/internal/config"
	"github.com/statlab-ide/rassist/internal/provider"
)

// CacheReporter exposes the narrowing cache slot for inspection
type CacheReporter interface {
	CacheInfo() (prefix string, candidates int, held bool)
}

// Collect gathers status data. cache may be nil when no requester is running.
func Collect(ctx context.Context, cfg *config.Config, configPath, version string, cache CacheReporter) *Data {
	data := &Data{
		Version:          version,
		ConfigPath:       configPath,
		ProviderEndpoint: cfg.Provider.Endpoint,
		ProviderTimeout:  cfg.Provider.Timeout.String(),
		ChunkEngine:      cfg.Chunk.Engine,
		LogLevel:         cfg.Log.Level,
	}

	p := provider.NewHTTP(cfg.Provider.Endpoint, cfg.Provider.Timeout)
	if err := p.Ping(ctx); err != nil {
		data.ProviderError = err.Error()
	} else {
		data.ProviderOnline = true
	}

	if opts, err := chunk.Load(); err == nil {
		data.EngineTables = make(map[string]int)
		for _, engine := range []string{"knitr", "sweave"} {
			if table := opts.ForEngine(engine); table != nil {
				data.EngineTables[engine] = len(table)
			}
		}
	}

	if cache != nil {
		data.CachePrefix, data.CacheCandidates, data.CacheHeld = cache.CacheInfo()
	}

	return data
}
