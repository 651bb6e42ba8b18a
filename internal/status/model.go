// Package status collects and renders diagnostic information about a
// rassist installation: configuration, provider reachability, chunk option
// tables and the narrowing cache.
package status

// Data contains all the information to display in status
type Data struct {
	// Header
	Version    string
	ConfigPath string

	// Provider
	ProviderEndpoint string
	ProviderTimeout  string
	ProviderOnline   bool
	ProviderError    string

	// Chunk options
	ChunkEngine  string
	EngineTables map[string]int // engine -> number of known options

	// Narrowing cache
	CacheHeld       bool
	CachePrefix     string
	CacheCandidates int

	// Logging
	LogLevel string
}
