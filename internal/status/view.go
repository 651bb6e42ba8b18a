package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	var b strings.Builder

	b.WriteString(renderHeader(data))
	b.WriteString("\n")

	b.WriteString(renderProvider(data))
	b.WriteString("\n")

	b.WriteString(renderChunk(data))
	b.WriteString("\n")

	b.WriteString(renderCache(data))

	return b.String()
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version) + "\n")
	if data.ConfigPath != "" {
		b.WriteString(titleStyle.Render("📝 Config: ") + valueStyle.Render(data.ConfigPath) + "\n")
	} else {
		b.WriteString(titleStyle.Render("📝 Config: ") + subtleStyle.Render("built-in defaults") + "\n")
	}
	b.WriteString(titleStyle.Render("🪵 Log level: ") + valueStyle.Render(data.LogLevel))
	return b.String()
}

func renderProvider(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🌐 Provider:") + "\n")

	b.WriteString("   " + keyStyle.Render("Endpoint: ") + valueStyle.Render(data.ProviderEndpoint) + "\n")
	b.WriteString("   " + keyStyle.Render("Timeout: ") + valueStyle.Render(data.ProviderTimeout) + "\n")

	if data.ProviderOnline {
		b.WriteString("   " + keyStyle.Render("Status: ") + successStyle.Render("✓ Reachable"))
	} else {
		b.WriteString("   " + keyStyle.Render("Status: ") + errorStyle.Render("✗ Unreachable") + "\n")
		b.WriteString("   " + subtleStyle.Render(data.ProviderError))
	}

	return b.String()
}

func renderChunk(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📑 Chunk options:") + "\n")

	b.WriteString("   " + keyStyle.Render("Active engine: ") + valueStyle.Render(data.ChunkEngine) + "\n")

	if len(data.EngineTables) == 0 {
		b.WriteString("   " + errorStyle.Render("✗ Option tables unavailable"))
		return b.String()
	}

	engines := make([]string, 0, len(data.EngineTables))
	for engine := range data.EngineTables {
		engines = append(engines, engine)
	}
	sort.Strings(engines)

	for _, engine := range engines {
		b.WriteString(fmt.Sprintf("   %s %s\n",
			keyStyle.Render(engine+":"),
			valueStyle.Render(fmt.Sprintf("%d options", data.EngineTables[engine]))))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderCache(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("💾 Narrowing cache:") + "\n")

	if !data.CacheHeld {
		b.WriteString("   " + subtleStyle.Render("Empty"))
		return b.String()
	}

	b.WriteString("   " + keyStyle.Render("Prefix: ") + valueStyle.Render(fmt.Sprintf("%q", data.CachePrefix)) + "\n")
	b.WriteString("   " + keyStyle.Render("Candidates: ") + valueStyle.Render(fmt.Sprintf("%d", data.CacheCandidates)))

	return b.String()
}
