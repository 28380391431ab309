package common

import (
	"fmt"
	"strings"
)

const (
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
)

// Config holds the process level settings of the dcoll tooling
type Config struct {
	// Logging configuration
	LogLevel      string
	LogFile       string // empty = stdout only
	LogMaxSizeMB  int
	LogMaxBackups int

	// DebugAsserts turns failed assertions into panics
	DebugAsserts bool
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		LogMaxSizeMB:  defaultLogMaxSizeMB,
		LogMaxBackups: defaultLogMaxBackups,
	}
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)
	if c.LogFile != "" {
		addField("Log File", c.LogFile)
		addField("Max Size", fmt.Sprintf("%d MB", c.LogMaxSizeMB))
		addField("Max Backups", fmt.Sprintf("%d", c.LogMaxBackups))
	} else {
		addField("Log File", "(stdout)")
	}

	addSection("Diagnostics")
	addField("Debug Assertions", fmt.Sprintf("%t", c.DebugAsserts))

	return sb.String()
}
