package util

import (
	"strings"

	"github.com/ValentinKolb/dColl/lib/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupCommonFlags adds the logging and diagnostics flags shared by all commands
func SetupCommonFlags(cmd *cobra.Command) {
	defaults := common.DefaultConfig()

	key := "log-level"
	cmd.PersistentFlags().String(key, defaults.LogLevel, WrapString("Log level (debug, info, warn, error)"))

	key = "log-file"
	cmd.PersistentFlags().String(key, "", WrapString("Optional log file. The file is rotated by size; log lines are also written to stdout"))

	key = "log-max-size"
	cmd.PersistentFlags().Int(key, defaults.LogMaxSizeMB, WrapString("Size in MB after which the log file is rotated"))

	key = "log-max-backups"
	cmd.PersistentFlags().Int(key, defaults.LogMaxBackups, WrapString("How many rotated log files to keep"))

	key = "debug-asserts"
	cmd.PersistentFlags().Bool(key, false, WrapString("Panic on failed assertions instead of only logging them"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dcoll")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetConfig reads the process configuration from viper
func GetConfig() common.Config {
	return common.Config{
		LogLevel:      viper.GetString("log-level"),
		LogFile:       viper.GetString("log-file"),
		LogMaxSizeMB:  viper.GetInt("log-max-size"),
		LogMaxBackups: viper.GetInt("log-max-backups"),
		DebugAsserts:  viper.GetBool("debug-asserts"),
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
