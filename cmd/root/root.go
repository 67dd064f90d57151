// Package root contains the root command for the application
package root

import (
	"ypbank/statements/internal/camtparser"
	"ypbank/statements/internal/config"
	"ypbank/statements/internal/convert"
	"ypbank/statements/internal/csvparser"
	"ypbank/statements/internal/mt940parser"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ypbank-statements",
		Short: "A CLI tool to convert and reconcile bank statement files.",
		Long: `ypbank-statements is a CLI tool that converts bank statements between
MT940, CAMT.053 and bank CSV formats, and reconciles the transaction
lists of two statements against each other.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ypbank-statements!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize configuration and logging
			config.LoadEnv()
			cfg := config.GetGlobalConfig()
			Log = config.Logger

			// Set the configured logger for all parsers
			mt940parser.SetLogger(Log)
			camtparser.SetLogger(Log)
			csvparser.SetLogger(Log)
			convert.SetLogger(Log)

			// The validated config guarantees a single-character delimiter
			csvparser.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
		},
	}
)
