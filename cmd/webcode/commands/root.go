// Package commands provides the CLI commands for WebCode.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/webcode-dev/webcode/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel   string
	prettyLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "webcode",
	Short: "WebCode - browser-hosted code editor server",
	Long: `WebCode serves a browser-hosted code editor: the bootstrap page,
its static assets, the PWA manifest, and the authentication callback
broker used by out-of-band clients.

Run 'webcode serve' to start the gateway.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is a development convenience; absence is not an error.
		_ = godotenv.Load()
		logging.Setup(logLevel, prettyLogs, nil)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty-logs", false, "Human-readable log output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("webcode %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(awaitCallbackCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
