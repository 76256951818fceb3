package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/calenhq/calen/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "calen",
	Short: "Natural language calendar assistant",
	Long: `calen is a calendar assistant driven by natural language. It routes each
request to a create, list, delete or update flow, resolves the time window
with an LLM, and checks new events for conflicts before writing them.

Running 'calen' without a subcommand is equivalent to 'calen ask'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return askCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(initCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to calen.yaml config file (default: search up directory tree)")
	rootCmd.PersistentFlags().StringP("owner", "u", defaultOwner(), "Owner id the events belong to")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func defaultOwner() string {
	if owner := os.Getenv("CALEN_OWNER"); owner != "" {
		return owner
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "default"
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
