package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "coursectl",
	Short: "Administration tool for the course service",
	Long: `coursectl runs maintenance tasks against the course service database:
schema migrations, bootstrap accounts and cleanup of expired records.
Configuration is read from the same environment as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return f.init()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		f.Close()
	},
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if f.logger != nil {
			f.logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
