package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/course-service/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pg, err := f.postgres(cmd.Context())
		if err != nil {
			return err
		}
		if err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), f.logger); err != nil {
			return err
		}
		f.logger.Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
