package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/repository"
	"github.com/spec-kit/course-service/internal/service"
	"github.com/spec-kit/course-service/internal/worker"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired records",
}

var pruneRevocationsCmd = &cobra.Command{
	Use:   "revocations",
	Short: "Delete revocation records whose credential has expired",
	Long: `Removes logout records from the postgres revocation table once the revoked
credential can no longer pass signature and expiry checks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pg, err := f.postgres(cmd.Context())
		if err != nil {
			return err
		}
		pruner := worker.NewPruner(worker.PrunerConfig{}, nil, repository.NewPostgresRevocationStore(pg.PoolHandle()), nil, f.logger)
		n, err := pruner.PruneRevocations(cmd.Context())
		if err != nil {
			return err
		}
		f.logger.Info("revocations pruned", zap.Int64("deleted", n))
		return nil
	},
}

var pruneActivitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Delete activity feed entries past their retention",
	RunE: func(cmd *cobra.Command, args []string) error {
		pg, err := f.postgres(cmd.Context())
		if err != nil {
			return err
		}
		activities := service.NewActivityService(repository.NewActivityRepository(pg.PoolHandle()), nil, f.logger, f.cfg.Activity.Retention())
		pruner := worker.NewPruner(worker.PrunerConfig{}, activities, nil, nil, f.logger)
		n, err := pruner.PruneActivities(cmd.Context())
		if err != nil {
			return err
		}
		f.logger.Info("activities pruned", zap.Int64("deleted", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.AddCommand(pruneRevocationsCmd)
	pruneCmd.AddCommand(pruneActivitiesCmd)
}
