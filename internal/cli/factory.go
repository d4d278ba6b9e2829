package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/observability"
	"github.com/spec-kit/course-service/internal/persistence"
)

// factory lazily builds what a command needs so commands that do not touch the database
// never open a connection.
type factory struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
}

var f = &factory{}

func (f *factory) init() error {
	if f.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	f.cfg = cfg
	f.logger = logger.With(zap.String("component", "coursectl"))
	return nil
}

func (f *factory) postgres(ctx context.Context) (*persistence.Postgres, error) {
	if f.pg != nil {
		return f.pg, nil
	}
	pg, err := persistence.NewPostgres(ctx, f.cfg.Postgres, f.logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	f.pg = pg
	return pg, nil
}

// Close releases the database pool and flushes the logger.
func (f *factory) Close() {
	if f.pg != nil {
		f.pg.Close()
		f.pg = nil
	}
	if f.logger != nil {
		_ = f.logger.Sync()
	}
}
