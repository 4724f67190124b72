package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantsync/internal/catalog"
	"github.com/smallbiznis/tenantsync/internal/clock"
	"github.com/smallbiznis/tenantsync/internal/config"
	"github.com/smallbiznis/tenantsync/internal/feed"
	"github.com/smallbiznis/tenantsync/internal/migration"
	"github.com/smallbiznis/tenantsync/internal/resolver"
	"github.com/smallbiznis/tenantsync/internal/syncer"
	"github.com/smallbiznis/tenantsync/internal/syncrun"
	"github.com/smallbiznis/tenantsync/pkg/db"
	"github.com/smallbiznis/tenantsync/pkg/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,

		catalog.Module,
		syncrun.Module,
		resolver.Module,
		feed.Module,
		fx.Provide(func(c *feed.Client) syncer.Fetcher { return c }),
		syncer.Module,

		fx.Invoke(RunSync),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// RunSync kicks off a single sync pass once the app has started and shuts the
// process down when it returns. Exit code 1 signals a run-level failure.
func RunSync(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *syncer.Syncer, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				code := 0
				if _, err := s.Run(context.Background()); err != nil {
					logger.Error("sync run failed", zap.Error(err))
					code = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error("shutdown failed", zap.Error(err))
				}
			}()
			return nil
		},
	})
}
