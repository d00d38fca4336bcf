package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prismadash/internal"
	"prismadash/internal/refresher"
	"prismadash/internal/server"
	"prismadash/internal/source"
)

func newRefresher(a *app, svc *source.SyncService) *refresher.Service {
	return refresher.NewService(svc, a.memo, a.cfg, a.logger)
}

func serveCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc, err := a.syncService(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.ServerAddr
			}
			srv := server.New(server.Config{
				Addr:        addr,
				Memo:        a.memo,
				FlagColumns: a.cfg.FlagColumns,
				Logger:      a.logger,
				Reload: func(ctx context.Context) (internal.Tables, error) {
					res, err := svc.Sync(ctx)
					return res.Tables, err
				},
			})

			if tables, err := a.loadTables(ctx); err != nil {
				a.logger.Warn("initial load failed, serving without data", zap.Error(err))
			} else {
				srv.SetTables(tables)
			}

			eg, egctx := errgroup.WithContext(ctx)
			eg.Go(func() error { return srv.Serve(egctx) })
			if watch {
				r := newRefresher(a, svc)
				r.OnLoad(srv.SetTables)
				eg.Go(func() error { return r.Run(egctx) })
			}
			return eg.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default SERVER_ADDR)")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-sync on REFRESH_INTERVAL_SEC")
	return cmd
}
