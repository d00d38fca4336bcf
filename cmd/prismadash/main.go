package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"prismadash/internal"
	"prismadash/internal/config"
	"prismadash/internal/pipeline"
	"prismadash/internal/report"
	"prismadash/internal/source"
	"prismadash/internal/storage"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *storage.DB
	memo   *pipeline.Memo
}

func main() {
	a := &app{}
	must(newRootCmd(a).Execute())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "prismadash",
		Short:         "PRISMA bioenergy review dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.AddCommand(
		dataFetchCmd(a),
		dataWatchCmd(a),
		dataStatusCmd(a),
		exportCmd(a),
		serveCmd(a),
	)
	root.AddCommand(reportCmds(a)...)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	zapCfg := zap.NewProductionConfig()
	if cfg.LogLevel == "debug" {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	a.db = db

	if cfg.MemoEnabled {
		a.memo = pipeline.NewMemo()
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) syncService(ctx context.Context) (*source.SyncService, error) {
	fetcher, err := source.NewFetcher(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	loader := source.NewLoader(fetcher, source.RefsFromConfig(a.cfg), a.logger)
	return source.NewSyncService(a.db, loader, a.logger), nil
}

// loadTables reads the stored snapshot, syncing first when there is none.
func (a *app) loadTables(ctx context.Context) (internal.Tables, error) {
	tables, err := source.LoadSnapshot(a.db)
	if err == nil {
		return tables, nil
	}
	if !errors.Is(err, source.ErrNoSnapshot) {
		return internal.Tables{}, err
	}

	a.logger.Info("no stored snapshot, syncing")
	svc, err := a.syncService(ctx)
	if err != nil {
		return internal.Tables{}, err
	}
	res, err := svc.Sync(ctx)
	if err != nil {
		return internal.Tables{}, err
	}
	return res.Tables, nil
}

func (a *app) dashboard(ctx context.Context) (*pipeline.Dashboard, error) {
	tables, err := a.loadTables(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewDashboard(tables, pipeline.NewClassifier(a.memo), a.cfg.FlagColumns), nil
}

// viewFlags are the filters shared by the report and export commands.
type viewFlags struct {
	view         string
	yearMin      int
	yearMax      int
	countries    []string
	search       string
	searchColumn string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.view, "view", string(pipeline.ViewOriginal), "original|expanded|processed")
	cmd.Flags().IntVar(&f.yearMin, "year-min", 0, "first year to include")
	cmd.Flags().IntVar(&f.yearMax, "year-max", 0, "last year to include")
	cmd.Flags().StringSliceVar(&f.countries, "country", nil, "countries to include")
	cmd.Flags().StringVar(&f.search, "search", "", "substring to search for")
	cmd.Flags().StringVar(&f.searchColumn, "search-column", "", "restrict the search to one column")
}

func (f *viewFlags) state() (pipeline.ViewState, error) {
	view, err := pipeline.ParseViewKind(f.view)
	if err != nil {
		return pipeline.ViewState{}, err
	}
	state := pipeline.ViewState{
		View:         view,
		Countries:    f.countries,
		Search:       f.search,
		SearchColumn: f.searchColumn,
	}
	if f.yearMin != 0 {
		y := f.yearMin
		state.YearMin = &y
	}
	if f.yearMax != 0 {
		y := f.yearMax
		state.YearMax = &y
	}
	return state, nil
}

func dataFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "data:fetch",
		Short: "Fetch the review sheets and store a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.syncService(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Sync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("data fetch done tier=%s records=%d degraded=%t trace=%s\n",
				res.Tier, len(res.Tables.Aggregate.Records), res.Tables.Degraded, res.TraceID)
			return nil
		},
	}
}

func dataWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "data:watch",
		Short: "Re-sync the sheets on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc, err := a.syncService(ctx)
			if err != nil {
				return err
			}
			return newRefresher(a, svc).Run(ctx)
		},
	}
}

func dataStatusCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "data:status",
		Short: "Show stored snapshots and recent syncs",
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets, err := a.db.ListDatasets()
			if err != nil {
				return err
			}
			runs, err := a.db.ListRuns(limit)
			if err != nil {
				return err
			}
			report.Status(os.Stdout, datasets, runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		flags  viewFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered table as csv, xlsx or json",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := flags.state()
			if err != nil {
				return err
			}
			f, err := pipeline.ParseExportFormat(format)
			if err != nil {
				return err
			}
			d, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, fmt.Sprintf("prisma_%s.%s", state.View, f))
			}
			table := d.Table(state)
			if err := pipeline.ExportTableToFile(table, f, out); err != nil {
				return err
			}
			fmt.Printf("exported %d rows to %s\n", len(table.Rows), out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(pipeline.FormatCSV), "csv|xlsx|json")
	cmd.Flags().StringVar(&out, "out", "", "output path")
	return cmd
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
