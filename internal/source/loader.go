package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prismadash/internal"
	"prismadash/internal/config"
)

// Tier names which load path produced the tables.
type Tier string

const (
	TierMulti    Tier = "multi"
	TierFallback Tier = "fallback"
)

// Refs locates the three sheets of the review.
type Refs struct {
	Aggregate  SheetRef
	Waste      SheetRef
	Technology SheetRef
}

func RefsFromConfig(cfg config.Config) Refs {
	if cfg.SourceKind == config.SourceSheets {
		return Refs{
			Aggregate:  SheetRef{Name: internal.TableAggregate, Location: cfg.SheetsRangeData},
			Waste:      SheetRef{Name: internal.TableWaste, Location: cfg.SheetsRangeWaste},
			Technology: SheetRef{Name: internal.TableTechnology, Location: cfg.SheetsRangeTech},
		}
	}
	return Refs{
		Aggregate:  SheetRef{Name: internal.TableAggregate, Location: cfg.SheetURLData},
		Waste:      SheetRef{Name: internal.TableWaste, Location: cfg.SheetURLWaste},
		Technology: SheetRef{Name: internal.TableTechnology, Location: cfg.SheetURLTech},
	}
}

// NewFetcher builds the fetcher selected by SOURCE_KIND.
func NewFetcher(ctx context.Context, cfg config.Config) (Fetcher, error) {
	switch cfg.SourceKind {
	case config.SourceCSV:
		return NewHTTPClient(cfg), nil
	case config.SourceSheets:
		return NewSheetsClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported SOURCE_KIND: %s", cfg.SourceKind)
	}
}

type Loader struct {
	fetcher Fetcher
	refs    Refs
	logger  *zap.Logger
}

func NewLoader(fetcher Fetcher, refs Refs, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, refs: refs, logger: logger}
}

// LoadTables fetches the three sheets concurrently. If any of them fails it
// falls back to the aggregate sheet alone, returned in all three slots with
// Degraded set. When that fails too the error wraps ErrDataUnavailable.
func (l *Loader) LoadTables(ctx context.Context) (internal.Tables, Tier, error) {
	tables, err := l.loadAll(ctx)
	if err == nil {
		return tables, TierMulti, nil
	}
	if ctx.Err() != nil {
		return internal.Tables{}, "", fmt.Errorf("%w: %w", ErrDataUnavailable, ctx.Err())
	}
	l.logger.Warn("multi-sheet load failed, using aggregate sheet only", zap.Error(err))

	aggregate, fallbackErr := l.fetcher.FetchSheet(ctx, l.refs.Aggregate)
	if fallbackErr != nil {
		l.logger.Error("aggregate sheet load failed", zap.Error(fallbackErr))
		return internal.Tables{}, "", fmt.Errorf("%w: %w", ErrDataUnavailable, fallbackErr)
	}
	return internal.Tables{
		Aggregate:  aggregate,
		Waste:      aggregate,
		Technology: aggregate,
		Degraded:   true,
	}, TierFallback, nil
}

func (l *Loader) loadAll(ctx context.Context) (internal.Tables, error) {
	var tables internal.Tables
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(ref SheetRef, dst *internal.Dataset) {
		g.Go(func() error {
			ds, err := l.fetcher.FetchSheet(gctx, ref)
			if err != nil {
				return err
			}
			*dst = ds
			return nil
		})
	}
	fetch(l.refs.Waste, &tables.Waste)
	fetch(l.refs.Technology, &tables.Technology)
	fetch(l.refs.Aggregate, &tables.Aggregate)
	if err := g.Wait(); err != nil {
		return internal.Tables{}, err
	}
	return tables, nil
}
