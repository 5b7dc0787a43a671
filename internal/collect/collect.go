package collect

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SeanTater/llm-pareto/internal/extract"
)

// Fetcher retrieves provider pricing pages.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Extractor turns a pricing page into structured rows.
type Extractor interface {
	Warm(ctx context.Context) error
	Pricing(ctx context.Context, provider, page string) ([]extract.PricingRow, error)
}

// SourceResult is the outcome of collecting one source. Err is set when the
// fetch or extraction failed; Rows is only meaningful when Err is nil.
type SourceResult struct {
	Source Source
	Rows   []extract.PricingRow
	Err    error
}

// Run fetches and extracts every source concurrently. A failing source is
// recorded in its result and never aborts the others. Results come back in
// source order.
func Run(ctx context.Context, f Fetcher, e Extractor, sources []Source, maxConcurrent int) []SourceResult {
	if len(sources) == 0 {
		zap.L().Info("no sources configured")
		return nil
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	// Warm the prompt cache before fanning out so the concurrent
	// extractions read one shared cache entry instead of each writing it.
	if len(sources) > 1 {
		if err := e.Warm(ctx); err != nil {
			zap.L().Warn("prompt cache primer failed", zap.Error(err))
		}
	}

	zap.L().Info("collecting sources",
		zap.Int("sources", len(sources)),
		zap.Int("concurrency", maxConcurrent),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	results := make([]SourceResult, len(sources))
	var succeeded, failed atomic.Int64

	for i, src := range sources {
		g.Go(func() error {
			log := zap.L().With(zap.String("provider", src.Provider))

			rows, err := collectOne(gctx, f, e, src)
			results[i] = SourceResult{Source: src, Rows: rows, Err: err}
			if err != nil {
				failed.Add(1)
				log.Error("source collection failed", zap.Error(err))
				return nil // don't abort the fan-out on individual failure
			}

			succeeded.Add(1)
			log.Info("source collected", zap.Int("rows", len(rows)))
			return nil
		})
	}

	_ = g.Wait() // workers report failures through results, never errors

	zap.L().Info("collection complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)

	return results
}

func collectOne(ctx context.Context, f Fetcher, e Extractor, src Source) ([]extract.PricingRow, error) {
	page, err := f.FetchPage(ctx, src.URL)
	if err != nil {
		return nil, eris.Wrapf(err, "collect: fetch %s", src.URL)
	}
	return e.Pricing(ctx, src.Provider, page)
}
