package infra_profile

import (
	"context"
	"log/slog"

	"github.com/humanbelnik/movienight/core/internal/model"
)

type Source interface {
	FetchLists(ctx context.Context, account string) (model.MovieLists, error)
	FetchDetail(ctx context.Context, movie model.MovieID) (model.MovieDetail, error)
}

type DetailCache interface {
	Get(ctx context.Context, slug string) (model.MovieDetail, bool, error)
	Set(ctx context.Context, slug string, detail model.MovieDetail) error
}

// Cached serves film details from the cache when it can. Lists are always
// fetched fresh. Cache failures only cost a lookup.
type Cached struct {
	source Source
	cache  DetailCache
	logger *slog.Logger
}

func NewCached(source Source, cache DetailCache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

func (c *Cached) FetchLists(ctx context.Context, account string) (model.MovieLists, error) {
	return c.source.FetchLists(ctx, account)
}

func (c *Cached) FetchDetail(ctx context.Context, movie model.MovieID) (model.MovieDetail, error) {
	detail, ok, err := c.cache.Get(ctx, movie.Slug)
	if err != nil {
		c.logger.Warn("detail cache read failed",
			slog.String("slug", movie.Slug),
			slog.String("error", err.Error()),
		)
	}
	if ok {
		return detail, nil
	}

	detail, err = c.source.FetchDetail(ctx, movie)
	if err != nil {
		return model.MovieDetail{}, err
	}

	if err := c.cache.Set(ctx, movie.Slug, detail); err != nil {
		c.logger.Warn("detail cache write failed",
			slog.String("slug", movie.Slug),
			slog.String("error", err.Error()),
		)
	}
	return detail, nil
}
