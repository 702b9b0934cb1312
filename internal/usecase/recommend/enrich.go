package usecase_recommend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/humanbelnik/movienight/core/internal/metrics"
	"github.com/humanbelnik/movienight/core/internal/model"
)

type DetailFetcher interface {
	FetchDetail(ctx context.Context, movie model.MovieID) (model.MovieDetail, error)
}

// RatingEnricher looks up ratings only for the candidates a page needs.
type RatingEnricher struct {
	details DetailFetcher
	logger  *slog.Logger
}

func NewRatingEnricher(details DetailFetcher, logger *slog.Logger) *RatingEnricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingEnricher{
		details: details,
		logger:  logger,
	}
}

// Fill enriches candidates until the ranked range [start, start+size) holds
// only enriched candidates or the pool runs out. Every pass re-ranks the
// pool because a fresh rating can move a candidate inside its score group.
// Each pass resolves or removes exactly one candidate, so it terminates.
func (e *RatingEnricher) Fill(ctx context.Context, pool *CandidatePool, start, size int) error {
	for {
		ranked := pool.Ranked()
		end := min(start+size, len(ranked))

		var next *Candidate
		for i := start; i < end; i++ {
			if !ranked[i].Enriched() {
				next = ranked[i]
				break
			}
		}
		if next == nil {
			return nil
		}

		detail, err := e.details.FetchDetail(ctx, next.Movie)
		if err != nil {
			return fmt.Errorf("%w: film %s: %w", ErrProfileFetch, next.Movie.Slug, err)
		}

		if !detail.Rated() {
			e.logger.Debug("dropping candidate without rating",
				slog.String("slug", next.Movie.Slug),
			)
			pool.remove(next.Movie.Key())
			metrics.CandidatesRemoved.Inc()
			continue
		}
		pool.resolve(next.Movie.Key(), detail)
	}
}
