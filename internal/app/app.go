package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/humanbelnik/movienight/core/internal/config"
	http_init "github.com/humanbelnik/movienight/core/internal/delivery/http/init"
	http_metrics "github.com/humanbelnik/movienight/core/internal/delivery/http/metrics"
	http_recommend "github.com/humanbelnik/movienight/core/internal/delivery/http/recommend"
	http_swagger "github.com/humanbelnik/movienight/core/internal/delivery/http/swagger"
	ws_session "github.com/humanbelnik/movienight/core/internal/delivery/ws/session"
	infra_postgres_directory "github.com/humanbelnik/movienight/core/internal/infra/postgres/directory"
	infra_pg_init "github.com/humanbelnik/movienight/core/internal/infra/postgres/init"
	infra_profile "github.com/humanbelnik/movienight/core/internal/infra/profile"
	infra_redis_detail_cache "github.com/humanbelnik/movienight/core/internal/infra/redis/detail_cache"
	infra_redis_init "github.com/humanbelnik/movienight/core/internal/infra/redis/init"
	infra_redis_presence "github.com/humanbelnik/movienight/core/internal/infra/redis/presence"
	"github.com/humanbelnik/movienight/core/internal/model"
	usecase_recommend "github.com/humanbelnik/movienight/core/internal/usecase/recommend"
)

func Go(cfg *config.Config) {
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

	directory := infra_postgres_directory.New(pgConn)
	presence := infra_redis_presence.New(redisConn, "presence")
	detailCache := infra_redis_detail_cache.New(redisConn, "film_detail", cfg.Redis.DetailTTL)

	profiles := infra_profile.NewCached(
		infra_profile.New(cfg.Profile, infra_profile.WithLogger(logger)),
		detailCache,
		logger,
	)

	hub := ws_session.New(logger)

	recommendUC := usecase_recommend.New(directory, presence, profiles, hub,
		usecase_recommend.WithLogger(logger),
		usecase_recommend.WithPageSize(cfg.Recommend.PageSize),
		usecase_recommend.WithFilmLinkBase(cfg.Profile.FilmLinkBase),
		usecase_recommend.WithRules(model.ScoringRules{
			WatchlistPresent: cfg.Recommend.Weights.WatchlistPresent,
			WatchlistAbsent:  cfg.Recommend.Weights.WatchlistAbsent,
			WatchedPresent:   cfg.Recommend.Weights.WatchedPresent,
			WatchedAbsent:    cfg.Recommend.Weights.WatchedAbsent,
			LikedPresent:     cfg.Recommend.Weights.LikedPresent,
			LikedAbsent:      cfg.Recommend.Weights.LikedAbsent,
		}),
	)

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_metrics.New())
	controllerPool.Add(http_recommend.New(recommendUC, hub, http_recommend.WithLogger(logger)))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
