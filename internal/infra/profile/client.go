package infra_profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/humanbelnik/movienight/core/internal/config"
	"github.com/humanbelnik/movienight/core/internal/metrics"
	"github.com/humanbelnik/movienight/core/internal/model"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var (
	ErrNotFound      = errors.New("profile resource not found")
	ErrBadStatus     = errors.New("unexpected profile service status")
	ErrCircuitOpen   = errors.New("profile service circuit open")
	ErrMalformedBody = errors.New("malformed profile service response")
)

const breakerName = "profile-service"

type filmDTO struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type filmListResponse struct {
	Films []filmDTO `json:"films"`
}

type filmDetailResponse struct {
	Rating  *float64 `json:"rating"`
	Runtime *int     `json:"runtime"`
	Poster  string   `json:"poster"`
}

// RRBalancer spreads requests over the profile service replicas.
type RRBalancer struct {
	servers []string
	cur     atomic.Uint64
}

// NewRRBalancer accepts a ";" separated list of base URLs.
func NewRRBalancer(serversList string) *RRBalancer {
	servers := make([]string, 0)
	for _, s := range strings.Split(serversList, ";") {
		if trimmed := strings.TrimSuffix(strings.TrimSpace(s), "/"); trimmed != "" {
			servers = append(servers, trimmed)
		}
	}
	return &RRBalancer{servers: servers}
}

func (b *RRBalancer) NextServer() string {
	if len(b.servers) == 0 {
		return ""
	}

	n := b.cur.Add(1)
	return b.servers[(n-1)%uint64(len(b.servers))]
}

// HTTPClient talks to the profile service. Requests go through a rate
// limiter and a circuit breaker, a missing resource does not count as a
// breaker failure.
type HTTPClient struct {
	balancer   *RRBalancer
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

type Option func(*HTTPClient)

func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

func New(cfg config.Profile, opts ...Option) *HTTPClient {
	limit := rate.Limit(cfg.RequestsPerSec)
	if cfg.RequestsPerSec <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &HTTPClient{
		balancer: NewRRBalancer(cfg.BaseURL),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return c
}

var listPaths = [...]string{"watchlist", "watched", "likes"}

// FetchLists reads watchlist, watched and liked films, in that order.
func (c *HTTPClient) FetchLists(ctx context.Context, account string) (model.MovieLists, error) {
	var lists [len(listPaths)][]model.MovieID

	for i, list := range listPaths {
		var resp filmListResponse
		path := fmt.Sprintf("/users/%s/%s", url.PathEscape(account), list)
		if err := c.getJSON(ctx, "lists", path, &resp); err != nil {
			return model.MovieLists{}, fmt.Errorf("%s of %s: %w", list, account, err)
		}

		films := make([]model.MovieID, 0, len(resp.Films))
		for _, f := range resp.Films {
			films = append(films, model.MovieID{Title: f.Title, Slug: f.Slug})
		}
		lists[i] = films
	}

	return model.MovieLists{
		Watchlist: lists[0],
		Watched:   lists[1],
		Liked:     lists[2],
	}, nil
}

func (c *HTTPClient) FetchDetail(ctx context.Context, movie model.MovieID) (model.MovieDetail, error) {
	var resp filmDetailResponse
	path := fmt.Sprintf("/films/%s", url.PathEscape(movie.Slug))
	if err := c.getJSON(ctx, "detail", path, &resp); err != nil {
		return model.MovieDetail{}, fmt.Errorf("film %s: %w", movie.Slug, err)
	}

	return model.MovieDetail{
		Rating:  resp.Rating,
		Runtime: resp.Runtime,
		Poster:  resp.Poster,
	}, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, op, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.ProfileRequests.WithLabelValues(op, "rate_limited").Inc()
		return err
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.get(ctx, path)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.ProfileRequests.WithLabelValues(op, "rejected").Inc()
			return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		case errors.Is(err, ErrNotFound):
			metrics.ProfileRequests.WithLabelValues(op, "not_found").Inc()
		default:
			metrics.ProfileRequests.WithLabelValues(op, "failure").Inc()
		}
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.ProfileRequests.WithLabelValues(op, "failure").Inc()
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	metrics.ProfileRequests.WithLabelValues(op, "success").Inc()
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.balancer.NextServer()+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
