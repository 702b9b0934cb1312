package usecase_recommend

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/humanbelnik/movienight/core/internal/metrics"
	"github.com/humanbelnik/movienight/core/internal/model"
)

//go:generate mockery --name=Directory --output=./mocks/directory --filename=directory.go
type Directory interface {
	ListMembers(ctx context.Context, groupID string) ([]model.Account, error)
}

//go:generate mockery --name=PresenceSource --output=./mocks/presence --filename=presence.go
type PresenceSource interface {
	Members(ctx context.Context, channelID string) ([]string, error)
}

//go:generate mockery --name=ProfileService --output=./mocks/profile --filename=profile.go
type ProfileService interface {
	FetchLists(ctx context.Context, account string) (model.MovieLists, error)
	FetchDetail(ctx context.Context, movie model.MovieID) (model.MovieDetail, error)
}

//go:generate mockery --name=Renderer --output=./mocks/renderer --filename=renderer.go
type Renderer interface {
	Render(ctx context.Context, sessionID model.SessionID, v model.View) error
}

type StartRequest struct {
	GroupID   string
	Requester string
	// Optional. When set attendance is taken from the channel's members.
	PresenceChannel string
}

type Usecase struct {
	deps *sessionDeps

	rules        model.ScoringRules
	pageSize     int
	filmLinkBase string
	logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[model.SessionID]*Session
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithRules(rules model.ScoringRules) Option {
	return func(u *Usecase) {
		u.rules = rules
	}
}

func WithPageSize(n int) Option {
	return func(u *Usecase) {
		u.pageSize = n
	}
}

func WithFilmLinkBase(base string) Option {
	return func(u *Usecase) {
		u.filmLinkBase = base
	}
}

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, model.SessionID, model.View) error { return nil }

func New(
	directory Directory,
	presence PresenceSource,
	profiles ProfileService,
	renderer Renderer,
	opts ...Option,
) *Usecase {
	if renderer == nil {
		renderer = nopRenderer{}
	}

	u := &Usecase{
		rules:        model.DefaultScoringRules(),
		pageSize:     10,
		filmLinkBase: "https://www.letterboxd.com/film",
		logger:       slog.Default(),
		sessions:     make(map[model.SessionID]*Session),
	}
	for _, opt := range opts {
		opt(u)
	}

	u.deps = &sessionDeps{
		directory: directory,
		presence:  presence,
		profiles:  profiles,
		renderer:  renderer,
		enricher:  NewRatingEnricher(profiles, u.logger),
	}
	return u
}

// Start opens a session for the group and runs it until it waits for the
// requester or finishes. A session that halts is still registered so its
// final view stays readable until dismissed.
func (u *Usecase) Start(ctx context.Context, req StartRequest) (model.View, error) {
	ctx = context.WithoutCancel(ctx)

	id := uuid.New()
	s := &Session{
		id:              id,
		groupID:         req.GroupID,
		requester:       req.Requester,
		presenceChannel: req.PresenceChannel,
		rules:           u.rules,
		deps:            u.deps,
		paginator:       NewPaginator(u.pageSize, u.filmLinkBase),
		logger: u.logger.With(
			slog.String("session_id", id.String()),
			slog.String("group_id", req.GroupID),
		),
	}

	u.mu.Lock()
	u.sessions[id] = s
	u.mu.Unlock()

	u.logger.Info("recommend command",
		slog.String("session_id", id.String()),
		slog.String("group_id", req.GroupID),
		slog.String("requester", req.Requester),
		slog.String("presence_channel", req.PresenceChannel),
	)
	metrics.SessionsStarted.Inc()

	s.Run(ctx)
	return s.View(), nil
}

func (u *Usecase) HandleEvent(ctx context.Context, id model.SessionID, ev model.Event) (model.View, error) {
	s, err := u.session(id)
	if err != nil {
		return model.View{}, err
	}

	if err := s.HandleEvent(context.WithoutCancel(ctx), ev); err != nil {
		return s.View(), err
	}
	return s.View(), nil
}

func (u *Usecase) View(id model.SessionID) (model.View, error) {
	s, err := u.session(id)
	if err != nil {
		return model.View{}, err
	}
	return s.View(), nil
}

// Dismiss drops the session once its presentation surface is gone.
func (u *Usecase) Dismiss(id model.SessionID) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(u.sessions, id)
	return nil
}

func (u *Usecase) session(id model.SessionID) (*Session, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	s, ok := u.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
