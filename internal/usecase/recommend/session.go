package usecase_recommend

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/humanbelnik/movienight/core/internal/metrics"
	"github.com/humanbelnik/movienight/core/internal/model"
)

type sessionDeps struct {
	directory Directory
	presence  PresenceSource
	profiles  ProfileService
	renderer  Renderer
	enricher  *RatingEnricher
}

// Session is one run of the recommendation workflow. All of its methods hold
// mu for their whole duration, so a pipeline step and an event never
// interleave.
type Session struct {
	mu sync.Mutex

	id              model.SessionID
	groupID         string
	requester       string
	presenceChannel string
	rules           model.ScoringRules

	deps   *sessionDeps
	logger *slog.Logger

	state    model.SessionState
	err      error
	progress []string
	// results were on screen at least once
	shown bool

	members    []*model.GroupMember
	attendance *AttendanceCollector
	pool       *CandidatePool
	paginator  *Paginator

	view model.View
}

type handler func(s *Session, ctx context.Context)

// transitions is the dispatch table from (state, control) to the action.
var transitions = map[model.SessionState]map[model.ControlID]handler{
	model.StateTakingAttendance: {
		model.ControlPresent:        decideWith(model.AttendancePresent),
		model.ControlIgnore:         decideWith(model.AttendanceIgnored),
		model.ControlAbsent:         decideWith(model.AttendanceAbsent),
		model.ControlApplyRemaining: (*Session).toggleApplyToRemaining,
	},
	model.StatePaginated: {
		model.ControlFirstPage: navigateWith(model.ControlFirstPage),
		model.ControlPrevPage:  navigateWith(model.ControlPrevPage),
		model.ControlNextPage:  navigateWith(model.ControlNextPage),
		model.ControlLastPage:  navigateWith(model.ControlLastPage),
	},
}

func decideWith(status model.Attendance) handler {
	return func(s *Session, ctx context.Context) {
		s.decide(ctx, status)
	}
}

func navigateWith(control model.ControlID) handler {
	return func(s *Session, ctx context.Context) {
		s.navigate(ctx, control)
	}
}

func (s *Session) ID() model.SessionID {
	return s.id
}

func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that halted the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// View returns the last rendered view.
func (s *Session) View() model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Run drives the session until it needs input from the requester or reaches
// a terminal state.
func (s *Session) Run(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = model.StateGatheringAccounts
	s.note("Recommendation initiated...")

	if err := s.gatherAccounts(ctx); err != nil {
		s.halt(ctx, err)
		return
	}

	if s.presenceChannel != "" {
		if err := s.takeAutomaticAttendance(ctx); err != nil {
			s.halt(ctx, err)
			return
		}
		s.afterAttendance(ctx)
		return
	}

	s.attendance = NewAttendanceCollector(s.members)
	s.state = model.StateTakingAttendance
	s.note("Waiting for attendance to be finished...")
	s.render(ctx)
}

// HandleEvent applies a control press. Presses by anyone but the requester
// are dropped without a trace in the session state.
func (s *Session) HandleEvent(ctx context.Context, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Identity != s.requester {
		s.logger.Debug("ignoring control from non-requester",
			slog.String("control", string(ev.Control)),
			slog.String("identity", ev.Identity),
		)
		return nil
	}

	h, ok := transitions[s.state][ev.Control]
	if !ok {
		return fmt.Errorf("%w: %s in state %s", ErrUnsupportedControl, ev.Control, s.state)
	}

	h(s, ctx)
	return nil
}

func (s *Session) gatherAccounts(ctx context.Context) error {
	s.note("Finding linked accounts...")
	s.render(ctx)

	accounts, err := s.deps.directory.ListMembers(ctx, s.groupID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDirectory, err)
	}
	if len(accounts) == 0 {
		return ErrNoLinkedAccounts
	}

	s.members = make([]*model.GroupMember, 0, len(accounts))
	for _, a := range accounts {
		s.members = append(s.members, model.NewGroupMember(a))
	}
	return nil
}

func (s *Session) takeAutomaticAttendance(ctx context.Context) error {
	s.note(fmt.Sprintf("Taking attendance from channel %s...", s.presenceChannel))
	s.render(ctx)

	if s.deps.presence == nil {
		return fmt.Errorf("%w: no presence source configured", ErrPresence)
	}
	snapshot, err := s.deps.presence.Members(ctx, s.presenceChannel)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPresence, err)
	}

	s.attendance = CollectAutomatic(s.members, snapshot)
	return nil
}

func (s *Session) decide(ctx context.Context, status model.Attendance) {
	s.attendance.Apply(status)
	if !s.attendance.Done() {
		s.render(ctx)
		return
	}
	s.afterAttendance(ctx)
}

func (s *Session) toggleApplyToRemaining(ctx context.Context) {
	s.attendance.ToggleApplyToRemaining()
	s.render(ctx)
}

func (s *Session) afterAttendance(ctx context.Context) {
	s.state = model.StateAttendanceComplete
	s.render(ctx)

	if s.attendance.PresentCount() == 0 {
		s.halt(ctx, ErrNoPresentMembers)
		return
	}

	if err := s.collect(ctx); err != nil {
		s.halt(ctx, err)
		return
	}

	s.state = model.StateScoring
	s.note("Checking which movies have already been seen by people...")
	s.render(ctx)

	s.pool = Aggregate(s.members, s.rules)
	if s.pool.Len() == 0 {
		s.halt(ctx, ErrNoCandidates)
		return
	}

	s.state = model.StateEnriching
	s.note("Objectively calculating how good each movie is...")
	s.render(ctx)

	if err := s.paginator.Show(ctx, s.pool, s.deps.enricher, 0); err != nil {
		s.halt(ctx, err)
		return
	}
	if s.pool.Len() == 0 {
		s.halt(ctx, ErrNoCandidates)
		return
	}

	s.state = model.StatePaginated
	s.shown = true
	metrics.SessionsPaginated.Inc()
	s.logger.Info("recommendation ready",
		slog.Int("candidates", s.pool.Len()),
		slog.Int("pages", s.paginator.Total()),
	)
	s.render(ctx)
}

// collect fetches lists in directory order. Ignored members contribute
// nothing, so their lists are never requested.
func (s *Session) collect(ctx context.Context) error {
	s.state = model.StateCollecting
	s.note("Collecting movies in watchlists...")
	s.render(ctx)

	for _, m := range s.members {
		if m.Attendance == model.AttendanceIgnored {
			continue
		}
		lists, err := s.deps.profiles.FetchLists(ctx, m.Account)
		if err != nil {
			return fmt.Errorf("%w: account %s: %w", ErrProfileFetch, m.Account, err)
		}
		m.Lists = lists
	}
	return nil
}

func (s *Session) navigate(ctx context.Context, control model.ControlID) {
	target := s.paginator.Target(control)
	if err := s.paginator.Show(ctx, s.pool, s.deps.enricher, target); err != nil {
		s.halt(ctx, err)
		return
	}
	s.render(ctx)
}

func (s *Session) halt(ctx context.Context, err error) {
	s.state = model.StateHalted
	s.err = err

	s.logger.Error("recommendation halted", slog.String("error", err.Error()))
	metrics.SessionsHalted.WithLabelValues(haltReason(err)).Inc()

	s.render(ctx)
}

func (s *Session) note(line string) {
	s.progress = append(s.progress, line)
}

func (s *Session) render(ctx context.Context) {
	s.view = s.buildView()
	if err := s.deps.renderer.Render(ctx, s.id, s.view); err != nil {
		s.logger.Warn("failed to render session",
			slog.String("state", string(s.state)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Session) buildView() model.View {
	v := model.View{
		SessionID: s.id,
		State:     s.state,
	}

	switch s.state {
	case model.StateHalted:
		v.Error = s.err.Error()
	case model.StatePaginated:
	default:
		v.Progress = slices.Clone(s.progress)
	}

	if s.attendance != nil {
		present, ignored, absent := s.attendance.Roll()
		v.Attendance = &model.AttendancePanel{
			Present:          present,
			Ignored:          ignored,
			Absent:           absent,
			ApplyToRemaining: s.attendance.ApplyToRemaining(),
		}
		if active := s.attendance.Active(); active != nil {
			v.Attendance.Active = active.Person
		}
	}

	switch {
	case s.state == model.StateTakingAttendance:
		v.Controls = attendanceControls(s.attendance.ApplyToRemaining())
	case s.state == model.StatePaginated:
		v.Results = s.paginator.Panel(s.pool)
		v.Controls = s.paginator.Controls()
	case s.shown:
		v.Results = s.paginator.Panel(s.pool)
	}

	return v
}

func attendanceControls(applyToAll bool) []model.Control {
	toggle := "🟩 APPLY TO REMAINING"
	if applyToAll {
		toggle = "✅ APPLY TO REMAINING"
	}
	return []model.Control{
		{ID: model.ControlPresent, Label: "PRESENT"},
		{ID: model.ControlIgnore, Label: "IGNORE"},
		{ID: model.ControlAbsent, Label: "ABSENT"},
		{ID: model.ControlApplyRemaining, Label: toggle},
	}
}
