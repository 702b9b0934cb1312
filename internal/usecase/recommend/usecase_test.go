package usecase_recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/humanbelnik/movienight/core/internal/model"
	directory_mocks "github.com/humanbelnik/movienight/core/internal/usecase/recommend/mocks/directory"
	presence_mocks "github.com/humanbelnik/movienight/core/internal/usecase/recommend/mocks/presence"
	profile_mocks "github.com/humanbelnik/movienight/core/internal/usecase/recommend/mocks/profile"
	renderer_mocks "github.com/humanbelnik/movienight/core/internal/usecase/recommend/mocks/renderer"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UsecaseRecommendSuite struct {
	suite.Suite
}

type resources struct {
	directory *directory_mocks.Directory
	presence  *presence_mocks.PresenceSource
	profiles  *profile_mocks.ProfileService
	renderer  *renderer_mocks.Renderer
	usecase   *Usecase
}

func initResources(t provider.T, opts ...Option) *resources {
	r := &resources{
		directory: directory_mocks.NewDirectory(t),
		presence:  presence_mocks.NewPresenceSource(t),
		profiles:  profile_mocks.NewProfileService(t),
		renderer:  renderer_mocks.NewRenderer(t),
	}
	r.renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	r.usecase = New(r.directory, r.presence, r.profiles, r.renderer, opts...)
	return r
}

const (
	group     = "guild-1"
	requester = "alice"
	channel   = "voice-1"
)

func accounts(persons ...string) []model.Account {
	out := make([]model.Account, 0, len(persons))
	for _, p := range persons {
		out = append(out, model.Account{Person: p, Handle: p + "_lb"})
	}
	return out
}

func press(control model.ControlID) model.Event {
	return model.Event{Control: control, Identity: requester}
}

func (s *UsecaseRecommendSuite) TestStartHalts(t provider.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")

	testCases := []struct {
		name       string
		req        StartRequest
		setupMocks func(r *resources)
		wantErr    error
	}{
		{
			name: "directory failure",
			req:  StartRequest{GroupID: group, Requester: requester},
			setupMocks: func(r *resources) {
				r.directory.On("ListMembers", mock.Anything, group).Return(nil, dbErr).Once()
			},
			wantErr: ErrDirectory,
		},
		{
			name: "no linked accounts",
			req:  StartRequest{GroupID: group, Requester: requester},
			setupMocks: func(r *resources) {
				r.directory.On("ListMembers", mock.Anything, group).Return([]model.Account{}, nil).Once()
			},
			wantErr: ErrNoLinkedAccounts,
		},
		{
			name: "presence channel unreadable",
			req:  StartRequest{GroupID: group, Requester: requester, PresenceChannel: channel},
			setupMocks: func(r *resources) {
				r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice"), nil).Once()
				r.presence.On("Members", mock.Anything, channel).Return(nil, errors.New("no such key")).Once()
			},
			wantErr: ErrPresence,
		},
		{
			name: "nobody in the presence channel",
			req:  StartRequest{GroupID: group, Requester: requester, PresenceChannel: channel},
			setupMocks: func(r *resources) {
				r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice", "bob"), nil).Once()
				r.presence.On("Members", mock.Anything, channel).Return([]string{"carol"}, nil).Once()
			},
			wantErr: ErrNoPresentMembers,
		},
		{
			name: "list fetch failure",
			req:  StartRequest{GroupID: group, Requester: requester, PresenceChannel: channel},
			setupMocks: func(r *resources) {
				r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice"), nil).Once()
				r.presence.On("Members", mock.Anything, channel).Return([]string{"alice"}, nil).Once()
				r.profiles.On("FetchLists", mock.Anything, "alice_lb").
					Return(model.MovieLists{}, errors.New("timeout")).Once()
			},
			wantErr: ErrProfileFetch,
		},
		{
			name: "empty watchlists",
			req:  StartRequest{GroupID: group, Requester: requester, PresenceChannel: channel},
			setupMocks: func(r *resources) {
				r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice"), nil).Once()
				r.presence.On("Members", mock.Anything, channel).Return([]string{"alice"}, nil).Once()
				r.profiles.On("FetchLists", mock.Anything, "alice_lb").
					Return(model.MovieLists{Watched: films("x")}, nil).Once()
			},
			wantErr: ErrNoCandidates,
		},
		{
			name: "every candidate unrated",
			req:  StartRequest{GroupID: group, Requester: requester, PresenceChannel: channel},
			setupMocks: func(r *resources) {
				r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice"), nil).Once()
				r.presence.On("Members", mock.Anything, channel).Return([]string{"alice"}, nil).Once()
				r.profiles.On("FetchLists", mock.Anything, "alice_lb").
					Return(model.MovieLists{Watchlist: films("x", "y")}, nil).Once()
				r.profiles.On("FetchDetail", mock.Anything, mock.Anything).
					Return(model.MovieDetail{}, nil).Twice()
			},
			wantErr: ErrNoCandidates,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()

			r := initResources(t)
			tc.setupMocks(r)

			view, err := r.usecase.Start(context.Background(), tc.req)
			require.NoError(t, err)

			assert.Equal(t, model.StateHalted, view.State)
			assert.NotEmpty(t, view.Error)
			assert.Nil(t, view.Results)
			assert.Empty(t, view.Controls)

			s, err := r.usecase.session(view.SessionID)
			require.NoError(t, err)
			assert.ErrorIs(t, s.Err(), tc.wantErr)
		})
	}
}

func (s *UsecaseRecommendSuite) TestManualAttendanceNobodyPresent(t provider.T) {
	t.Parallel()

	r := initResources(t)
	r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice", "bob", "carol"), nil).Once()

	view, err := r.usecase.Start(context.Background(), StartRequest{GroupID: group, Requester: requester})
	require.NoError(t, err)
	require.Equal(t, model.StateTakingAttendance, view.State)
	require.Equal(t, "alice", view.Attendance.Active)
	require.Len(t, view.Controls, 4)

	view, err = r.usecase.HandleEvent(context.Background(), view.SessionID, press(model.ControlAbsent))
	require.NoError(t, err)
	assert.Equal(t, "bob", view.Attendance.Active)

	view, err = r.usecase.HandleEvent(context.Background(), view.SessionID, press(model.ControlApplyRemaining))
	require.NoError(t, err)
	assert.True(t, view.Attendance.ApplyToRemaining)
	assert.Equal(t, model.ControlApplyRemaining, view.Controls[3].ID)
	assert.Equal(t, "✅ APPLY TO REMAINING", view.Controls[3].Label)

	view, err = r.usecase.HandleEvent(context.Background(), view.SessionID, press(model.ControlIgnore))
	require.NoError(t, err)

	assert.Equal(t, model.StateHalted, view.State)
	assert.Equal(t, ErrNoPresentMembers.Error(), view.Error)
	assert.Equal(t, []string{"alice"}, view.Attendance.Absent)
	assert.Equal(t, []string{"bob", "carol"}, view.Attendance.Ignored)
	r.profiles.AssertNotCalled(t, "FetchLists", mock.Anything, mock.Anything)
}

func (s *UsecaseRecommendSuite) TestManualAttendanceToResults(t provider.T) {
	t.Parallel()

	r := initResources(t, WithRules(model.ScoringRules{
		WatchlistPresent: 5,
		WatchlistAbsent:  -7,
		WatchedPresent:   -2,
	}))
	r.directory.On("ListMembers", mock.Anything, group).Return(accounts("a", "b", "c", "d", "e"), nil).Once()
	r.profiles.On("FetchLists", mock.Anything, "a_lb").Return(model.MovieLists{Watchlist: films("x")}, nil).Once()
	r.profiles.On("FetchLists", mock.Anything, "b_lb").
		Return(model.MovieLists{Watchlist: films("x", "y"), Watched: films("x")}, nil).Once()
	r.profiles.On("FetchLists", mock.Anything, "c_lb").Return(model.MovieLists{Watchlist: films("y")}, nil).Once()
	r.profiles.On("FetchLists", mock.Anything, "d_lb").Return(model.MovieLists{Watchlist: films("y")}, nil).Once()
	r.profiles.On("FetchDetail", mock.Anything, film("x")).Return(rated(3.9), nil).Once()
	r.profiles.On("FetchDetail", mock.Anything, film("y")).Return(rated(4.4), nil).Once()

	view, err := r.usecase.Start(context.Background(), StartRequest{GroupID: group, Requester: requester})
	require.NoError(t, err)
	id := view.SessionID

	for _, c := range []model.ControlID{
		model.ControlPresent,
		model.ControlPresent,
		model.ControlPresent,
		model.ControlAbsent,
		model.ControlIgnore,
	} {
		view, err = r.usecase.HandleEvent(context.Background(), id, press(c))
		require.NoError(t, err)
	}

	require.Equal(t, model.StatePaginated, view.State)
	require.NotNil(t, view.Results)
	assert.Equal(t, "8\n3\n", view.Results.Score)
	assert.Equal(t, "[Film x](https://www.letterboxd.com/film/x/)\n[Film y](https://www.letterboxd.com/film/y/)\n", view.Results.Title)
	assert.Empty(t, view.Progress)
	assert.Equal(t, []string{"e"}, view.Attendance.Ignored)
	r.profiles.AssertNotCalled(t, "FetchLists", mock.Anything, "e_lb")
}

func (s *UsecaseRecommendSuite) TestPresenceChannelPagination(t provider.T) {
	t.Parallel()

	r := initResources(t, WithPageSize(2))
	r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice", "bob"), nil).Once()
	r.presence.On("Members", mock.Anything, channel).Return([]string{"alice", "bob"}, nil).Once()
	r.profiles.On("FetchLists", mock.Anything, "alice_lb").
		Return(model.MovieLists{Watchlist: films("m00", "m01", "m02")}, nil).Once()
	r.profiles.On("FetchLists", mock.Anything, "bob_lb").
		Return(model.MovieLists{Watchlist: films("m03", "m04")}, nil).Once()
	for i := range 5 {
		r.profiles.On("FetchDetail", mock.Anything, film(fmt.Sprintf("m%02d", i))).
			Return(rated(float64(i)+0.5), nil).Maybe()
	}

	view, err := r.usecase.Start(context.Background(), StartRequest{
		GroupID:         group,
		Requester:       requester,
		PresenceChannel: channel,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatePaginated, view.State)
	assert.Equal(t, 0, view.Results.Page)
	assert.Equal(t, 3, view.Results.TotalPages)
	r.profiles.AssertNumberOfCalls(t, "FetchDetail", 2)

	view, err = r.usecase.HandleEvent(context.Background(), view.SessionID, press(model.ControlLastPage))
	require.NoError(t, err)
	assert.Equal(t, 2, view.Results.Page)
	assert.True(t, view.Controls[2].Disabled)

	view, err = r.usecase.HandleEvent(context.Background(), view.SessionID, press(model.ControlNextPage))
	require.NoError(t, err)
	assert.Equal(t, 2, view.Results.Page)

	view, err = r.usecase.HandleEvent(context.Background(), view.SessionID, press(model.ControlFirstPage))
	require.NoError(t, err)
	assert.Equal(t, 0, view.Results.Page)
	assert.True(t, view.Controls[0].Disabled)
}

func (s *UsecaseRecommendSuite) TestHandleEvent(t provider.T) {
	t.Parallel()

	t.Run("Should ignore presses by anyone but the requester", func(t provider.T) {
		r := initResources(t)
		r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice", "bob"), nil).Once()

		before, err := r.usecase.Start(context.Background(), StartRequest{GroupID: group, Requester: requester})
		require.NoError(t, err)

		after, err := r.usecase.HandleEvent(context.Background(), before.SessionID, model.Event{
			Control:  model.ControlPresent,
			Identity: "mallory",
		})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Should reject controls the state does not offer", func(t provider.T) {
		r := initResources(t)
		r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice"), nil).Once()

		view, err := r.usecase.Start(context.Background(), StartRequest{GroupID: group, Requester: requester})
		require.NoError(t, err)

		_, err = r.usecase.HandleEvent(context.Background(), view.SessionID, press(model.ControlNextPage))
		assert.ErrorIs(t, err, ErrUnsupportedControl)
	})

	t.Run("Should fail for unknown sessions", func(t provider.T) {
		r := initResources(t)

		_, err := r.usecase.HandleEvent(context.Background(), uuid.New(), press(model.ControlPresent))
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func (s *UsecaseRecommendSuite) TestRenderFailureDoesNotHalt(t provider.T) {
	t.Parallel()

	r := &resources{
		directory: directory_mocks.NewDirectory(t),
		presence:  presence_mocks.NewPresenceSource(t),
		profiles:  profile_mocks.NewProfileService(t),
		renderer:  renderer_mocks.NewRenderer(t),
	}
	r.renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("client gone"))
	r.usecase = New(r.directory, r.presence, r.profiles, r.renderer)
	r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice"), nil).Once()

	view, err := r.usecase.Start(context.Background(), StartRequest{GroupID: group, Requester: requester})
	require.NoError(t, err)
	assert.Equal(t, model.StateTakingAttendance, view.State)
}

func (s *UsecaseRecommendSuite) TestDismiss(t provider.T) {
	t.Parallel()

	r := initResources(t)
	r.directory.On("ListMembers", mock.Anything, group).Return(accounts("alice"), nil).Once()

	view, err := r.usecase.Start(context.Background(), StartRequest{GroupID: group, Requester: requester})
	require.NoError(t, err)

	require.NoError(t, r.usecase.Dismiss(view.SessionID))

	_, err = r.usecase.View(view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.usecase.Dismiss(view.SessionID), ErrSessionNotFound)
}

func TestUsecaseRecommendSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseRecommendSuite))
}
