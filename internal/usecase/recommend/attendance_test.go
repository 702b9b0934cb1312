package usecase_recommend

import (
	"testing"

	"github.com/humanbelnik/movienight/core/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type AttendanceSuite struct {
	suite.Suite
}

func undecided(persons ...string) []*model.GroupMember {
	out := make([]*model.GroupMember, 0, len(persons))
	for _, p := range persons {
		out = append(out, model.NewGroupMember(model.Account{Person: p, Handle: p + "_lb"}))
	}
	return out
}

func (s *AttendanceSuite) TestApplyOneByOne(t provider.T) {
	t.Parallel()

	c := NewAttendanceCollector(undecided("a", "b", "c"))

	require.Equal(t, "a", c.Active().Person)
	c.Apply(model.AttendancePresent)
	require.Equal(t, "b", c.Active().Person)
	c.Apply(model.AttendanceIgnored)
	require.Equal(t, "c", c.Active().Person)
	c.Apply(model.AttendanceAbsent)

	assert.True(t, c.Done())
	assert.Nil(t, c.Active())

	present, ignored, absent := c.Roll()
	assert.Equal(t, []string{"a"}, present)
	assert.Equal(t, []string{"b"}, ignored)
	assert.Equal(t, []string{"c"}, absent)
	assert.Equal(t, 1, c.PresentCount())
}

func (s *AttendanceSuite) TestApplyToRemaining(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		steps       func(c *AttendanceCollector)
		wantPresent []string
		wantAbsent  []string
		wantDone    bool
	}{
		{
			name: "toggle on marks every undecided member at once",
			steps: func(c *AttendanceCollector) {
				c.Apply(model.AttendancePresent)
				c.ToggleApplyToRemaining()
				c.Apply(model.AttendanceAbsent)
			},
			wantPresent: []string{"a"},
			wantAbsent:  []string{"b", "c", "d"},
			wantDone:    true,
		},
		{
			name: "toggle twice marks only the active member",
			steps: func(c *AttendanceCollector) {
				c.ToggleApplyToRemaining()
				c.ToggleApplyToRemaining()
				c.Apply(model.AttendanceAbsent)
			},
			wantPresent: []string{},
			wantAbsent:  []string{"a"},
			wantDone:    false,
		},
		{
			name: "toggle before the first decision",
			steps: func(c *AttendanceCollector) {
				c.ToggleApplyToRemaining()
				c.Apply(model.AttendancePresent)
			},
			wantPresent: []string{"a", "b", "c", "d"},
			wantAbsent:  []string{},
			wantDone:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()

			c := NewAttendanceCollector(undecided("a", "b", "c", "d"))
			tc.steps(c)

			present, _, absent := c.Roll()
			assert.Equal(t, tc.wantPresent, present)
			assert.Equal(t, tc.wantAbsent, absent)
			assert.Equal(t, tc.wantDone, c.Done())
		})
	}
}

func (s *AttendanceSuite) TestApplyAfterDoneIsNoop(t provider.T) {
	t.Parallel()

	c := NewAttendanceCollector(undecided("a"))
	c.Apply(model.AttendanceIgnored)
	c.Apply(model.AttendancePresent)
	c.Apply(model.AttendanceUnset)

	_, ignored, _ := c.Roll()
	assert.Equal(t, []string{"a"}, ignored)
	assert.Equal(t, 0, c.PresentCount())
}

func (s *AttendanceSuite) TestCollectAutomatic(t provider.T) {
	t.Parallel()

	members := undecided("a", "b", "c")
	c := CollectAutomatic(members, []string{"c", "stranger", "a"})

	assert.True(t, c.Done())
	present, ignored, absent := c.Roll()
	assert.Equal(t, []string{"a", "c"}, present)
	assert.Empty(t, ignored)
	assert.Equal(t, []string{"b"}, absent)
}

func TestAttendanceSuite(t *testing.T) {
	suite.RunSuite(t, new(AttendanceSuite))
}
