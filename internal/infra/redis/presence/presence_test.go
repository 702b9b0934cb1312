package infra_redis_presence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type PresenceSuite struct {
	suite.Suite
}

func newDriver(t provider.T) *Driver {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, "presence")
}

func (s *PresenceSuite) TestMembers(t provider.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Should return the people in the channel", func(t provider.T) {
		d := newDriver(t)
		require.NoError(t, d.Join(ctx, "voice-1", "alice", "bob"))

		members, err := d.Members(ctx, "voice-1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice", "bob"}, members)
	})

	t.Run("Should return an empty snapshot for a known empty channel", func(t provider.T) {
		d := newDriver(t)
		require.NoError(t, d.Join(ctx, "voice-1", "alice"))
		require.NoError(t, d.Leave(ctx, "voice-1", "alice"))

		members, err := d.Members(ctx, "voice-1")
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("Should fail for unknown channels", func(t provider.T) {
		d := newDriver(t)

		_, err := d.Members(ctx, "voice-404")
		assert.ErrorIs(t, err, ErrPresenceChannelNotFound)
	})
}

func TestPresenceSuite(t *testing.T) {
	suite.RunSuite(t, new(PresenceSuite))
}
