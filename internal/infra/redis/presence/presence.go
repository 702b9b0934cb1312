package infra_redis_presence

import (
	"context"
	"errors"

	"github.com/go-redis/redis"
)

var ErrPresenceChannelNotFound = errors.New("presence channel not found")

// Driver reads presence snapshots published by the chat gateway.
// Every known channel is a member of the <prefix>:channels set and the people
// currently connected to it live in the <prefix>:<channel> set. An empty
// channel has no member set at all.
type Driver struct {
	client *redis.Client
	key    string
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Members(ctx context.Context, channelID string) ([]string, error) {
	c := d.client.WithContext(ctx)

	known, err := c.SIsMember(d.getFullKey("channels"), channelID).Result()
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrPresenceChannelNotFound
	}

	members, err := c.SMembers(d.getFullKey(channelID)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	return members, nil
}

// Join and Leave are used by the gateway side and by tests.
func (d *Driver) Join(ctx context.Context, channelID string, people ...string) error {
	c := d.client.WithContext(ctx)

	if err := c.SAdd(d.getFullKey("channels"), channelID).Err(); err != nil {
		return err
	}
	if len(people) == 0 {
		return nil
	}

	members := make([]interface{}, 0, len(people))
	for _, p := range people {
		members = append(members, p)
	}
	return c.SAdd(d.getFullKey(channelID), members...).Err()
}

func (d *Driver) Leave(ctx context.Context, channelID string, person string) error {
	return d.client.WithContext(ctx).SRem(d.getFullKey(channelID), person).Err()
}

func (d *Driver) getFullKey(key string) string {
	if d.key != "" {
		return d.key + ":" + key
	}
	return key
}
