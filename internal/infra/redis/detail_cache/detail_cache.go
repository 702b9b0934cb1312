package infra_redis_detail_cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/movienight/core/internal/model"
)

// Driver keeps film details fetched from the profile service.
type Driver struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func New(
	client *redis.Client,
	key string,
	ttl time.Duration,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (d *Driver) Set(ctx context.Context, slug string, detail model.MovieDetail) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	return d.client.WithContext(ctx).Set(d.getFullKey(slug), raw, d.ttl).Err()
}

// Get reports ok=false on a cache miss.
func (d *Driver) Get(ctx context.Context, slug string) (model.MovieDetail, bool, error) {
	val, err := d.client.WithContext(ctx).Get(d.getFullKey(slug)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return model.MovieDetail{}, false, nil
		}
		return model.MovieDetail{}, false, err
	}

	var detail model.MovieDetail
	if err := json.Unmarshal(val, &detail); err != nil {
		return model.MovieDetail{}, false, err
	}
	return detail, true, nil
}

func (d *Driver) getFullKey(key string) string {
	if d.key != "" {
		return d.key + ":" + key
	}
	return key
}
