package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/seladavis/forgebot/internal/domain"
)

const (
	nameCachePrefix = "slack_user_names:2:"
	nameCacheTTL    = 30 * 24 * time.Hour
)

// NameCache stores resolved user names so the chat platform's user listing
// is hit at most once a month per user.
type NameCache struct {
	rdb *goredis.Client
}

func NewNameCache(client *Client) *NameCache {
	return &NameCache{rdb: client.rdb}
}

// Get returns the cached name set for the user, or (nil, nil) on a miss.
// A malformed cache entry is treated as a miss so the caller refreshes it.
func (c *NameCache) Get(ctx context.Context, userID string) (*domain.UserNames, error) {
	data, err := c.rdb.Get(ctx, nameCachePrefix+userID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached names: %w", err)
	}

	var names domain.UserNames
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, nil
	}
	return &names, nil
}

// Set caches the name set for thirty days.
func (c *NameCache) Set(ctx context.Context, userID string, names *domain.UserNames) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal names: %w", err)
	}
	if err := c.rdb.SetEx(ctx, nameCachePrefix+userID, data, nameCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache names: %w", err)
	}
	return nil
}
