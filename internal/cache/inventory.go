package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix = "user:%d"
	spotKeyPrefix = "spot:%d"
)

// TTLs for cached rows. Aggregates are never cached; they are recomputed
// from current state on every read.
const (
	UserTTL = 5 * time.Minute
	SpotTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func SpotKey(spotID uint) string {
	return fmt.Sprintf(spotKeyPrefix, spotID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateSpot(ctx context.Context, spotID uint) {
	Invalidate(ctx, SpotKey(spotID))
}
