package cache

import (
	"context"
	"fmt"
	"time"
)

// Key inventory. All cached values are keyed by owner so invalidation on
// write stays a single DEL per collection.
const (
	ProfileKeyPrefix = "profile:%d"
	BedsKeyPrefix    = "beds:%d"
	EntriesKeyPrefix = "entries:%d"
)

const (
	ProfileTTL = 5 * time.Minute
	BedsTTL    = 10 * time.Minute
	EntriesTTL = 2 * time.Minute
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func BedsKey(ownerID uint) string {
	return fmt.Sprintf(BedsKeyPrefix, ownerID)
}

func EntriesKey(ownerID uint) string {
	return fmt.Sprintf(EntriesKeyPrefix, ownerID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidateBeds(ctx context.Context, ownerID uint) {
	Invalidate(ctx, BedsKey(ownerID))
}

func InvalidateEntries(ctx context.Context, ownerID uint) {
	Invalidate(ctx, EntriesKey(ownerID))
}
