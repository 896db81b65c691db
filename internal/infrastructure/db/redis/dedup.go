package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker suppresses duplicate notification deliveries backed by Redis.
// A delivery is considered duplicate when the same user receives the same
// title and message within dedupTTL (retried enqueues, double-fired updates).
// Key format: notif:<user_id>:<sha256(title|message)>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this delivery has already been made recently.
func (d *DedupChecker) IsDuplicate(ctx context.Context, userID int64, title, message string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(userID, title, message)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this delivery has been made (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, userID int64, title, message string) error {
	return d.client.Set(ctx, d.key(userID, title, message), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(userID int64, title, message string) string {
	sum := sha256.Sum256([]byte(title + "|" + message))
	return fmt.Sprintf("notif:%d:%s", userID, hex.EncodeToString(sum[:]))
}
