package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// MarkerTTL is the sliding liveness window: while the marker lives, an
	// expired access token may be silently replaced.
	MarkerTTL = 7 * 24 * time.Hour

	// BlacklistTTL bounds how long a superseded token value is remembered.
	// Superseded tokens are already past their own expiry, the hour only has
	// to outlive clients replaying a stale cookie.
	BlacklistTTL = time.Hour
)

func markerKey(userID uint) string    { return fmt.Sprintf("session:%d", userID) }
func blacklistKey(userID uint) string { return fmt.Sprintf("expired:%d", userID) }

// Cache tracks active sessions and superseded tokens in Redis. All
// operations are single-key; the auth protocol never needs a multi-key
// transaction.
type Cache struct {
	client       *redis.Client
	markerTTL    time.Duration
	blacklistTTL time.Duration
}

func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{
		client:       client,
		markerTTL:    MarkerTTL,
		blacklistTTL: BlacklistTTL,
	}, nil
}

// StartSession writes the liveness marker for the user. Logging in again
// simply restarts the 7-day window.
func (c *Cache) StartSession(ctx context.Context, userID uint) error {
	value := fmt.Sprintf("session_started_at_%s", time.Now().UTC().Format(time.RFC3339))
	if err := c.client.Set(ctx, markerKey(userID), value, c.markerTTL).Err(); err != nil {
		return fmt.Errorf("session cache set: %w", err)
	}
	return nil
}

func (c *Cache) SessionAlive(ctx context.Context, userID uint) (bool, error) {
	n, err := c.client.Exists(ctx, markerKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("session cache exists: %w", err)
	}
	return n > 0, nil
}

func (c *Cache) EndSession(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, markerKey(userID)).Err(); err != nil {
		return fmt.Errorf("session cache del: %w", err)
	}
	return nil
}

// BlacklistToken records the exact token value that was superseded for the
// user. Only the most recent value is kept; the protocol suppresses the
// specific replaced token, not every older one.
func (c *Cache) BlacklistToken(ctx context.Context, userID uint, token string) error {
	if err := c.client.Set(ctx, blacklistKey(userID), token, c.blacklistTTL).Err(); err != nil {
		return fmt.Errorf("blacklist set: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the presented token equals the recorded
// superseded value. Exact string match: a forged token that happens to equal
// a blacklisted value is rejected too.
func (c *Cache) IsBlacklisted(ctx context.Context, userID uint, token string) (bool, error) {
	v, err := c.client.Get(ctx, blacklistKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("blacklist get: %w", err)
	}
	return v == token, nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
