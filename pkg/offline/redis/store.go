package redis

import (
	"context"
	"fmt"
	"time"

	redisV9 "github.com/redis/go-redis/v9"

	"github.com/huynhanx03/go-titlesync/pkg/offline"
	"github.com/huynhanx03/go-titlesync/pkg/settings"
	"github.com/huynhanx03/go-titlesync/pkg/utils"
)

const (
	defaultPoolSize        = 10
	defaultMinIdleConns    = 5
	defaultPoolTimeout     = 5
	defaultDialTimeout     = 5
	defaultReadTimeout     = 3
	defaultWriteTimeout    = 3
	defaultMaxRetries      = 3
	defaultMinRetryBackoff = 300 // millis
	defaultMaxRetryBackoff = 500 // millis

	keyPrefix = "svd:"
)

// Store keeps stat value documents in Redis, keyed by user id.
type Store struct {
	client *redisV9.Client
	config *settings.Redis
}

var _ offline.Store = (*Store)(nil)

// connect initializes the Redis client
func (s *Store) connect() error {
	s.setDefaultConfig()

	// Build address
	addr := s.config.Host
	if s.config.Port > 0 {
		addr = fmt.Sprintf("%s:%d", addr, s.config.Port)
	}

	s.client = redisV9.NewClient(&redisV9.Options{
		Addr:            addr,
		Password:        s.config.Password,
		DB:              s.config.Database,
		PoolSize:        s.config.PoolSize,
		MinIdleConns:    s.config.MinIdleConns,
		MaxRetries:      s.config.MaxRetries,
		DialTimeout:     utils.ToDuration(s.config.DialTimeout),
		ReadTimeout:     utils.ToDuration(s.config.ReadTimeout),
		WriteTimeout:    utils.ToDuration(s.config.WriteTimeout),
		PoolTimeout:     utils.ToDuration(s.config.PoolTimeout),
		MinRetryBackoff: utils.ToDurationMs(s.config.MinRetryBackoff),
		MaxRetryBackoff: utils.ToDurationMs(s.config.MaxRetryBackoff),
	})

	// Ping test
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPingFailed, err)
	}

	return nil
}

// setDefaultConfig sets default values for Redis configuration
func (s *Store) setDefaultConfig() {
	if s.config.PoolSize == 0 {
		s.config.PoolSize = defaultPoolSize
	}
	if s.config.MinIdleConns == 0 {
		s.config.MinIdleConns = defaultMinIdleConns
	}
	if s.config.PoolTimeout == 0 {
		s.config.PoolTimeout = defaultPoolTimeout
	}
	if s.config.DialTimeout == 0 {
		s.config.DialTimeout = defaultDialTimeout
	}
	if s.config.ReadTimeout == 0 {
		s.config.ReadTimeout = defaultReadTimeout
	}
	if s.config.WriteTimeout == 0 {
		s.config.WriteTimeout = defaultWriteTimeout
	}
	if s.config.MaxRetries == 0 {
		s.config.MaxRetries = defaultMaxRetries
	}
	if s.config.MinRetryBackoff == 0 {
		s.config.MinRetryBackoff = defaultMinRetryBackoff
	}
	if s.config.MaxRetryBackoff == 0 {
		s.config.MaxRetryBackoff = defaultMaxRetryBackoff
	}
}

func key(userID string) string {
	return keyPrefix + userID
}

// Save stores the document for the user
func (s *Store) Save(ctx context.Context, userID string, doc []byte) error {
	return s.client.Set(ctx, key(userID), doc, 0).Err()
}

// Load returns the stored document and whether one exists
func (s *Store) Load(ctx context.Context, userID string) ([]byte, bool, error) {
	byteValue, err := s.client.Get(ctx, key(userID)).Bytes()
	if err == redisV9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return byteValue, true, nil
}

// Delete removes the stored document
func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, key(userID)).Err()
}

// Close closes the Redis client
func (s *Store) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Client returns the underlying redis client (Escape hatch)
func (s *Store) Client() *redisV9.Client {
	return s.client
}
