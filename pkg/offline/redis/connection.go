package redis

import (
	"fmt"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
)

// NewConnection creates and returns a new Redis offline store
func NewConnection(cfg *settings.Redis) (*Store, error) {
	store := &Store{
		config: cfg,
	}

	if err := store.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return store, nil
}
