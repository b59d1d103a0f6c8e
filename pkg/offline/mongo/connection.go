package mongo

import (
	"context"
	"fmt"
	"time"

	mongoV1 "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
)

// NewConnection creates and returns a new MongoDB offline store
func NewConnection(cfg *settings.MongoDB) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongoV1.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrPingFailed, err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(collection),
		config: cfg,
	}, nil
}
