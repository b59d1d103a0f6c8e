package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongoV1 "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/huynhanx03/go-titlesync/pkg/offline"
	"github.com/huynhanx03/go-titlesync/pkg/settings"
	"github.com/huynhanx03/go-titlesync/pkg/utils"
)

const (
	defaultTimeout    = 10 // Seconds
	defaultCollection = "stat_documents"
)

type record struct {
	UserID    string    `bson:"_id"`
	Document  []byte    `bson:"document"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store keeps stat value documents in a MongoDB collection, one record
// per user.
type Store struct {
	client *mongoV1.Client
	coll   *mongoV1.Collection
	config *settings.MongoDB
}

var _ offline.Store = (*Store)(nil)

func (s *Store) timeout() time.Duration {
	t := s.config.Timeout
	if t == 0 {
		t = defaultTimeout
	}
	return utils.ToDuration(t)
}

// Save stores the document for the user
func (s *Store) Save(ctx context.Context, userID string, doc []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	update := bson.M{"$set": record{UserID: userID, Document: doc, UpdatedAt: time.Now()}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

// Load returns the stored document and whether one exists
func (s *Store) Load(ctx context.Context, userID string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var rec record
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&rec)
	if err == mongoV1.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Document, true, nil
}

// Delete removes the stored document
func (s *Store) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}

// Close disconnects the MongoDB client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
