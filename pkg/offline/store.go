// Package offline persists the last known serialized stat value
// document per user, so a user signing in without connectivity can
// resume from their latest local copy.
package offline

import "context"

// Store is a keyed byte store for serialized stat value documents.
type Store interface {
	// Save stores the document for the user, replacing any previous copy.
	Save(ctx context.Context, userID string, doc []byte) error

	// Load returns the stored document and whether one exists.
	Load(ctx context.Context, userID string) ([]byte, bool, error)

	// Delete removes the stored document, if any.
	Delete(ctx context.Context, userID string) error
}
