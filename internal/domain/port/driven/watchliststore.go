package driven

import (
	"context"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
)

// WatchlistStore defines the driven port for the durable saved-items list.
// The list is a set keyed by entry id, represented as a sequence in
// insertion order. Every mutation rewrites the whole persisted collection.
type WatchlistStore interface {
	// IsSaved reports whether an entry with the given id is in the list.
	IsSaved(ctx context.Context, id int64) (bool, error)

	// Toggle flips membership: removes the entry if present, else appends
	// the trimmed projection of movie. Returns the resulting collection.
	Toggle(ctx context.Context, movie model.Movie) ([]model.WatchlistEntry, error)

	// List returns the collection in stored order. Never nil.
	List(ctx context.Context) ([]model.WatchlistEntry, error)
}
