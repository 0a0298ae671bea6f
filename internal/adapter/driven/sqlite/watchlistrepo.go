package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WatchlistStore = (*WatchlistRepo)(nil)

// WatchlistRepo is the SQLite implementation of the WatchlistStore port.
// The whole collection is one JSON array under "movieWishlist"; every
// mutation rewrites it entirely. That is O(n) per toggle, acceptable at the
// expected scale of tens to low hundreds of entries.
//
// The key is profile-global, not namespaced by account: all local accounts
// on the same profile share one list.
type WatchlistRepo struct {
	db *DB
}

// NewWatchlistRepo creates a WatchlistRepo.
func NewWatchlistRepo(db *DB) *WatchlistRepo {
	return &WatchlistRepo{db: db}
}

// load reads the full collection. An absent or unparsable record yields an
// empty collection rather than an error.
func (r *WatchlistRepo) load(ctx context.Context) ([]model.WatchlistEntry, error) {
	raw, ok, err := getValue(ctx, r.db, keyWishlist)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.WatchlistEntry{}, nil
	}

	var entries []model.WatchlistEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Debug("malformed watchlist, treating as empty", "error", err)
		return []model.WatchlistEntry{}, nil
	}
	if entries == nil {
		entries = []model.WatchlistEntry{}
	}
	return entries, nil
}

// save rewrites the full collection.
func (r *WatchlistRepo) save(ctx context.Context, entries []model.WatchlistEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal watchlist: %w", err)
	}
	return setValue(ctx, r.db, keyWishlist, string(data))
}

// IsSaved reports whether an entry with the given id is in the list.
func (r *WatchlistRepo) IsSaved(ctx context.Context, id int64) (bool, error) {
	entries, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		if e.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Toggle flips membership for the movie: removes its entry if present, else
// appends the trimmed projection. The resulting collection is persisted
// whole and returned. Two back-to-back toggles restore the original state.
func (r *WatchlistRepo) Toggle(ctx context.Context, movie model.Movie) ([]model.WatchlistEntry, error) {
	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	kept := entries[:0:0]
	removed := false
	for _, e := range entries {
		if e.ID == movie.ID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		kept = append(kept, model.NewWatchlistEntry(movie))
	}
	if kept == nil {
		kept = []model.WatchlistEntry{}
	}

	if err := r.save(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// List returns the collection in stored order. Never nil.
func (r *WatchlistRepo) List(ctx context.Context) ([]model.WatchlistEntry, error) {
	return r.load(ctx)
}
