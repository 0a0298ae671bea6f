package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
	"github.com/ericfisherdev/watchdeck/internal/metrics"
)

// WatchlistService fronts the durable saved-items list. Toggle is a
// membership flip, not a set-to: callers needing "ensure present" must
// check IsSaved first.
type WatchlistService struct {
	store    driven.WatchlistStore
	recorder metrics.Recorder
}

// NewWatchlistService creates a WatchlistService.
func NewWatchlistService(store driven.WatchlistStore, recorder metrics.Recorder) *WatchlistService {
	return &WatchlistService{store: store, recorder: recorder}
}

// IsSaved reports whether the item is in the list.
func (s *WatchlistService) IsSaved(ctx context.Context, id int64) (bool, error) {
	saved, err := s.store.IsSaved(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check watchlist membership: %w", err)
	}
	return saved, nil
}

// Toggle flips membership for the movie and returns the resulting
// collection.
func (s *WatchlistService) Toggle(ctx context.Context, movie model.Movie) ([]model.WatchlistEntry, error) {
	wasSaved, err := s.store.IsSaved(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("check watchlist membership: %w", err)
	}

	entries, err := s.store.Toggle(ctx, movie)
	if err != nil {
		return nil, fmt.Errorf("toggle watchlist entry: %w", err)
	}

	action := metrics.ActionAdd
	if wasSaved {
		action = metrics.ActionRemove
	}
	s.recorder.RecordWatchlistToggle(action)

	return entries, nil
}

// List returns the collection in stored order.
func (s *WatchlistService) List(ctx context.Context) ([]model.WatchlistEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return entries, nil
}
