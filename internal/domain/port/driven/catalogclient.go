package driven

import (
	"context"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
)

// CatalogClient defines the driven port for read-only access to the
// upstream movie catalog. All listings are paginated 1-based.
type CatalogClient interface {
	Popular(ctx context.Context, page int) ([]model.Movie, error)
	NowPlaying(ctx context.Context, page int) ([]model.Movie, error)
	TopRated(ctx context.Context, page int) ([]model.Movie, error)
	Upcoming(ctx context.Context, page int) ([]model.Movie, error)
	DiscoverByGenre(ctx context.Context, genreID int64, page int) ([]model.Movie, error)
	Search(ctx context.Context, query string, page int) ([]model.Movie, error)

	// TrailerKey returns the YouTube key of the first trailer attached to
	// the movie, or "" when none exists.
	TrailerKey(ctx context.Context, movieID int64) (string, error)
}
