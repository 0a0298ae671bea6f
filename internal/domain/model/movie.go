package model

// Movie is a catalog item as returned by the upstream catalog API. Only the
// fields the application reads are mapped; the upstream payload carries more.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// WatchlistEntry is the minimal projection of a Movie retained in the saved
// list: just enough to redisplay the item without another catalog call.
type WatchlistEntry struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	PosterRef string `json:"posterRef"`
}

// NewWatchlistEntry trims a catalog item down to the persisted projection.
// Narrowing happens here, at the boundary where the core ingests catalog
// records, so loosely-shaped upstream payloads never travel deeper.
func NewWatchlistEntry(m Movie) WatchlistEntry {
	return WatchlistEntry{
		ID:        m.ID,
		Title:     m.Title,
		PosterRef: m.PosterPath,
	}
}
