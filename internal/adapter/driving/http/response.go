package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// gateDeniedResponse is the body of a gate denial: where to go to sign in,
// and the origin to resume after a successful login.
type gateDeniedResponse struct {
	Error      string `json:"error"`
	RedirectTo string `json:"redirect_to"`
	From       string `json:"from"`
}

// RegisterRequest is the JSON body for the register endpoint. Confirm is
// optional; when present it must equal Secret.
type RegisterRequest struct {
	Email   string `json:"email"`
	Secret  string `json:"secret"`
	Confirm string `json:"confirm,omitempty"`
}

// LoginRequest is the JSON body for the login endpoint. From is the origin
// carried through the signin detour; it is echoed back as the resume target.
type LoginRequest struct {
	Email    string `json:"email"`
	Secret   string `json:"secret"`
	Remember bool   `json:"remember"`
	From     string `json:"from,omitempty"`
}

// SessionResponse is the JSON representation of the active session.
type SessionResponse struct {
	Email    string `json:"email"`
	ResumeTo string `json:"resume_to,omitempty"`
}

// GateResponse is the JSON representation of an access-gate decision.
type GateResponse struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirect_to,omitempty"`
	From       string `json:"from,omitempty"`
}

// ToggleRequest is the JSON body for the watchlist toggle endpoint: the
// catalog item as the presentation layer holds it. Unknown fields are
// discarded; only the projected fields are ever persisted.
type ToggleRequest struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// WatchlistEntryResponse is the JSON representation of a saved item.
type WatchlistEntryResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	PosterRef string `json:"posterRef"`
}

// ContainsResponse is the JSON representation of a membership check.
type ContainsResponse struct {
	ID    int64 `json:"id"`
	Saved bool  `json:"saved"`
}

// MovieResponse is the JSON representation of a catalog item.
type MovieResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// TrailerResponse is the JSON representation of a movie's trailer lookup.
type TrailerResponse struct {
	MovieID int64  `json:"movie_id"`
	Key     string `json:"key,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toWatchlistResponse converts domain entries to their JSON representation.
func toWatchlistResponse(entries []model.WatchlistEntry) []WatchlistEntryResponse {
	resp := make([]WatchlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, WatchlistEntryResponse{ID: e.ID, Title: e.Title, PosterRef: e.PosterRef})
	}
	return resp
}

// toMovieResponse converts domain movies to their JSON representation.
func toMovieResponse(movies []model.Movie) []MovieResponse {
	resp := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		resp = append(resp, MovieResponse(m))
	}
	return resp
}
