// Package httphandler is the HTTP driving adapter exposing the core
// operations (register, login, logout, currentSession, gateCheck, isSaved,
// toggle, list) plus catalog reads as a localhost JSON API.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/ericfisherdev/watchdeck/internal/application"
	"github.com/ericfisherdev/watchdeck/internal/domain/model"
	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
	"github.com/ericfisherdev/watchdeck/internal/metrics"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	sessions  *application.SessionService
	gate      *application.AccessGate
	watchlist *application.WatchlistService
	catalog   driven.CatalogClient
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	sessions *application.SessionService,
	gate *application.AccessGate,
	watchlist *application.WatchlistService,
	catalog driven.CatalogClient,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:  sessions,
		gate:      gate,
		watchlist: watchlist,
		catalog:   catalog,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and
// wrapped with request-id, logging, and recovery middleware. Every
// watchlist and catalog route passes through the access gate, so deep
// links and repeated navigations are checked the same as initial entries.
// gatherer serves the /metrics route.
func NewServeMux(h *Handler, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// 5 attempts per client burst, refilling one per 2 seconds.
	limiter := newAuthLimiter(rate.Limit(0.5), 5)

	mux.Handle("POST /api/v1/auth/register", limiter.middleware(http.HandlerFunc(h.RegisterAccount)))
	mux.Handle("POST /api/v1/auth/login", limiter.middleware(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/v1/auth/session", h.CurrentSession)
	mux.HandleFunc("GET /api/v1/auth/gate", h.GateCheck)

	mux.Handle("GET /api/v1/watchlist", h.protected(h.ListWatchlist))
	mux.Handle("POST /api/v1/watchlist/toggle", h.protected(h.ToggleWatchlist))
	mux.Handle("GET /api/v1/watchlist/contains/{id}", h.protected(h.WatchlistContains))

	mux.Handle("GET /api/v1/movies/popular", h.protected(h.listCatalog(h.catalog.Popular)))
	mux.Handle("GET /api/v1/movies/now-playing", h.protected(h.listCatalog(h.catalog.NowPlaying)))
	mux.Handle("GET /api/v1/movies/top-rated", h.protected(h.listCatalog(h.catalog.TopRated)))
	mux.Handle("GET /api/v1/movies/upcoming", h.protected(h.listCatalog(h.catalog.Upcoming)))
	mux.Handle("GET /api/v1/movies/search", h.protected(h.SearchMovies))
	mux.Handle("GET /api/v1/movies/discover", h.protected(h.DiscoverMovies))
	mux.Handle("GET /api/v1/movies/{id}/trailer", h.protected(h.MovieTrailer))

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", metrics.Handler(gatherer))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// protected consults the access gate before entering next. A denial answers
// 401 with the signin entry point and the origin the client was headed to.
func (h *Handler) protected(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, err := h.gate.Check(r.Context(), r.URL.Path)
		if err != nil {
			h.logger.Error("gate check failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if !decision.Allow {
			writeJSON(w, http.StatusUnauthorized, gateDeniedResponse{
				Error:      "signin required",
				RedirectTo: decision.RedirectTo,
				From:       decision.From,
			})
			return
		}

		next(w, r)
	})
}

// RegisterAccount creates a new account. Registration never signs the
// caller in; a subsequent login is required.
func (h *Handler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.sessions.Register(r.Context(), req.Email, req.Secret, req.Confirm)
	switch {
	case errors.Is(err, application.ErrInvalidEmail),
		errors.Is(err, application.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, driven.ErrDuplicateAccount):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.logger.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		writeJSON(w, http.StatusCreated, SessionResponse{Email: req.Email})
	}
}

// Login authenticates and commits the session. The origin carried in the
// request is echoed back as the resume target, defaulting to the root.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.sessions.Login(r.Context(), req.Email, req.Secret, req.Remember)
	switch {
	case errors.Is(err, application.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrKeyRejected):
		writeError(w, http.StatusUnauthorized, err.Error())
	case err != nil:
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		resumeTo := req.From
		if resumeTo == "" {
			resumeTo = "/"
		}
		writeJSON(w, http.StatusOK, SessionResponse{Email: account.ID, ResumeTo: resumeTo})
	}
}

// Logout clears the session. Always succeeds, signed in or not.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CurrentSession reports the active session, 404 when anonymous.
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.Current(r.Context())
	if err != nil {
		h.logger.Error("read session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "not signed in")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Email: account.ID})
}

// GateCheck exposes the access gate directly: ?to= names the navigation
// target the caller wants to enter.
func (h *Handler) GateCheck(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("to")
	if origin == "" {
		origin = "/"
	}

	decision, err := h.gate.Check(r.Context(), origin)
	if err != nil {
		h.logger.Error("gate check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, GateResponse{
		Allow:      decision.Allow,
		RedirectTo: decision.RedirectTo,
		From:       decision.From,
	})
}

// ListWatchlist returns the saved items in stored order.
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlist.List(r.Context())
	if err != nil {
		h.logger.Error("list watchlist failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toWatchlistResponse(entries))
}

// ToggleWatchlist flips membership for the posted catalog item and returns
// the resulting collection.
func (h *Handler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	entries, err := h.watchlist.Toggle(r.Context(), model.Movie(req))
	if err != nil {
		h.logger.Error("toggle watchlist failed", "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toWatchlistResponse(entries))
}

// WatchlistContains reports membership for a single item id.
func (h *Handler) WatchlistContains(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	saved, err := h.watchlist.IsSaved(r.Context(), id)
	if err != nil {
		h.logger.Error("watchlist membership check failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, ContainsResponse{ID: id, Saved: saved})
}

// listCatalog adapts a paginated catalog listing into a handler.
func (h *Handler) listCatalog(list func(ctx context.Context, page int) ([]model.Movie, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies, err := list(r.Context(), pageParam(r))
		if err != nil {
			h.logger.Error("catalog listing failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusBadGateway, "catalog unavailable")
			return
		}
		writeJSON(w, http.StatusOK, toMovieResponse(movies))
	}
}

// SearchMovies returns catalog items matching ?query=.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	movies, err := h.catalog.Search(r.Context(), query, pageParam(r))
	if err != nil {
		h.logger.Error("catalog search failed", "query", query, "error", err)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, toMovieResponse(movies))
}

// DiscoverMovies returns catalog items filtered by ?genre=.
func (h *Handler) DiscoverMovies(w http.ResponseWriter, r *http.Request) {
	genreID, err := strconv.ParseInt(r.URL.Query().Get("genre"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	movies, err := h.catalog.DiscoverByGenre(r.Context(), genreID, pageParam(r))
	if err != nil {
		h.logger.Error("catalog discover failed", "genre", genreID, "error", err)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, toMovieResponse(movies))
}

// MovieTrailer returns the YouTube trailer key for a movie, if any.
func (h *Handler) MovieTrailer(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	key, err := h.catalog.TrailerKey(r.Context(), movieID)
	if err != nil {
		h.logger.Error("trailer lookup failed", "movie", movieID, "error", err)
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, TrailerResponse{MovieID: movieID, Key: key})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
