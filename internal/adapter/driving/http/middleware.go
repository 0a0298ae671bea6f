package httphandler

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs each HTTP request with method, path, status,
// duration, and the request id set by requestIDMiddleware.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", w.Header().Get("X-Request-ID"),
		)
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered",
					"panic", v,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware assigns each request a fresh id, exposed on the
// X-Request-ID response header and picked up by the request log.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

// authLimiter applies a per-client token bucket to the auth endpoints,
// slowing down credential guessing against the local registry. Entries
// idle past the cleanup age are pruned lazily on access.
type authLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// authLimiterCleanupAge is how long an idle client entry survives.
const authLimiterCleanupAge = 10 * time.Minute

// newAuthLimiter creates an authLimiter allowing limit events per second
// with the given burst per client address.
func newAuthLimiter(limit rate.Limit, burst int) *authLimiter {
	return &authLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		burst:   burst,
	}
}

// allow reports whether the client may proceed, creating its bucket on
// first sight and pruning stale entries as a side effect.
func (al *authLimiter) allow(clientAddr string) bool {
	al.mu.Lock()
	defer al.mu.Unlock()

	now := time.Now()
	for addr, cl := range al.clients {
		if now.Sub(cl.lastAccess) > authLimiterCleanupAge {
			delete(al.clients, addr)
		}
	}

	cl, ok := al.clients[clientAddr]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(al.limit, al.burst)}
		al.clients[clientAddr] = cl
	}
	cl.lastAccess = now

	return cl.limiter.Allow()
}

// middleware wraps next with the rate limit, keyed by client IP.
func (al *authLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !al.allow(host) {
			writeError(w, http.StatusTooManyRequests, "too many attempts, slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}
