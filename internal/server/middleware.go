package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/colonyops/noticeboard/internal/core/logging"
)

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags every request with a request id and actor id, carries
// both on the context for downstream log hooks, and emits one access log
// line per request.
func requestLogger(next http.Handler) http.Handler {
	log := logging.Component("http")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := logging.WithRequestID(r.Context(), uuid.NewString())
		if id := actorID(r); id != "" {
			ctx = logging.WithActorID(ctx, id)
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		log.Debug().
			Ctx(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// actorLimiter rate-limits requests per actor id. Unknown actors share the
// empty-id bucket.
type actorLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newActorLimiter(r float64, burst int) *actorLimiter {
	return &actorLimiter{
		limiters: map[string]*rate.Limiter{},
		rate:     rate.Limit(r),
		burst:    burst,
	}
}

// allow reports whether the actor may proceed. A non-positive rate disables
// limiting entirely.
func (l *actorLimiter) allow(actorID string) bool {
	if l.rate <= 0 {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters[actorID]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[actorID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
