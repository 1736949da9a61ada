package middleware

import (
	"bytes"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
)

// CacheStatusHeader reports HIT or MISS for cacheable responses.
const CacheStatusHeader = "X-Cache"

// ResponseCache serves repeated GET requests from c.
// Keys combine the session's dataset version with the path and query, so a
// refreshed dataset never sees stale entries. Only 200 JSON responses are stored.
// Must run after SessionMiddleware.
func ResponseCache(c cache.Cache, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := SessionFromContext(r.Context())
			if r.Method != http.MethodGet || !ok {
				next.ServeHTTP(w, r)
				return
			}

			key := cache.MakeKey(sc.Dataset.Version, r.URL.Path, r.URL.Query())
			if body, err := c.Get(r.Context(), key); err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(CacheStatusHeader, "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
			w.Header().Set(CacheStatusHeader, "MISS")
			next.ServeHTTP(rec, r)

			if rec.statusCode != http.StatusOK || w.Header().Get("Content-Type") != "application/json" {
				return
			}
			if err := c.Set(r.Context(), key, rec.body.Bytes(), ttl); err != nil {
				logger.Warn("failed to store cached response", zap.String("key", key), zap.Error(err))
			}
		})
	}
}

// recordingWriter passes the response through while keeping a copy of the body.
type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}
