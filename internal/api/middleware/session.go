package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/validation"
)

// SessionHeader selects the dashboard session. Requests without it use the default session.
const SessionHeader = "X-Session-ID"

type sessionKey struct{}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (service.SessionContext, bool) {
	sc, ok := ctx.Value(sessionKey{}).(service.SessionContext)
	return sc, ok
}

// WithSession returns a copy of ctx carrying sc.
func WithSession(ctx context.Context, sc service.SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey{}, sc)
}

// SessionMiddleware resolves the X-Session-ID header into a session snapshot.
// Returns 400 for a malformed id and 404 for an unknown one.
func SessionMiddleware(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id != "" {
				if err := validation.ValidateUUID(id); err != nil {
					response.RespondError(w, http.StatusBadRequest, "invalid session id", err.Error())
					return
				}
			}

			sc, err := sessions.Get(id)
			if err != nil {
				if errors.Is(err, apperrors.ErrSessionNotFound) {
					response.RespondError(w, http.StatusNotFound, "session not found", err.Error())
					return
				}
				response.RespondError(w, http.StatusInternalServerError, "failed to load session", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sc)))
		})
	}
}
