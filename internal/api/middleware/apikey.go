package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/response"
)

// TimeTokenTTL is how long a generated time token stays valid.
const TimeTokenTTL = 5 * time.Minute

// timeTokenKey derives the fernet signing key from the API key.
func timeTokenKey(apiKey string) *fernet.Key {
	k := fernet.Key(sha256.Sum256([]byte(apiKey)))
	return &k
}

// GenerateTimeToken returns a fernet token signed with a key derived from apiKey.
// The token carries the issue time and is accepted by APIKeyMiddleware for TimeTokenTTL.
func GenerateTimeToken(apiKey string) string {
	msg := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	tok, err := fernet.EncryptAndSign(msg, timeTokenKey(apiKey))
	if err != nil {
		return ""
	}
	return string(tok)
}

// APIKeyMiddleware protects administrative routes.
// Requests need the X-API-Key header to match INTERNAL_API_KEY and an
// X-Time-Token produced by GenerateTimeToken within the last TimeTokenTTL.
//
// INTERNAL_API_KEY is read on every request; when it is unset every request fails with 500.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv("INTERNAL_API_KEY")
		if apiKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication error", "Authentication not loaded")
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		token := r.Header.Get("X-Time-Token")
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}
		if fernet.VerifyAndDecrypt([]byte(token), TimeTokenTTL, []*fernet.Key{timeTokenKey(apiKey)}) == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}
