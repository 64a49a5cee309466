package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/config"
	"github.com/prn-tf/stockroom/internal/pkg/crypto"
)

// HeaderAPIKey is the request header carrying the encrypted API key.
// Clients compute the value from the same shared secrets, so the server
// compares ciphertext with ciphertext and never decrypts.
const HeaderAPIKey = "X-encrypted-api-key"

// Middleware authenticates requests by comparing the API key header
// against the expected value in constant time.
type Middleware struct {
	expected []byte
	logger   zerolog.Logger
}

// NewMiddleware precomputes the expected header value from the
// configured secrets. A bad key or IV fails construction, not requests.
func NewMiddleware(cfg config.AuthConfig, logger zerolog.Logger) (*Middleware, error) {
	key, err := cfg.GetEncryptionKey()
	if err != nil {
		return nil, fmt.Errorf("auth setup: %w", err)
	}
	iv, err := cfg.GetEncryptionIV()
	if err != nil {
		return nil, fmt.Errorf("auth setup: %w", err)
	}
	enc, err := crypto.NewEncryptor(key, iv)
	if err != nil {
		return nil, fmt.Errorf("auth setup: %w", err)
	}

	return &Middleware{
		expected: []byte(enc.EncryptString(cfg.APIKey)),
		logger:   logger.With().Str("component", "auth").Logger(),
	}, nil
}

// Handler wraps next with the API key check. Missing or mismatched
// headers are rejected with a 401 JSON error.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		supplied := r.Header.Get(HeaderAPIKey)
		if supplied == "" {
			m.logger.Debug().Str("path", r.URL.Path).Msg("request without API key")
			writeAuthError(w, ErrMissingAPIKey)
			return
		}

		if subtle.ConstantTimeCompare([]byte(supplied), m.expected) != 1 {
			m.logger.Debug().Str("path", r.URL.Path).Msg("request with wrong API key")
			writeAuthError(w, ErrInvalidAPIKey)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeAuthError writes a 401 JSON error response.
func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + err.Error() + `"}`))
}
