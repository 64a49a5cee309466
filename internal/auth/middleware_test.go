package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/stockroom/internal/config"
	"github.com/prn-tf/stockroom/internal/pkg/crypto"
)

var testAuth = config.AuthConfig{
	APIKey:        "stockroom-test-key",
	EncryptionKey: "0123456789abcdef",
	EncryptionIV:  "fedcba9876543210",
}

func validHeader(t *testing.T) string {
	t.Helper()

	enc, err := crypto.NewEncryptor([]byte(testAuth.EncryptionKey), []byte(testAuth.EncryptionIV))
	require.NoError(t, err)
	return enc.EncryptString(testAuth.APIKey)
}

func newProtectedServer(t *testing.T) *httptest.Server {
	t.Helper()

	mw, err := NewMiddleware(testAuth, zerolog.Nop())
	require.NoError(t, err)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestMiddleware_ValidKeyPasses(t *testing.T) {
	srv := newProtectedServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(HeaderAPIKey, validHeader(t))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_MissingKeyRejected(t *testing.T) {
	srv := newProtectedServer(t)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["error"])
}

func TestMiddleware_WrongKeyRejected(t *testing.T) {
	srv := newProtectedServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(HeaderAPIKey, "bm90IHRoZSByaWdodCBrZXk=")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewMiddleware_BadSecrets(t *testing.T) {
	bad := config.AuthConfig{
		APIKey:        "stockroom-test-key",
		EncryptionKey: "short",
		EncryptionIV:  "fedcba9876543210",
	}

	_, err := NewMiddleware(bad, zerolog.Nop())
	require.Error(t, err)
}
