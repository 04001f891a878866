package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdP(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "svc-key", r.Header.Get("X-Api-Key"))

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch body.Token {
		case "good":
			_ = json.NewEncoder(w).Encode(map[string]string{"user_id": " u1 ", "email": "a@b.c"})
		case "empty":
			_ = json.NewEncoder(w).Encode(map[string]string{})
		case "boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func TestVerifier(t *testing.T) {
	srv := newIdP(t)
	defer srv.Close()

	v, err := NewVerifier(Config{VerifyURL: srv.URL, APIKey: "svc-key"})
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)

	_, err = v.Verify(context.Background(), "bad")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = v.Verify(context.Background(), "boom")
	assert.True(t, errors.Is(err, ErrUpstream))

	_, err = v.Verify(context.Background(), "empty")
	assert.True(t, errors.Is(err, ErrUpstream))

	_, err = v.Verify(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestNewVerifier_RequiresURL(t *testing.T) {
	_, err := NewVerifier(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
