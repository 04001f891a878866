package feeds

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrigin_ForwardedProtoNeedsTrustedProxy(t *testing.T) {
	r := httptest.NewRequest("GET", "/me/calendar-feeds", nil)
	r.Host = "pets.internal:8080"
	r.Header.Set("X-Forwarded-Proto", "https")

	assert.Equal(t, "http://pets.internal:8080", origin(r, HandlerOptions{}))
	assert.Equal(t, "https://pets.internal:8080", origin(r, HandlerOptions{TrustForwardedProto: true}))

	r.Header.Set("X-Forwarded-Proto", "http")
	assert.Equal(t, "http://pets.internal:8080", origin(r, HandlerOptions{TrustForwardedProto: true}))
}

func TestOrigin_PublicBaseURLWins(t *testing.T) {
	r := httptest.NewRequest("GET", "/me/calendar-feeds", nil)
	r.Header.Set("X-Forwarded-Proto", "http")

	opts := HandlerOptions{PublicBaseURL: "https://pets.example.com", TrustForwardedProto: true}
	assert.Equal(t, "https://pets.example.com", origin(r, opts))
}
