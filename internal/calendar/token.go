package calendar

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	tokenBytes = 24
	// TokenLength es el largo fijo del token (24 bytes en base64 URL-safe sin padding).
	TokenLength = 32

	feedPath = "/api/calendar/"
)

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{32}$`)

// GenerateToken crea un token opaco para un feed usando crypto/rand.
func GenerateToken() (string, error) {
	return generateToken(rand.Reader)
}

func generateToken(r io.Reader) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("generate feed token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ValidToken valida solo la forma del token. Si existe o está activo lo decide storage.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}

// FeedURL arma la URL pública de suscripción. Sin origin devuelve solo el path.
func FeedURL(token, origin string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/") + feedPath + token
}

// WebcalURL es la misma URL con esquema webcal:// (suscripción en un click).
func WebcalURL(token, origin string) string {
	u := FeedURL(token, origin)
	switch {
	case strings.HasPrefix(u, "https://"):
		return "webcal://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "webcal://" + strings.TrimPrefix(u, "http://")
	default:
		return u
	}
}
