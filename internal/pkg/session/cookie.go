// internal/pkg/session/cookie.go
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// CookieName is the browser cookie carrying the signed session id.
const CookieName = "portal_session"

// CookieCodec signs and verifies the session cookie. The cookie holds
// only the opaque session id; tokens themselves never leave the server.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl}
}

// NewSessionID returns a fresh opaque session identifier.
func NewSessionID() string {
	return ulid.Make().String()
}

// Encode wraps a session id in a signed, expiring cookie value.
func (c *CookieCodec) Encode(sid string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies a cookie value and extracts the session id.
func (c *CookieCodec) Decode(value string) (string, error) {
	token, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session cookie claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("session cookie missing sid")
	}
	return sid, nil
}

// MaxAge returns the cookie max-age in seconds.
func (c *CookieCodec) MaxAge() int {
	return int(c.ttl / time.Second)
}
