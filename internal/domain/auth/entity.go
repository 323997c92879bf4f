// internal/domain/auth/entity.go
package auth

import "time"

// TokenError marks a session token record as terminally broken.
// Once set it is never cleared in place; only a full re-login
// replaces the record.
type TokenError string

const (
	// ErrorRefreshFailed is recorded when a refresh attempt against the
	// identity service fails. The record must not authorize anything
	// afterwards.
	ErrorRefreshFailed TokenError = "refresh_failed"
)

// Token is the server-held session record for one authenticated
// principal: the current access/refresh token pair issued by the
// identity service, the absolute access-token expiry, and the profile
// attributes cached at login time.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`

	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles,omitempty"`

	Error TokenError `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the access token must be treated as invalid.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Usable reports whether the record may authorize a request right now:
// not expired and not terminally errored.
func (t *Token) Usable(now time.Time) bool {
	return t.Error == "" && !t.Expired(now)
}

// HasRole checks the cached role set.
func (t *Token) HasRole(role string) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}
