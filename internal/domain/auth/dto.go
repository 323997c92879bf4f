// internal/domain/auth/dto.go
package auth

// SignInRequest carries the credentials posted by the sign-in form.
type SignInRequest struct {
	Username    string `form:"username" json:"username" binding:"required"`
	Password    string `form:"password" json:"password" binding:"required"`
	CallbackURL string `form:"callbackUrl" json:"callbackUrl"`
}

// RevokeRequest for the internal revocation proxy route.
type RevokeRequest struct {
	Token string `json:"token" binding:"required"`
}

// IntrospectRequest for the internal introspection route.
type IntrospectRequest struct {
	Token         string `json:"token" binding:"required"`
	TokenTypeHint string `json:"token_type_hint"`
}

// SessionView is the session representation returned by /api/auth/session
// and rendered on the dashboard. Tokens themselves never leave the server.
type SessionView struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles,omitempty"`
	ExpiresAt   string   `json:"expires_at"`
}
