// internal/service/auth/auth.go
package auth

import (
	"context"
	"time"

	domain "gfsams-portal/internal/domain/auth"
	"gfsams-portal/internal/identity"
	xerrors "gfsams-portal/internal/pkg/errors"
	"gfsams-portal/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service orchestrates the session token lifecycle: credential
// exchange at sign-in, refresh-on-demand while the session lives, and
// best-effort revocation at sign-out.
type Service struct {
	identity identity.Client
	store    *session.Store
	cookies  *session.CookieCodec
	logger   *zap.Logger

	// collapses concurrent refreshes of the same session into one
	// upstream call; the refresh token rotates on use.
	refreshGroup singleflight.Group
}

func NewService(
	identityClient identity.Client,
	store *session.Store,
	cookies *session.CookieCodec,
	logger *zap.Logger,
) *Service {
	return &Service{
		identity: identityClient,
		store:    store,
		cookies:  cookies,
		logger:   logger,
	}
}

// ========== Login ==========

// Login exchanges credentials with the identity service and, on
// success, creates the session record and a signed cookie value for
// it. A failed exchange creates nothing.
func (s *Service) Login(ctx context.Context, username, password string) (sid, cookie string, token *domain.Token, err error) {
	result, err := s.identity.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login rejected",
			zap.String("username", username),
			zap.Error(err),
		)
		return "", "", nil, xerrors.ErrInvalidCredentials
	}

	now := time.Now()
	token = &domain.Token{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(result.ExpiresIn) * time.Second),
		UserID:       result.UserID,
		Username:     result.Username,
		Email:        result.Email,
		DisplayName:  result.DisplayName(),
		Roles:        result.Roles,
		CreatedAt:    now,
	}

	sid = session.NewSessionID()
	if err := s.store.Save(ctx, sid, token); err != nil {
		return "", "", nil, xerrors.Wrap(err, "failed to persist session")
	}

	cookie, err = s.cookies.Encode(sid)
	if err != nil {
		return "", "", nil, xerrors.Wrap(err, "failed to sign session cookie")
	}

	s.logger.Info("user signed in",
		zap.String("user_id", token.UserID),
		zap.String("username", token.Username),
	)
	return sid, cookie, token, nil
}

// ========== Resolve & refresh ==========

// Resolve loads the session record and refreshes it on demand. The
// returned record may carry a terminal Error; callers must treat such
// a record as unauthenticated and never retry the refresh themselves.
func (s *Service) Resolve(ctx context.Context, sid string) (*domain.Token, error) {
	token, err := s.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}

	// Terminal records stay terminal: no upstream call.
	if token.Error != "" {
		return token, nil
	}
	if !token.Expired(time.Now()) {
		return token, nil
	}

	refreshed, err, _ := s.refreshGroup.Do(sid, func() (interface{}, error) {
		return s.refresh(ctx, sid)
	})
	if err != nil {
		return nil, err
	}
	return refreshed.(*domain.Token), nil
}

// refresh performs at most one exchange for an expiry detection. On
// failure the record is marked refresh_failed with the stale token
// pair left in place; the failure lives in the record, not the error
// return.
func (s *Service) refresh(ctx context.Context, sid string) (*domain.Token, error) {
	// Re-read under the flight: a concurrent request may have already
	// replaced the record.
	token, err := s.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if token.Error != "" || !token.Expired(now) {
		return token, nil
	}

	result, err := s.identity.Refresh(ctx, token.AccessToken, token.RefreshToken)
	if err != nil {
		s.logger.Warn("token refresh failed",
			zap.String("user_id", token.UserID),
			zap.Error(err),
		)
		token.Error = domain.ErrorRefreshFailed
		if saveErr := s.store.Save(ctx, sid, token); saveErr != nil {
			return nil, xerrors.Wrap(saveErr, "failed to persist errored session")
		}
		return token, nil
	}

	updated := &domain.Token{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(result.ExpiresIn) * time.Second),
		// Profile attributes refresh only at login.
		UserID:      token.UserID,
		Username:    token.Username,
		Email:       token.Email,
		DisplayName: token.DisplayName,
		Roles:       token.Roles,
		CreatedAt:   token.CreatedAt,
	}
	if err := s.store.Save(ctx, sid, updated); err != nil {
		return nil, xerrors.Wrap(err, "failed to persist refreshed session")
	}

	s.logger.Info("token refreshed",
		zap.String("user_id", updated.UserID),
		zap.Time("expires_at", updated.ExpiresAt),
	)
	return updated, nil
}

// ========== Logout ==========

// Logout revokes the session's refresh token best-effort and deletes
// the local record. Local deletion happens even when the remote call
// fails; sign-out always succeeds from the user's perspective.
func (s *Service) Logout(ctx context.Context, sid string) error {
	token, err := s.store.Get(ctx, sid)
	if err == nil && token.RefreshToken != "" {
		if err := s.identity.Revoke(ctx, token.RefreshToken, token.AccessToken); err != nil {
			s.logger.Warn("token revocation failed",
				zap.String("user_id", token.UserID),
				zap.Error(err),
			)
		}
	}
	return s.store.Delete(ctx, sid)
}

// ========== Proxied identity calls ==========

// RevokeToken proxies an explicit revocation for an authenticated
// session. Unlike Logout, upstream failures are surfaced so the API
// route can pass the status through.
func (s *Service) RevokeToken(ctx context.Context, token *domain.Token, target string) error {
	return s.identity.Revoke(ctx, target, token.AccessToken)
}

// UserInfo fetches fresh OIDC claims for the session's access token.
func (s *Service) UserInfo(ctx context.Context, token *domain.Token) (*identity.UserInfo, error) {
	return s.identity.UserInfo(ctx, token.AccessToken)
}

// IntrospectToken asks the identity service whether a token is active.
func (s *Service) IntrospectToken(ctx context.Context, token, hint string) (bool, error) {
	return s.identity.Introspect(ctx, token, hint)
}

// ========== Cookie handling ==========

// CookieName returns the session cookie's name.
func (s *Service) CookieName() string {
	return session.CookieName
}

// CookieMaxAge returns the session cookie's max-age in seconds.
func (s *Service) CookieMaxAge() int {
	return s.cookies.MaxAge()
}

// ParseCookie verifies a cookie value and returns the session id.
func (s *Service) ParseCookie(value string) (string, error) {
	return s.cookies.Decode(value)
}
