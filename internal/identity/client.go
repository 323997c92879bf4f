// internal/identity/client.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	xerrors "gfsams-portal/internal/pkg/errors"
)

const maxResponseBytes = 1 << 20

// Client encapsulates outbound HTTP calls to the identity service.
type Client interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error)
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
	Introspect(ctx context.Context, token, tokenTypeHint string) (bool, error)
	Revoke(ctx context.Context, token, accessToken string) error
}

// HTTPClient is the default net/http implementation of Client.
type HTTPClient struct {
	baseURL    string
	clientID   string
	deviceID   string
	deviceName string
	httpClient *http.Client
}

// NewHTTPClient constructs the default Client. clientID is only used
// for introspection calls.
func NewHTTPClient(baseURL, clientID string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		deviceID:   "portal-client",
		deviceName: "Web Application",
		httpClient: client,
	}
}

// Login exchanges credentials for an access/refresh token pair and the
// user profile. Any non-success outcome (bad credentials, upstream
// error, malformed payload) is surfaced as ErrInvalidCredentials; no
// partial result is ever returned.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, xerrors.ErrInvalidCredentials
	}

	body := map[string]any{
		"username":   username,
		"password":   password,
		"rememberMe": true,
		"deviceId":   c.deviceID,
		"deviceName": c.deviceName,
	}

	env, err := c.postLoginShape(ctx, "/api/auth/login", body)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidCredentials, err.Error())
	}
	return resultFromData(env.Data), nil
}

// Refresh exchanges the current token pair for a new one.
func (c *HTTPClient) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error) {
	body := map[string]any{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}

	env, err := c.postLoginShape(ctx, "/api/auth/refresh", body)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrRefreshFailed, err.Error())
	}
	return resultFromData(env.Data), nil
}

// UserInfo fetches the OIDC userinfo claims for an access token.
func (c *HTTPClient) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/connect/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUpstreamFailure, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read userinfo response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: userinfo status=%d", xerrors.ErrUpstreamFailure, resp.StatusCode)
	}

	var info UserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	return &info, nil
}

// Introspect asks the identity service whether a token is active.
func (c *HTTPClient) Introspect(ctx context.Context, token, tokenTypeHint string) (bool, error) {
	if tokenTypeHint == "" {
		tokenTypeHint = "access_token"
	}
	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", tokenTypeHint)
	form.Set("client_id", c.clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/connect/introspect", strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, xerrors.Wrap(xerrors.ErrUpstreamFailure, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("read introspect response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: introspect status=%d", xerrors.ErrUpstreamFailure, resp.StatusCode)
	}

	var result introspectResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return false, fmt.Errorf("decode introspect response: %w", err)
	}
	return result.Active, nil
}

// Revoke invalidates a token with the identity service. accessToken
// authenticates the caller; it may differ from the token being revoked.
func (c *HTTPClient) Revoke(ctx context.Context, token, accessToken string) error {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return fmt.Errorf("marshal revoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/revoke", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return xerrors.Wrap(xerrors.ErrUpstreamFailure, err.Error())
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: "revoke", Status: resp.StatusCode}
	}
	return nil
}

// StatusError reports a non-2xx upstream response where the caller
// needs the exact status, e.g. to pass it through.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: status=%d", e.Op, e.Status)
}

func (e *StatusError) Unwrap() error {
	return xerrors.ErrUpstreamFailure
}

// postLoginShape sends a JSON body and decodes the isSuccess/data
// envelope shared by the login and refresh endpoints.
func (c *HTTPClient) postLoginShape(ctx context.Context, path string, body map[string]any) (*loginEnvelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env loginEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.IsSuccess || env.Data == nil {
		if env.Error != nil {
			return nil, fmt.Errorf("upstream rejected: %s (%s)", env.Error.Message, env.Error.Code)
		}
		return nil, fmt.Errorf("upstream rejected: status=%d", resp.StatusCode)
	}
	return &env, nil
}

func resultFromData(data *loginData) *LoginResult {
	return &LoginResult{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		ExpiresIn:    data.ExpiresIn,
		UserID:       data.User.ID,
		Username:     data.User.Username,
		Email:        data.User.Email,
		FirstName:    data.User.FirstName,
		LastName:     data.User.LastName,
		Roles:        data.User.Roles,
	}
}

// DisplayName builds the presentation name the way the sign-in flow
// does: first+last name, falling back to the username.
func (r *LoginResult) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	if name == "" {
		return r.Username
	}
	return name
}
