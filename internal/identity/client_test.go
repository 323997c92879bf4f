package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	xerrors "gfsams-portal/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successEnvelope(expiresIn int64) map[string]any {
	return map[string]any{
		"isSuccess": true,
		"data": map[string]any{
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
			"expiresIn":    expiresIn,
			"tokenType":    "Bearer",
			"user": map[string]any{
				"id":        "u-1",
				"username":  "alice",
				"email":     "alice@example.com",
				"firstName": "Alice",
				"lastName":  "Smith",
				"roles":     []string{"admin"},
			},
		},
	}
}

func TestLogin_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(successEnvelope(3600))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "client_test", srv.Client())
	result, err := client.Login(context.Background(), "alice", "correct")
	require.NoError(t, err)

	assert.Equal(t, "access-1", result.AccessToken)
	assert.Equal(t, "refresh-1", result.RefreshToken)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Equal(t, "u-1", result.UserID)
	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, []string{"admin"}, result.Roles)
	assert.Equal(t, "Alice Smith", result.DisplayName())

	// request carries the fixed device descriptor
	assert.Equal(t, "alice", gotBody["username"])
	assert.Equal(t, true, gotBody["rememberMe"])
	assert.Equal(t, "portal-client", gotBody["deviceId"])
	assert.Equal(t, "Web Application", gotBody["deviceName"])
}

func TestLogin_EmptyCredentials(t *testing.T) {
	client := NewHTTPClient("http://identity.invalid", "client_test", nil)

	_, err := client.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)

	_, err = client.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
}

func TestLogin_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"isSuccess": false,
			"error":     map[string]string{"code": "invalid_grant", "message": "bad credentials"},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "client_test", srv.Client())
	result, err := client.Login(context.Background(), "alice", "wrong")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
}

func TestLogin_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "client_test", srv.Client())
	result, err := client.Login(context.Background(), "alice", "correct")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
}

func TestRefresh_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/refresh", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "stale-access", body["accessToken"])
		assert.Equal(t, "stale-refresh", body["refreshToken"])

		json.NewEncoder(w).Encode(successEnvelope(1800))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "client_test", srv.Client())
	result, err := client.Refresh(context.Background(), "stale-access", "stale-refresh")
	require.NoError(t, err)
	assert.Equal(t, "access-1", result.AccessToken)
	assert.Equal(t, int64(1800), result.ExpiresIn)
}

func TestRefresh_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"isSuccess": false})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "client_test", srv.Client())
	_, err := client.Refresh(context.Background(), "a", "r")
	assert.ErrorIs(t, err, xerrors.ErrRefreshFailed)
}

func TestUserInfo_RoleShapes(t *testing.T) {
	tests := []struct {
		name string
		role string
		want []string
	}{
		{"single string", `"admin"`, []string{"admin"}},
		{"array", `["admin","viewer"]`, []string{"admin", "viewer"}},
		{"absent", ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/connect/userinfo", r.URL.Path)
				require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

				body := `{"sub":"u-1","name":"Alice","email":"a@b.c","preferred_username":"alice"`
				if tt.role != "" {
					body += `,"role":` + tt.role
				}
				body += `}`
				w.Write([]byte(body))
			}))
			defer srv.Close()

			client := NewHTTPClient(srv.URL, "client_test", srv.Client())
			info, err := client.UserInfo(context.Background(), "access-1")
			require.NoError(t, err)
			assert.Equal(t, "u-1", info.Subject)
			assert.Equal(t, "alice", info.PreferredUsername)
			assert.Equal(t, tt.want, info.Roles)
		})
	}
}

func TestIntrospect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/connect/introspect", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "token-1", r.PostForm.Get("token"))
		assert.Equal(t, "access_token", r.PostForm.Get("token_type_hint"))
		assert.Equal(t, "client_test", r.PostForm.Get("client_id"))
		json.NewEncoder(w).Encode(map[string]bool{"active": true})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "client_test", srv.Client())
	active, err := client.Introspect(context.Background(), "token-1", "")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestRevoke(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/auth/revoke", r.URL.Path)
			require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["token"])
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, "client_test", srv.Client())
		assert.NoError(t, client.Revoke(context.Background(), "refresh-1", "access-1"))
	})

	t.Run("upstream status surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, "client_test", srv.Client())
		err := client.Revoke(context.Background(), "refresh-1", "access-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, xerrors.ErrUpstreamFailure)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	})

	t.Run("network failure", func(t *testing.T) {
		client := NewHTTPClient("http://127.0.0.1:1", "client_test", nil)
		err := client.Revoke(context.Background(), "refresh-1", "access-1")
		assert.ErrorIs(t, err, xerrors.ErrUpstreamFailure)
	})
}
