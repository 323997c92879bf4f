// internal/identity/types.go
package identity

import "encoding/json"

// loginEnvelope is the wire shape of the identity service's
// /api/auth/login and /api/auth/refresh responses.
type loginEnvelope struct {
	IsSuccess bool       `json:"isSuccess"`
	Data      *loginData `json:"data"`
	Error     *wireError `json:"error"`
}

type loginData struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"`
	TokenType    string   `json:"tokenType"`
	User         wireUser `json:"user"`
}

type wireUser struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoginResult is the decoded outcome of a successful login or refresh
// call. ExpiresIn is in seconds from the moment of issuance.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	UserID       string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Roles        []string
}

// UserInfo is the /connect/userinfo claim set.
type UserInfo struct {
	Subject           string   `json:"sub"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	PreferredUsername string   `json:"preferred_username"`
	GivenName         string   `json:"given_name"`
	FamilyName        string   `json:"family_name"`
	Roles             []string `json:"-"`
}

// UnmarshalJSON handles the "role" claim, which the identity service
// returns as either a single string or an array of strings.
func (u *UserInfo) UnmarshalJSON(data []byte) error {
	type alias UserInfo
	aux := struct {
		*alias
		Role json.RawMessage `json:"role"`
	}{alias: (*alias)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Role) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(aux.Role, &single); err == nil {
		u.Roles = []string{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(aux.Role, &many); err != nil {
		return err
	}
	u.Roles = many
	return nil
}

type introspectResponse struct {
	Active bool `json:"active"`
}
