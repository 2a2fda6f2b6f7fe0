package client

import (
	"context"
	"fmt"
	"net/http"

	"questpath/internal/model"
	"questpath/internal/service"

	"github.com/goccy/go-json"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type firebaseLoginRequest struct {
	IDToken string `json:"id_token"`
}

type tokenEnvelope struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	data, err := c.do(ctx, "login", http.MethodPost, "/auth/login", loginRequest{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}
	return parseLogin(data, "")
}

// FirebaseLogin exchanges a Firebase ID token for a backend session. The
// backend may echo the ID token back as the access token or omit it.
func (c *Client) FirebaseLogin(ctx context.Context, idToken string) (*model.LoginResult, error) {
	data, err := c.do(ctx, "firebase login", http.MethodPost, "/auth/firebase/login", firebaseLoginRequest{
		IDToken: idToken,
	}, "")
	if err != nil {
		return nil, err
	}
	return parseLogin(data, idToken)
}

// VerifyToken loads the profile behind token. The returned result carries no token.
func (c *Client) VerifyToken(ctx context.Context, token string) (*model.LoginResult, error) {
	if token == "" {
		return nil, &service.AuthenticationError{Reason: "no token"}
	}
	data, err := c.do(ctx, "verify token", http.MethodGet, "/users/me", nil, token)
	if err != nil {
		return nil, err
	}

	user, completed, err := NormalizeUser(data)
	if err != nil {
		return nil, &service.NetworkError{Op: "verify token", StatusCode: http.StatusOK, Err: err}
	}
	return &model.LoginResult{User: user, CompletedQuests: completed}, nil
}

func parseLogin(data []byte, fallbackToken string) (*model.LoginResult, error) {
	var env tokenEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &service.AuthenticationError{Reason: "unreadable login response", Err: err}
	}

	token := env.AccessToken
	if token == "" {
		token = env.Token
	}
	if token == "" {
		token = fallbackToken
	}

	user, completed, err := NormalizeUser(data)
	if err != nil {
		return nil, &service.AuthenticationError{Reason: fmt.Sprintf("unreadable user: %v", err), Err: err}
	}

	return &model.LoginResult{
		Token:           token,
		User:            user,
		CompletedQuests: completed,
	}, nil
}
