package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jcastrov/biblio/internal/logging"
)

// AuthClient talks to the auth microservice. Its endpoints are public, so it
// uses a plain HTTP client rather than the session transport.
type AuthClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func NewAuthClient(baseURL string, timeout time.Duration, log logging.Logger) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("service", "auth"),
	}
}

func (c *AuthClient) Register(ctx context.Context, in RegisterInput) (string, error) {
	body := map[string]string{
		"email":          in.Email,
		"password":       in.Password,
		"secretQuestion": in.SecretQuestion,
		"secretAnswer":   in.SecretAnswer,
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/register", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (Tokens, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/login", body, &resp); err != nil {
		return Tokens{}, err
	}
	c.log.Debug(ctx, "login accepted", "email", email)
	return Tokens{AccessToken: resp.Token, RefreshToken: resp.RefreshToken}, nil
}

func (c *AuthClient) SecretQuestion(ctx context.Context, email string) (string, error) {
	var resp struct {
		Question string `json:"question"`
	}
	body := map[string]string{"email": email}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/get-question", body, &resp); err != nil {
		return "", err
	}
	return resp.Question, nil
}

func (c *AuthClient) VerifySecretAnswer(ctx context.Context, email, answer, newPassword string) (string, error) {
	body := map[string]string{
		"email":        email,
		"secretAnswer": answer,
		"newPassword":  newPassword,
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/verify-answer", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var resp struct {
		Token string `json:"token"`
	}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/refresh", body, &resp); err != nil {
		return "", err
	}
	c.log.Debug(ctx, "access token refreshed")
	return resp.Token, nil
}
