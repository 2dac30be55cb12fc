package fdisms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const (
	pathAuth    = "/api/v1/auth/"
	pathRefresh = "/api/v1/auth/refresh"
)

type authRequest struct {
	APIUsername string `json:"api_username"`
	APIPassword string `json:"api_password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is the token pair handed out by the auth endpoints.
type AuthResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Message      string `json:"message,omitempty"`
}

// Authenticate exchanges the configured credentials for a fresh token pair.
// Calling it is optional: any operation that needs a token obtains one on
// first use.
func (c *Client) Authenticate(ctx context.Context) error {
	raw, err := c.open(ctx, http.MethodPost, pathAuth, authRequest{
		APIUsername: c.creds.APIKey,
		APIPassword: c.creds.APISecret,
	})
	if err != nil {
		return err
	}
	auth, err := decodeAuth(raw)
	if err != nil {
		return err
	}
	c.setSession(auth)
	c.log.DebugObj("session established", "endpoint", pathAuth)
	return nil
}

// Refresh trades the held refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.session.refreshToken
	c.mu.Unlock()
	if refresh == "" {
		return errors.New("fdisms: no refresh token held")
	}

	raw, err := c.open(ctx, http.MethodPost, pathRefresh, refreshRequest{RefreshToken: refresh})
	if err != nil {
		return err
	}
	auth, err := decodeAuth(raw)
	if err != nil {
		return err
	}
	c.setSession(auth)
	return nil
}

func decodeAuth(raw []byte) (AuthResponse, error) {
	var auth AuthResponse
	if err := decode(raw, "auth", &auth); err != nil {
		return auth, err
	}
	if !auth.Success || auth.AccessToken == "" {
		msg := auth.Message
		if msg == "" {
			msg = "no access token in response"
		}
		return auth, fmt.Errorf("fdisms: authentication rejected: %s", msg)
	}
	return auth, nil
}

func (c *Client) setSession(auth AuthResponse) {
	c.mu.Lock()
	c.session = session{accessToken: auth.AccessToken, refreshToken: auth.RefreshToken}
	c.mu.Unlock()
}

// ensureToken returns the held access token, authenticating first when none
// is held yet.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.session.accessToken
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	return c.renewToken(ctx, "")
}

// renewToken obtains a replacement for a rejected access token. It prefers
// the refresh grant and falls back to re-authenticating when the refresh
// token is itself rejected. stale is the token the caller saw fail, so a
// renewal raced in by another goroutine is reused instead of repeated.
func (c *Client) renewToken(ctx context.Context, stale string) (string, error) {
	c.mu.Lock()
	current := c.session
	c.mu.Unlock()

	if current.accessToken != "" && current.accessToken != stale {
		return current.accessToken, nil
	}

	if current.refreshToken != "" {
		err := c.Refresh(ctx)
		if err == nil {
			c.mu.Lock()
			token := c.session.accessToken
			c.mu.Unlock()
			return token, nil
		}
		if !errors.Is(err, ErrUnauthorized) && !errors.Is(err, ErrBadRequest) && !errors.Is(err, ErrUnprocessableEntity) {
			return "", err
		}
		c.log.WarnObj("refresh token rejected, re-authenticating", "error", err.Error())
	}

	if err := c.Authenticate(ctx); err != nil {
		return "", err
	}

	c.mu.Lock()
	token := c.session.accessToken
	c.mu.Unlock()
	return token, nil
}
