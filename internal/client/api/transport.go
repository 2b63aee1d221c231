package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/jcastrov/biblio/internal/client/session"
)

// SessionTransport attaches the session's bearer token to every outgoing
// request and, on a 401, performs at most one refresh-then-retry for the
// original request. A failed refresh tears the session down and lets the
// 401 through, where it classifies as a session-expired error.
type SessionTransport struct {
	// Base is the underlying round tripper; http.DefaultTransport when nil.
	Base http.RoundTripper

	Session *session.Session

	// Refresh exchanges the refresh token for a new access token. Wired to
	// the auth client so this type stays free of endpoint knowledge.
	Refresh func(ctx context.Context, refreshToken string) (string, error)

	// OnExpired runs after the session has been cleared because a refresh
	// failed. Optional.
	OnExpired func()

	// mu serializes refresh attempts so concurrent 401s cannot stampede
	// the auth service.
	mu sync.Mutex
}

func (t *SessionTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *SessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if tok := t.Session.AccessToken(); tok != "" {
		out.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	refreshToken := t.Session.RefreshToken()
	if refreshToken == "" || t.Refresh == nil {
		return resp, nil
	}

	t.mu.Lock()
	newToken, rerr := t.Refresh(req.Context(), refreshToken)
	t.mu.Unlock()
	if rerr != nil {
		t.Session.Clear()
		if t.OnExpired != nil {
			t.OnExpired()
		}
		return resp, nil
	}
	t.Session.SetAccessToken(newToken)

	resp.Body.Close()

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return nil, berr
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+newToken)
	return t.base().RoundTrip(retry)
}
