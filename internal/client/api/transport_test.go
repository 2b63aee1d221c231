package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/client/session"
	"github.com/jcastrov/biblio/internal/common"
	"github.com/jcastrov/biblio/internal/logging"
	"github.com/jcastrov/biblio/internal/stub"
)

// harness wires an auth stub and a bearer-protected author stub the way the
// real client composes them.
type harness struct {
	sess       *session.Session
	auth       *AuthClient
	authors    *AuthorService
	authStub   *stub.AuthServer
	authorStub *stub.AuthorServer
	refreshes  atomic.Int32
	expired    atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{sess: session.New()}

	h.authStub = stub.NewAuthServer(time.Minute)
	h.authStub.Register("ana@example.com", "s3cr3t", "¿Color favorito?", "azul")
	authSrv := httptest.NewServer(h.authStub.Handler())
	t.Cleanup(authSrv.Close)
	h.auth = NewAuthClient(authSrv.URL, 5*time.Second, logging.NewNop())

	h.authorStub = stub.NewAuthorServer()
	h.authorStub.Verify = h.authStub.VerifyToken
	authorSrv := httptest.NewServer(h.authorStub.Handler())
	t.Cleanup(authorSrv.Close)

	transport := &SessionTransport{
		Session: h.sess,
		Refresh: func(ctx context.Context, refreshToken string) (string, error) {
			h.refreshes.Add(1)
			return h.auth.Refresh(ctx, refreshToken)
		},
		OnExpired: func() { h.expired.Add(1) },
	}
	h.authors = NewAuthorService(authorSrv.URL, &http.Client{Transport: transport}, logging.NewNop())
	return h
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	tokens, err := h.auth.Login(context.Background(), "ana@example.com", "s3cr3t")
	require.NoError(t, err)
	h.sess.Start("ana@example.com", tokens.AccessToken, tokens.RefreshToken)
}

func TestSessionTransport_AttachesBearerToken(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, err := h.authors.List(context.Background())
	assert.NoError(t, err)
}

func TestSessionTransport_WithoutSessionGetsSessionExpired(t *testing.T) {
	h := newHarness(t)

	_, err := h.authors.List(context.Background())
	assert.ErrorIs(t, err, common.ErrSessionExpired)
	assert.Zero(t, h.refreshes.Load(), "no refresh token, no refresh attempt")
}

func TestSessionTransport_RefreshesOnceAndRetries(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.sess.SetAccessToken("token-caducado")

	created, err := h.authors.Create(context.Background(), models.Author{Nombre: "Ana", Apellido: "Lopez"})
	require.NoError(t, err, "retry must replay the request body")
	assert.Equal(t, "Ana", created.Nombre)

	assert.Equal(t, int32(1), h.refreshes.Load(), "exactly one refresh for the original request")
	assert.True(t, h.sess.Active())
	assert.NotEqual(t, "token-caducado", h.sess.AccessToken())

	// Follow-up calls ride the refreshed token without further refreshes.
	_, err = h.authors.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), h.refreshes.Load())
}

func TestSessionTransport_RefreshFailureTearsSessionDown(t *testing.T) {
	h := newHarness(t)
	h.sess.Start("ana@example.com", "token-caducado", "refresh-desconocido")

	_, err := h.authors.List(context.Background())
	assert.ErrorIs(t, err, common.ErrSessionExpired)

	assert.Equal(t, int32(1), h.refreshes.Load(), "a single refresh attempt, no retry storm")
	assert.Equal(t, int32(1), h.expired.Load(), "teardown callback fired")
	assert.False(t, h.sess.Active())
}

func TestSessionTransport_GetBodyFailureReturnsNoResponse(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.sess.SetAccessToken("token-caducado")

	authorSrv := httptest.NewServer(h.authorStub.Handler())
	t.Cleanup(authorSrv.Close)

	req, err := http.NewRequest(http.MethodPost, authorSrv.URL+"/", strings.NewReader(`{"Nombre":"Ana","Apellido":"Lopez"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.GetBody = func() (io.ReadCloser, error) {
		return nil, errors.New("cuerpo no reproducible")
	}

	transport := &SessionTransport{
		Session: h.sess,
		Refresh: h.auth.Refresh,
	}
	resp, rerr := transport.RoundTrip(req)
	assert.Nil(t, resp, "a transport error must not come with a response")
	assert.Error(t, rerr)
}

func TestSessionTransport_DoesNotMutateCallerRequest(t *testing.T) {
	sess := session.New()
	sess.Start("u", "tok", "")

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &SessionTransport{Session: sess}}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok", got)
	assert.Empty(t, req.Header.Get("Authorization"), "original request left untouched")
}
