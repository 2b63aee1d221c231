// Package cli implements the interactive terminal front end of the biblio
// client: a REPL over the author and book sync controllers and the auth
// session.
package cli

import (
	"bufio"
	"context"
	"net/http"
	"os"

	"github.com/jcastrov/biblio/internal/client/api"
	"github.com/jcastrov/biblio/internal/client/config"
	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/client/session"
	"github.com/jcastrov/biblio/internal/client/sync"
	"github.com/jcastrov/biblio/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Session
	auth    api.Auth
	autores *sync.Controller[models.Author]
	libros  *sync.Controller[models.Book]
	reader  *bufio.Reader
}

// NewApp wires the session, the service clients and one controller per
// entity type. The entity clients share an HTTP client whose transport
// attaches the bearer token and refreshes it once on a 401.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	sess := session.New()
	auth := api.NewAuthClient(cfg.AuthServiceURL, cfg.RequestTimeout, log)

	transport := &api.SessionTransport{
		Session: sess,
		Refresh: auth.Refresh,
	}
	httpClient := &http.Client{Transport: transport}

	app := &App{
		config:  cfg,
		log:     log,
		session: sess,
		auth:    auth,
		autores: sync.NewAuthors(api.NewAuthorService(cfg.AuthorServiceURL, httpClient, log), log, cfg.RequestTimeout),
		libros:  sync.NewBooks(api.NewBookService(cfg.BookServiceURL, httpClient, log), log, cfg.RequestTimeout),
		reader:  bufio.NewReader(os.Stdin),
	}
	transport.OnExpired = app.onSessionExpired

	return app
}

func (a *App) isLoggedIn() bool {
	return a.session.Active()
}

// onSessionExpired runs when a token refresh fails mid-request: the session
// is already cleared, the user just needs to hear about it.
func (a *App) onSessionExpired() {
	printlnFn("La sesión expiró. Inicia sesión de nuevo con 'login'.")
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
