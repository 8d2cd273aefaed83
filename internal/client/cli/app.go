// Package cli implements the interactive authgate client: a small REPL
// over the session context, with terminal prompts for credentials.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/ademidov/authgate/internal/client/api"
	"github.com/ademidov/authgate/internal/client/config"
	"github.com/ademidov/authgate/internal/client/repositories/metadata"
	"github.com/ademidov/authgate/internal/client/session"
	"github.com/ademidov/authgate/internal/client/storage"
)

type App struct {
	config  *config.Config
	api     api.Client
	session *session.Session
	db      *sql.DB
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	sess := session.New(apiClient, metadata.NewSQLiteRepository(db))

	return &App{
		config:  c,
		api:     apiClient,
		session: sess,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// getStatus renders the prompt status segment, e.g. "(mia)" when signed in.
func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Username)
	}
	return ""
}

// Run restores the session from the local database and hands control to
// the REPL. A stale or missing token leaves the user anonymous; they can
// log in from the prompt.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if err := a.session.Restore(ctx); err != nil {
		log.Printf("session restore failed: %s", err.Error())
	}

	if u := a.session.User(); u != nil {
		log.Printf("Welcome back, %s", u.Username)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
