package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gestor/internal/client/client"
	"github.com/dmitrijs2005/gestor/internal/client/config"
	"github.com/dmitrijs2005/gestor/internal/client/credentials"
	"github.com/dmitrijs2005/gestor/internal/client/services"
	"github.com/dmitrijs2005/gestor/internal/logging"
)

type App struct {
	config  *config.Config
	session services.SessionService
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
	closers []io.Closer
}

// NewApp opens the credential store named by c.DatabasePath (in memory when
// empty), builds the REST gateway and the session service.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	var (
		store   credentials.Store
		closers []io.Closer
	)

	if c.DatabasePath == "" {
		log.Info(ctx, "no database path configured, session will not survive restarts")
		store = credentials.NewMemoryStore()
	} else {
		s, db, err := credentials.OpenSQLite(ctx, c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		store = s
		closers = append(closers, db)
	}

	gateway, err := client.NewHTTPClient(c.ServerBaseURL, store, client.WithTimeout(c.RequestTimeout))
	if err != nil {
		for _, cl := range closers {
			_ = cl.Close()
		}
		return nil, err
	}

	a := newApp(c, services.NewSessionService(gateway, store, log), log, os.Stdin, os.Stdout)
	a.closers = closers
	return a, nil
}

func newApp(c *config.Config, session services.SessionService, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:  c,
		session: session,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
		now:     time.Now,
	}
}

// Run restores the persisted session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to gestor CLI (type 'help' for commands)")

	s := a.session.RestoreSession(ctx)
	if s.IsAuthenticated {
		fmt.Fprintf(a.out, "Session restored for %s\n", s.CurrentUser.Email)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Close releases the local database, if any.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn(context.Background(), "close failed", "err", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated
}

func (a *App) getStatus() string {
	s := a.session.Snapshot()
	if !s.IsAuthenticated {
		return ""
	}
	status := s.CurrentUser.Email
	if role := s.Role(); role != "" {
		status += " " + string(role)
	}
	return fmt.Sprintf("(%s)", status)
}
