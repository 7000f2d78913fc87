// Package echoweb is the Sivitas web front: routes, the navigation guard
// and thin page handlers over the remote REST API.
package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/sivitasdev/sivitas/core"
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Sessions   *Registry
		Validate   *validator.Validate
		Translator ut.Translator

		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		addr     string
		deps     *Deps
		app      *echo.Echo
		policies map[string]AccessPolicy

		errCh      chan error
		shutdownCh chan os.Signal

		nowFunc func() time.Time // mockable
	}
)

var _ Server = (*server)(nil)

func NewServer(addr string, deps *Deps) Server {
	s := &server{
		addr:       addr,
		deps:       deps,
		app:        echo.New(),
		policies:   make(map[string]AccessPolicy),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	// request logging brackets every navigation (started at entry, settled
	// when it resolves, whatever the guard decided)
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.Use(s.sessionMiddleware)
	s.app.Use(s.guardMiddleware)

	s.app.HTTPErrorHandler = s.newHTTPErrorHandler()
	s.app.Debug = conf.Debug
	s.app.Renderer = newRenderer()

	s.routes()

	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
}

func (s *server) Start() {
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
