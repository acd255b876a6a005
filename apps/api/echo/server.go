package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/calendar"
	"github.com/tmukana/uongozi/core/forum"
	"github.com/tmukana/uongozi/core/mentorship"
	"github.com/tmukana/uongozi/core/notification"
	"github.com/tmukana/uongozi/core/program"
	"github.com/tmukana/uongozi/core/resource"
	"github.com/tmukana/uongozi/core/user"
)

type (
	ServerDeps struct {
		Logger core.Logger

		UserSvc         *user.Service
		Aggregator      *calendar.Aggregator
		Overlay         *calendar.Overlay
		ProgramSvc      *program.Service
		MentorshipSvc   *mentorship.Service
		ForumSvc        *forum.Service
		NotificationSvc *notification.Service
		ResourceSvc     *resource.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !core.Conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig())

	registerUserAPI(v1, jwt, s.deps.UserSvc)
	registerCalendarAPI(v1, s.deps.Aggregator, s.deps.Overlay)
	registerProgramAPI(v1, s.deps.ProgramSvc)
	registerMentorshipAPI(v1, jwt, s.deps.MentorshipSvc)
	registerForumAPI(v1, jwt, s.deps.ForumSvc)
	registerNotificationAPI(v1, jwt, s.deps.NotificationSvc)
	registerResourceAPI(v1, s.deps.ResourceSvc)
}

func (s *Server) Start() {
	if err := s.app.Start(core.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// signalShutdown is handed to the error handler so an unrecoverable error can
// trigger the same graceful shutdown path as SIGTERM.
func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Uongozi API!")
}
