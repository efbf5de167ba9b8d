// Package devserver serves a web app bundle for local testing.
//
// Files come from http.FileServer. The server adds the headers a service worker and
// cross-origin fonts need, and corrects the content types of scripts, JSON, and the
// web app manifest.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/f4ah6o/feedcalc-serve/internal/config"
)

// State is the lifecycle state of a Server.
type State int32

const (
	// Stopped is the state before a successful bind and after Serve returns.
	Stopped State = iota
	// Listening is entered as soon as Listen binds the port.
	Listening
)

func (s State) String() string {
	if s == Listening {
		return "LISTENING"
	}
	return "STOPPED"
}

// ShutdownTimeout bounds how long Serve waits for in-flight requests after its context ends.
const ShutdownTimeout = 5 * time.Second

// Server is the dev file server.
type Server struct {
	cfg      config.Config
	log      logrus.FieldLogger
	fallback func(string) string
	state    atomic.Int32
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and lifecycle messages.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithFallbackContentType replaces DefaultContentType as the baseline MIME mapping.
func WithFallbackContentType(fn func(string) string) Option {
	return func(s *Server) {
		s.fallback = fn
	}
}

// New creates a Server for cfg.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		log:      logrus.StandardLogger(),
		fallback: DefaultContentType,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports whether the server is accepting connections.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Handler returns the full request pipeline: fixed headers, access log, recovery,
// content-type overrides, and the static file server for the configured root.
// Decorate runs outermost so the 500 written by Recoverer still carries the fixed headers.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(Decorate)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)
	r.Use(ContentTypes(s.fallback))
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Root)))
	return r
}

// Listen binds the configured port on all interfaces.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	s.state.Store(int32(Listening))
	return ln, nil
}

// Serve accepts connections on ln until ctx is done, then stops accepting,
// waits up to ShutdownTimeout for in-flight requests, and returns nil.
// Any other reason for the accept loop to end is returned as an error.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}

	errCh := make(chan error, 1)
	s.state.Store(int32(Listening))
	defer s.state.Store(int32(Stopped))

	go func() {
		errCh <- srv.Serve(ln)
	}()

	if s.cfg.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := watchRoot(watchCtx, s.cfg.Root, s.log); err != nil {
				s.log.WithError(err).Warn("File watcher stopped")
			}
		}()
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.WithError(err).Warn("Graceful shutdown timed out; closing connections")
		srv.Close()
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
