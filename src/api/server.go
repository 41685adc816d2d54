package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m1guelpf/chatgpt-paywall/src/paywall"
)

// ConversationHeader is sent by the agent platform on every action call.
const ConversationHeader = "openai-conversation-id"

type Options struct {
	PublicURL string
	AppName   string
}

func NewRouter(svc *paywall.Service, opts Options, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{Service: svc, Logger: logger}
	spec := openAPIDocument(opts)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/getPaymentURL", h.GetPaymentURL)
	r.Post("/webhook/stripe", h.StripeWebhook)
	r.Get("/hasUserPaid", h.HasUserPaid)

	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusOK, spec)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// Server is an http.Server with finite timeouts so a slow client cannot hold
// a connection open indefinitely.
type Server struct {
	srv    *http.Server
	logger *slog.Logger

	drained   chan struct{}
	drainOnce sync.Once
}

func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger:  logger,
		drained: make(chan struct{}),
	}
}

// ListenAndServe blocks until the server stops. After Shutdown it only
// returns once in-flight requests have drained, and then returns nil.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening", "addr", ln.Addr().String())
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-s.drained
	return nil
}

// Shutdown stops accepting connections and waits for active requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.drainOnce.Do(func() { close(s.drained) })

	err := s.srv.Shutdown(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "http server shutdown incomplete", "error", err)
	}
	return err
}
