package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/pkg/e"
)

const (
	maxHeaderTimeout = 5 * time.Second
	maxHeaderBytes   = 64 << 10
)

// Server обслуживает API. Порт занимается в Listen, чтобы ошибка привязки
// всплывала до запуска фоновой горутины.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: headerTimeout(cfg.ReadTimeout),
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

func headerTimeout(read time.Duration) time.Duration {
	if read > 0 && read < maxHeaderTimeout {
		return read
	}
	return maxHeaderTimeout
}

// Listen занимает TCP-порт из конфигурации.
func (s *Server) Listen() error {
	const op = "Server.Listen"

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return e.Wrap(op, err)
	}
	s.listener = ln

	return nil
}

// Addr возвращает фактический адрес после Listen (важно для порта 0).
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Run принимает соединения до Stop. Штатная остановка возвращает nil.
func (s *Server) Run() error {
	const op = "Server.Run"

	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	if err := s.httpServer.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return e.Wrap(op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
