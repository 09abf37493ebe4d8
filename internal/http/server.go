package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ServerOptions struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	// WriteTimeout must outlast the completion timeout or slow replies are cut off.
	WriteTimeout time.Duration
}

type Server struct {
	Engine *gin.Engine
	srv    *nethttp.Server
}

func NewServer(opts ServerOptions, cfg RouterConfig) *Server {
	engine := NewRouter(cfg)
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	return &Server{
		Engine: engine,
		srv: &nethttp.Server{
			Addr:              opts.Addr,
			Handler:           engine,
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
			WriteTimeout:      opts.WriteTimeout,
		},
	}
}

func (s *Server) Addr() string { return s.srv.Addr }

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
