package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/innovatepam/ideatracker/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address      string
	handler      http.Handler
	logger       logging.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewServer(address string, l logging.Logger, h http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		address:      address,
		handler:      h,
		logger:       l.With("module", "http_server"),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
