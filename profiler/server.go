// Package profiler serves net/http/pprof on a port separate from the
// application so profiles never pass through the envelope boundary.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/pitabwire/util"

	"github.com/greendam/greenframe/config"
)

const (
	// DefaultShutdownTimeout is the timeout for graceful shutdown of the pprof server.
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultReadHeaderTimeout is the timeout for reading request headers to prevent Slowloris attacks.
	DefaultReadHeaderTimeout = 5 * time.Second
)

// Server manages the pprof server lifecycle.
type Server struct {
	server   *http.Server
	listener net.Listener
}

func NewServer() *Server {
	return &Server{}
}

// Handler exposes the pprof endpoints under /debug/pprof/.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartIfEnabled binds the profiler port and serves in the background when
// the configuration enables profiling.
func (s *Server) StartIfEnabled(ctx context.Context, cfg config.ConfigurationProfiler) error {
	if !cfg.ProfilerEnabled() {
		return nil
	}

	log := util.Log(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", cfg.ProfilerPort())
	if err != nil {
		return fmt.Errorf("listen pprof on %s: %w", cfg.ProfilerPort(), err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}

	log.WithField("address", listener.Addr().String()).Info("starting pprof server")

	srv := s.server
	go func() {
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.WithError(serveErr).Error("pprof server failed")
		}
	}()

	return nil
}

// Stop gracefully shuts down the pprof server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log := util.Log(ctx)
	log.Debug("stopping pprof server")

	shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shutdown pprof server")
		return err
	}

	s.server = nil
	s.listener = nil
	return nil
}

func (s *Server) IsRunning() bool {
	return s.server != nil
}

// Addr is the bound address while the server runs.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
