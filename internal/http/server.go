package http

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// HTTPServer is one listener managed by Init. The UI, metrics and pprof
// servers differ only in name and handler.
type HTTPServer struct {
	name         string
	shutdownWait time.Duration
	server       *http.Server
	log          *log.Logger
}

func NewHttpServer(config *HTTPServerConfig, handler http.Handler, log *log.Logger) *HTTPServer {
	return &HTTPServer{
		name:         `http`,
		shutdownWait: config.Timeouts.ShutdownWait,
		server: &http.Server{
			Addr:              config.Host,
			Handler:           handler,
			ReadTimeout:       config.Timeouts.Read,
			ReadHeaderTimeout: config.Timeouts.ReadHeader,
			WriteTimeout:      config.Timeouts.Write,
			IdleTimeout:       config.Timeouts.Idle,
		},
		log: log,
	}
}

func NewMetricsServer(host string, shutdownWait time.Duration, log *log.Logger) *HTTPServer {
	reg := metrics.MetricsRegister()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &HTTPServer{
		name:         `metrics`,
		shutdownWait: shutdownWait,
		server: &http.Server{
			Addr:              host,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

func NewPprofServer(host string, shutdownWait time.Duration, log *log.Logger) *HTTPServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &HTTPServer{
		name:         `pprof`,
		shutdownWait: shutdownWait,
		server: &http.Server{
			Addr:              host,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

func (s *HTTPServer) Start() error {
	s.log.WithField(`server`, s.name).Info("server starting on ", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, s.name+` server failed`)
	}
	return nil
}

func (s *HTTPServer) Stop() error {
	if s.server == nil {
		return errors.New(`server is not initialized`)
	}
	s.log.WithField(`server`, s.name).Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownWait)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, `failed to shutdown `+s.name+` server`)
	}

	s.log.WithField(`server`, s.name).Info("server exiting")
	return nil
}
