package http

import (
	"context"
	"os/signal"
	"syscall"

	"json_script_analyzer/internal/application/config"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Router struct {
	httpRouter *chi.Mux
	log        *log.Logger
}

// Init runs the UI server, the metrics server and, in debug mode, the pprof
// server until ctx is done or SIGINT/SIGTERM arrives.
func Init(ctx context.Context, log *log.Logger, appCfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := NewHTTPServerConfig()
	if err != nil {
		return err
	}

	router := &Router{
		httpRouter: chi.NewRouter(),
		log:        log,
	}
	initRoutes(router, appCfg, cfg)

	servers := []*HTTPServer{NewHttpServer(cfg, router.httpRouter, log)}
	if appCfg.MetricsHost != "" {
		servers = append(servers, NewMetricsServer(appCfg.MetricsHost, cfg.Timeouts.ShutdownWait, log))
	}
	if appCfg.DebugMode {
		servers = append(servers, NewPprofServer(cfg.PprofHost, cfg.Timeouts.ShutdownWait, log))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(s.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		var stopErr error
		for _, s := range servers {
			if err := s.Stop(); err != nil {
				log.WithError(err).Error(`failed to stop server`)
				stopErr = err
			}
		}
		return stopErr
	})

	return g.Wait()
}
