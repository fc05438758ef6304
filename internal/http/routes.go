package http

import (
	"net/http"
	"time"

	"json_script_analyzer/internal/adaptors"
	"json_script_analyzer/internal/application/config"
	"json_script_analyzer/internal/http/handlers"
	"json_script_analyzer/internal/http/middleware"
	"json_script_analyzer/internal/http/session"
	"json_script_analyzer/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func initRoutes(r *Router, appCfg *config.AppConfig, cfg *HTTPServerConfig) {
	analysisCfg := appCfg.Analysis
	client := adaptors.NewAnalysisClient(analysisCfg.EndpointURL, analysisCfg.ClientTimeout, r.log)
	sessions := session.NewStore(func() *service.UploadControl {
		return service.NewUploadControl(client, analysisCfg.MaxFileSize, r.log)
	}, cfg.SessionTTL, r.log)

	links := service.DefaultLinks().Override(
		analysisCfg.Links.AboutJSON,
		analysisCfg.Links.GoodPractices,
		analysisCfg.Links.CommonMistakes,
	)

	page := handlers.NewScanPageHandler(sessions, links, analysisCfg.MaxFileSize, r.log)
	export := handlers.NewExportHandler(sessions, r.log)
	apiHandler := handlers.NewAPIHandler(sessions, links, analysisCfg.MaxFileSize, r.log)
	uploadLimit := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.Upload.RateLimit, cfg.Upload.RateBurst, 10*time.Minute, cfg.TrustProxy))

	r.httpRouter.Use(middleware.MetricsMiddleware)
	r.httpRouter.Use(middleware.RequestIDLoggerMiddleware(r.log))

	r.httpRouter.Get("/ready", handlers.NewReadyHandler().Handle)
	r.httpRouter.Get("/", page.Index)
	r.httpRouter.With(uploadLimit).Post("/upload", page.Upload)
	r.httpRouter.Get("/export/{format}", export.Handle)

	// CORS covers the upload only: its response carries the whole state, while
	// /api/result depends on the session cookie, which is not sent cross-origin.
	uploadCORS := cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})

	r.httpRouter.Route("/api", func(ar chi.Router) {
		ar.With(uploadCORS, uploadLimit).Post("/upload", apiHandler.Upload)
		ar.With(uploadCORS).Options("/upload", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		ar.Get("/result", apiHandler.Result)
	})
}
