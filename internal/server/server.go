package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"media_relay/config"
	v1 "media_relay/internal/controller/http/v1"
	"media_relay/internal/relay"
	"media_relay/internal/telemetry/metric"
	ttrace "media_relay/internal/telemetry/trace"
	"media_relay/pkg/httpserver"
	"media_relay/pkg/logger"
)

// NewServer ...
func NewServer(cfg *config.Config) *Server {
	srv := &Server{metrics: metric.New()}

	if err := srv.InitGlobalProvider(context.Background(), cfg); err != nil {
		log.Error().Err(err).Msg("tracing disabled")
	}

	return srv
}

type Server struct {
	metrics              *metric.Metrics
	traceProviderCloseFn []ttrace.CloseFunc
}

// Run serves until SIGINT/SIGTERM or a listener error, then shuts down.
func (s *Server) Run(ctx context.Context, cfg *config.Config) error {
	l := logger.New(cfg.Log.Level)
	l.Info("Starting %s %s...", cfg.App.Name, cfg.App.Version)

	handler := s.Handler(cfg, l)
	httpServer := httpserver.New(handler,
		httpserver.Port(cfg.Server.Port),
		httpserver.ReadTimeout(cfg.Server.ReadTimeout),
		httpserver.WriteTimeout(cfg.Server.WriteTimeout),
		httpserver.ShutdownTimeout(cfg.Server.ShutdownTimeout),
	)

	logBanner(l, cfg)

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var err error
	select {
	case sig := <-interrupt:
		l.Info("app - Run - signal: " + sig.String())
	case <-ctx.Done():
		l.Info("app - Run - context: " + ctx.Err().Error())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	log.Printf("server stopped")

	// Shutdown
	if shutdownErr := httpServer.Shutdown(); shutdownErr != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", shutdownErr))
	}

	ctxShutDown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	for _, closeFn := range s.traceProviderCloseFn {
		if closeErr := closeFn(ctxShutDown); closeErr != nil {
			log.Error().Err(closeErr).Msgf("Unable to close trace provider")
		}
	}

	log.Printf("server exited properly")

	return err
}

// Handler assembles the relay: upstream clients, usecase, gin routes and CORS.
func (s *Server) Handler(cfg *config.Config, l logger.Interface) http.Handler {
	ru := relay.NewRelayUsecase(cfg.Upstream, relay.Clients{
		LinkResolver: s.upstreamClient("link_resolver"),
		Video:        s.upstreamClient("video"),
		VocalRemover: s.upstreamClient("vocal_remover"),
		Speech:       s.upstreamClient("speech"),
	}, l)

	handler := gin.New()
	v1.NewRouter(handler, l, ru, s.metrics, v1.Options{
		StaticDir:    cfg.Server.StaticDir,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	return s.cors().Handler(handler)
}

// upstreamClient has no timeout: uploads and video downloads may take arbitrarily long.
func (s *Server) upstreamClient(upstream string) *http.Client {
	transport := s.metrics.InstrumentRoundTripper(upstream, http.DefaultTransport)
	return &http.Client{Transport: otelhttp.NewTransport(transport)}
}

func (s *Server) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"POST", "GET", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Range", "X-CSRF-Token", "Authorization", "X-Request-ID"},
		ExposedHeaders:     []string{"Content-Length", "Content-Type", "Content-Range", "X-Request-ID"},
		MaxAge:             60, // 1 minutes
		AllowCredentials:   false,
		OptionsPassthrough: false,
		Debug:              false,
	})
}

func logBanner(l logger.Interface, cfg *config.Config) {
	l.Info("Proxy server running on port %s", cfg.Server.Port)
	l.Info("Serving static files from: %s", cfg.Server.StaticDir)
	l.Info("CORS enabled for all origins")
	l.Info("Available endpoints:")
	l.Info("  POST /api/download - link resolver")
	l.Info("  GET  /api/video-download - video relay")
	l.Info("  POST /api/vocal-remover - vocal remover")
	l.Info("  POST /api/transcribe - speech recognition")
	l.Info("  GET  / - front-end")
	l.Info("  GET  /healthz, /metrics, /swagger/index.html")
}
