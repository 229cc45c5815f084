package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"league-mirror/internal/auth"
	"league-mirror/internal/config"
	"league-mirror/internal/domain"
	"league-mirror/internal/fetch"
	httpserver "league-mirror/internal/http"
	"league-mirror/internal/http/handlers"
	"league-mirror/internal/http/middleware"
	"league-mirror/internal/metrics"
	"league-mirror/internal/poller"
	"league-mirror/internal/snapshots"
	"league-mirror/internal/store"
	"league-mirror/internal/upstream"
)

var metricsSetup = metrics.Setup

// snapshotPersistence joins the snapshot writer and loader into the store's
// persistence contract.
type snapshotPersistence struct {
	*snapshots.Writer
	*snapshots.FSStore
}

// Server owns the mirror's runtime pieces: store, pipeline, scheduler, and
// the two HTTP listeners.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.ResourceStore
	pipeline      *fetch.Pipeline
	scheduler     Scheduler
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a fully wired server from configuration.
func New(cfg config.Config, logger *slog.Logger) *Server {
	credentials := auth.NewChainProvider(auth.Config{
		CookiesEnv: cfg.Auth.CookiesEnv,
		CookieFile: cfg.Auth.CookieFile,
		Email:      cfg.Auth.Email,
		Password:   cfg.Auth.Password,
		SignInURL:  upstream.SignInPath(cfg.Upstream.BaseURL),
	}, logger)

	client := upstream.NewClient(upstream.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		Credential: credentials,
	})
	return newServerWithClient(cfg, logger, client)
}

func newServerWithClient(cfg config.Config, logger *slog.Logger, client fetch.Getter) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	resourceStore := store.New(snapshotPersistence{
		Writer:  snapshots.NewWriter(cfg.DataDir),
		FSStore: snapshots.NewFSStore(cfg.DataDir),
	})

	pipeline := fetch.New(fetch.Config{
		Client:        client,
		Retrier:       fetch.NewRetrier(cfg.Retry.Attempts, cfg.Retry.Delay, logger, recorder),
		Store:         resourceStore,
		Logger:        logger,
		Metrics:       recorder,
		GamesSeasonID: cfg.Upstream.GamesSeasonID,
		PlayerDelay:   cfg.Retry.PlayerDelay,
	})

	scheduler := poller.New(buildJobs(cfg, pipeline), logger, recorder)
	httpSrv := buildHTTPServer(cfg, resourceStore, logger, recorder, scheduler)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         resourceStore,
		pipeline:      pipeline,
		scheduler:     scheduler,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

func buildJobs(cfg config.Config, pipeline *fetch.Pipeline) []poller.Job {
	return []poller.Job{
		{Name: domain.ResourceSim.String(), Interval: cfg.Poll.SimInterval, Run: pipeline.FetchSim},
		{Name: domain.ResourceTeams.String(), Interval: cfg.Poll.TeamsInterval, Run: pipeline.FetchTeams},
		{Name: domain.ResourcePlayers.String(), Interval: cfg.Poll.PlayersInterval, Run: pipeline.FetchPlayers},
		{Name: domain.ResourceGames.String(), Interval: cfg.Poll.GamesInterval, Run: pipeline.FetchGames},
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recorder, promHandler, shutdown, err := metricsSetup(context.Background(), metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		if logger != nil {
			logger.Error("metrics setup failed, continuing without telemetry", "error", err)
		}
		return metrics.NewRecorder(), nil, nil
	}
	if promHandler == nil {
		return recorder, nil, shutdown
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promHandler)
	srv := &http.Server{
		Addr:         ":" + cfg.Metrics.Port,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return recorder, netHTTPServer{srv: srv}, shutdown
}

func buildHTTPServer(cfg config.Config, resourceStore *store.ResourceStore, logger *slog.Logger, recorder *metrics.Recorder, scheduler Scheduler) httpServer {
	var statusFn func() map[string]poller.Status
	if scheduler != nil {
		statusFn = scheduler.Statuses
	}

	handler := handlers.NewHandler(resourceStore, logger, statusFn)
	router := httpserver.NewRouter(handler)
	wrapped := middleware.LoggingMiddleware(logger, recorder, middleware.CORS(nil, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return netHTTPServer{srv: srv}
}

// Run bootstraps the caches, starts the schedulers and HTTP listeners, then
// waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.pipeline.Bootstrap(ctx)
	s.seedJobStatus()

	s.startMetrics()
	s.startServer(stop)
	s.scheduler.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

// seedJobStatus marks jobs for already-warm resources as healthy so /ready
// reflects bootstrap results instead of waiting a full poll interval.
func (s *Server) seedJobStatus() {
	seeder, ok := s.scheduler.(interface{ MarkSuccess(string, time.Time) })
	if !ok {
		return
	}
	now := time.Now()
	for _, resource := range domain.Resources() {
		if _, _, committed := s.store.Load(resource); committed {
			seeder.MarkSuccess(resource.String(), now)
		}
	}
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Error(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.scheduler.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("scheduler shutdown failed", "error", err)
	}
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("http server shutdown failed", "error", err)
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("metrics server shutdown failed", "error", err)
		}
	}
	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("metrics exporter shutdown failed", "error", err)
		}
	}
	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}
