package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/config"
	"live-quiz-service/internal/infra/memory"
	"live-quiz-service/internal/infra/postgres"
	redisinfra "live-quiz-service/internal/infra/redis"
	"live-quiz-service/internal/logger"
	"live-quiz-service/internal/metrics"
	transport "live-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logger.Setup(
		config.Env("LOG_LEVEL", cfg.Log.Level),
		config.Env("LOG_FORMAT", cfg.Log.Format),
	)
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3001"
	}

	var quizRepo app.QuizRepository = memory.NewQuizRepository()
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
		db, pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		defer db.Close()
		quizRepo = postgres.NewQuizRepository(db, pool)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	pins := app.NewPinGenerator(cfg.Session.PinDigits)
	var (
		sessions   app.SessionRepository
		redisStore *redisinfra.SessionStore
	)
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, quizRepo, quizTTL)
		redisStore = redisinfra.NewSessionStore(redisClient, redisTTL, pins)
		sessions = redisStore
	} else {
		sessions = memory.NewSessionStore(pins)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(reg)

	hub := transport.NewHub(log)
	service := app.NewQuizService(sessions, app.NewCatalog(quizRepo), hub,
		app.WithLogger(log),
		app.WithObserver(collector),
	)
	wsHandler := transport.NewWSHandler(service, hub, log, cfg.Server.AllowedOrigins).
		WithConnectionObserver(collector)

	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := transport.NewRouter(transport.RouterConfig{
		API:            transport.NewAPI(service, log),
		WS:             wsHandler,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", finalPort).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		interval := config.TTLDuration(cfg.Session.StatsInterval, 5*time.Minute)
		return app.ReportSessions(gctx, service, log, interval)
	})
	if redisStore != nil {
		g.Go(func() error {
			return refreshReservations(gctx, redisStore, redisTTL/2, log)
		})
	}

	return g.Wait()
}

// refreshReservations keeps the Redis PIN reservations of long-running sessions alive.
func refreshReservations(ctx context.Context, store *redisinfra.SessionStore, every time.Duration, log zerolog.Logger) error {
	if every <= 0 {
		return nil
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := store.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("refresh pin reservations")
			}
		}
	}
}
