package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/voxgate/voxgate/internal/api"
	"github.com/voxgate/voxgate/internal/audit"
	"github.com/voxgate/voxgate/internal/config"
	"github.com/voxgate/voxgate/internal/credentials"
	"github.com/voxgate/voxgate/internal/database"
	"github.com/voxgate/voxgate/internal/events"
	"github.com/voxgate/voxgate/internal/middleware"
	"github.com/voxgate/voxgate/internal/quota"
	iredis "github.com/voxgate/voxgate/internal/redis"
	"github.com/voxgate/voxgate/internal/server"
	"github.com/voxgate/voxgate/internal/speech"
	"github.com/voxgate/voxgate/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS is optional: without it the gateway runs, it just publishes no
	// events and keeps no audit trail.
	var eventsClient *events.Client
	if cfg.NATS.URL != "" {
		eventsClient, err = events.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to nats", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
	} else {
		slog.Warn("NATS_URL not set, event publishing and audit trail disabled")
	}

	// Credential ring
	ring, err := credentials.NewRing(cfg.TTS.APIKeys)
	if err != nil {
		slog.Error("building credential ring", "error", err)
		os.Exit(1)
	}

	// Quota trackers
	dailyStore := quota.NewDailyStore(pool)
	minuteWindow := quota.NewMinuteWindow(cfg.Quota.MinuteLimit)
	go minuteWindow.Run(ctx)

	// Synthesis
	synth := tts.NewGeminiClient(cfg.TTS, ring)

	// Orchestrator
	deps := speech.Deps{
		Daily:  dailyStore,
		Minute: minuteWindow,
		Synth:  synth,
		Creds:  ring,
		Cache:  speech.NewAudioCache(redisClient, cfg.Quota.CacheTTL),
		Limits: speech.Limits{Daily: cfg.Quota.DailyLimit, Minute: cfg.Quota.MinuteLimit},
	}
	if eventsClient != nil {
		deps.Events = events.NewPublisher(eventsClient.JetStream())
	}
	orch := speech.NewOrchestrator(deps)
	speechHandler := speech.NewHandler(orch)

	// Audit
	auditRepo := audit.NewRepository(pool)
	auditHandler := audit.NewHandler(auditRepo)
	if eventsClient != nil {
		consumerMgr := events.NewConsumerManager(eventsClient.JetStream())
		auditConsumer := audit.NewConsumer(auditRepo, consumerMgr)
		go func() {
			if err := auditConsumer.Start(ctx); err != nil {
				slog.Error("audit consumer stopped", "error", err)
			}
		}()
	}

	// Rotation endpoint is rate-limited per IP to blunt token brute-forcing.
	adminLimiter := middleware.NewRateLimiter(redisClient, 10, 60)

	// Router
	router := api.NewRouter(pool, eventsClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		AdminToken:         cfg.Admin.Token,
		AdminRateLimiter:   adminLimiter.Middleware,
	}, api.HandlerSet{
		Generate:   speechHandler.Generate,
		GetStatus:  speechHandler.GetStatus,
		GetQuota:   speechHandler.GetQuota,
		ListVoices: speechHandler.ListVoices,

		RotateCredential: speechHandler.RotateCredential,

		ListAudit: auditHandler.List,
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
