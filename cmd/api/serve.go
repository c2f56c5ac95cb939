package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dogpass-api/internal/adapters/auth/jwt"
	pg "dogpass-api/internal/adapters/storage/postgres"
	"dogpass-api/internal/middleware"
	"dogpass-api/internal/platform/eventbus"
	"dogpass-api/internal/platform/metrics"
	"dogpass-api/internal/platform/telemetry"
	"dogpass-api/internal/ports/auth"
	"dogpass-api/internal/router"

	"github.com/redis/go-redis/v9"
)

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	otelShutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		ServiceName:  cfg.Log.App,
		OTLPEndpoint: cfg.Telemetry.Endpoint,
		SampleRatio:  cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		log.Error("otel setup failed", map[string]any{"err": err})
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	if a.db != nil && cfg.DB.AutoMigrate {
		if err := pg.MigrateUp(a.db); err != nil {
			return err
		}
		log.Info("migrations applied", nil)
	}

	// Tokens: sin JWT_CRYPT_KEY se firma con una clave efímera y se queda en
	// modo dev (headers de debug en vez de Bearer).
	secret := cfg.Auth.Secret
	if secret == "" {
		secret = randomSecret()
		log.Warn("JWT_CRYPT_KEY not set: using an ephemeral key and debug auth headers", nil)
	}
	tokens, err := jwt.New(secret, cfg.Auth.TokenTTL())
	if err != nil {
		return err
	}
	var verifier auth.AuthVerifier
	if cfg.Auth.Secret != "" {
		verifier = tokens
	}

	var events eventbus.Publisher = eventbus.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		events = eventbus.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("publishing timeline events to kafka", map[string]any{"brokers": cfg.Kafka.Brokers, "topic": cfg.Kafka.Topic})
	}
	defer func() { _ = events.Close() }()

	var limiter middleware.Limiter
	if cfg.RateLimit.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opt)
		defer func() { _ = rdb.Close() }()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.LoginPerMinute, time.Minute, "dogpass:login")
		log.Info("login rate limiting enabled (redis)", map[string]any{"per_minute": cfg.RateLimit.LoginPerMinute})
	} else {
		log.Info("login rate limiting enabled (in-memory)", map[string]any{"per_minute": cfg.RateLimit.LoginPerMinute})
	}

	proxies, err := cfg.HTTP.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	h := router.NewRouter(router.Options{
		AuthVerifier:       verifier,
		TokenIssuer:        tokens,
		DB:                 a.db,
		Logger:             log,
		Metrics:            metrics.New(),
		Events:             events,
		AuthRequired:       cfg.Auth.Required,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		TrustedProxies:     proxies,
		LoginLimiter:       limiter,
		LoginPerMinute:     cfg.RateLimit.LoginPerMinute,
		RateLimitFailOpen:  cfg.RateLimit.FailOpen,
		PopulateEnabled:    cfg.Populate.Enabled,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      telemetry.WrapHandler(h, cfg.Log.App),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "postgres": a.db != nil})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"err": err})
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", map[string]any{"err": err})
		return err
	}
	log.Info("server stopped", nil)
	return nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
