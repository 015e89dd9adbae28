package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/staffdesk/employee-directory/internal/api"
	"github.com/staffdesk/employee-directory/internal/api/handler"
	"github.com/staffdesk/employee-directory/internal/core/service"
	"github.com/staffdesk/employee-directory/internal/infrastructure/db/mongo"
	"github.com/staffdesk/employee-directory/internal/infrastructure/db/redis"
	"github.com/staffdesk/employee-directory/internal/pkg/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	client, db, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer disconnectMongo(client, cfg, log)
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	checks := []handler.DependencyCheck{{
		Name: "mongodb",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}}

	var throttle service.LoginThrottle
	rdb, err := connectRedis(ctx, cfg, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		throttle = redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow)
		checks = append(checks, handler.DependencyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redis.Ping(ctx, rdb) },
		})
	} else {
		checks = append(checks, handler.DependencyCheck{Name: "redis"})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e, err := api.NewRouter(api.Dependencies{
		AuthService:     service.NewAuthService(mongo.NewAccountRepository(db), throttle, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log),
		EmployeeService: service.NewEmployeeService(mongo.NewEmployeeRepository(db), log),
		JWTSecret:       cfg.Auth.JWTSecret,
		Logger:          log,
		Registry:        reg,
		HealthChecks:    checks,
		CORSOrigins:     cfg.CORS.AllowOrigins,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Msg("http server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// connectRedis returns nil without error when the login throttle is disabled.
func connectRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*goredis.Client, error) {
	if !cfg.ThrottleEnabled() {
		log.Info().Msg("redis not configured, login throttle disabled")
		return nil, nil
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Int("max_attempts", cfg.Auth.LoginMaxAttempts).Msg("login throttle enabled")
	return rdb, nil
}
