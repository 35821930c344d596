// @title                       User Administration API
// @version                     1.0.0
// @description                 Operator and profile administration with role-based access.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/docs"
	"github.com/99minutos/user-admin/internal/api"
	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/core/service"
	"github.com/99minutos/user-admin/internal/infrastructure/config"
	"github.com/99minutos/user-admin/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/user-admin/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/user-admin/internal/infrastructure/db/redis"
	"github.com/99minutos/user-admin/internal/infrastructure/security"
	"github.com/99minutos/user-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-admin",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores bundles the repositories selected by STORE_DRIVER.
type stores struct {
	operators ports.OperatorRepository
	profiles  ports.ProfileRepository
	ping      handler.Pinger
	close     func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		store, err := memory.NewStore()
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("using in-memory store, records are lost on restart")
		return &stores{
			operators: store.Operators(),
			profiles:  store.Profiles(),
			ping:      store,
			close:     func(context.Context) error { return nil },
		}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &stores{
		operators: mongostore.NewOperatorRepository(db),
		profiles:  mongostore.NewProfileRepository(db),
		ping:      handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
		close:     client.Disconnect,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	readiness := map[string]handler.Pinger{"store": st.ping}

	// The identity cache is optional; without REDIS_ADDR the gate reads the store.
	var cache ports.OperatorCache
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = redisstore.NewOperatorCache(rdb, cfg.Redis.CacheTTL, log)
		readiness["cache"] = redisstore.NewProbe(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("identity cache enabled")
	}

	codec, err := security.NewJWTCodec(cfg.Token.SecretKey, cfg.Token.Algorithm, cfg.Token.TTL())
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	operators := service.NewOperatorService(st.operators, hasher, cache, log)
	if err := operators.EnsureBootstrap(ctx, service.BootstrapOperator{
		Name:     cfg.Bootstrap.Name,
		Email:    cfg.Bootstrap.Email,
		Password: cfg.Bootstrap.Password,
		Role:     domain.Role(cfg.Bootstrap.Role),
	}); err != nil {
		return fmt.Errorf("bootstrap operator: %w", err)
	}

	if cfg.Provision.Enabled && cfg.Provision.Password != "" {
		log.Warn().Msg("auto-provisioned operators share a fixed password")
	}

	docs.SwaggerInfo.Title = cfg.AppTitle
	docs.SwaggerInfo.Version = cfg.AppVersion

	e := api.NewRouter(api.RouterConfig{
		Auth: service.NewAuthService(st.operators, hasher, codec, log),
		Gate: service.NewAccessGate(codec, st.operators, hasher, cache, service.GateOptions{
			AutoProvision:    cfg.Provision.Enabled,
			FallbackPassword: cfg.Provision.Password,
		}, log),
		Operators: operators,
		Profiles:  service.NewProfileService(st.profiles, hasher, log),
		Readiness: readiness,
		Title:     cfg.AppTitle,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
