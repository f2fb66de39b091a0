// Package taskkeeper собирает приложение: хранилище, миграции, redis,
// сервисы и HTTP-сервер с graceful shutdown.
package taskkeeper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/taskkeeper/internal/cache"
	"github.com/magabrotheeeer/taskkeeper/internal/config"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/jwt"
	"github.com/magabrotheeeer/taskkeeper/internal/migrations"
	authservice "github.com/magabrotheeeer/taskkeeper/internal/services/auth"
	taskservice "github.com/magabrotheeeer/taskkeeper/internal/services/task"
	"github.com/magabrotheeeer/taskkeeper/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создаёт приложение: подключает PostgreSQL, прогоняет миграции,
// подключает redis и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	taskService := taskservice.NewTaskService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, taskService, cacheRedis)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
