// Package usersadmin собирает приложение администрирования учётных
// записей: хранилище, кеш, публикацию событий, HTTP-сервер и маршруты.
//
// Внешние зависимости опциональны: без строки подключения к PostgreSQL
// используется хранилище в памяти, без Redis пути чтения идут мимо кеша,
// без RabbitMQ события жизненного цикла не публикуются.
package usersadmin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/users-administration/internal/cache"
	"github.com/magabrotheeeer/users-administration/internal/config"
	"github.com/magabrotheeeer/users-administration/internal/lib/jwt"
	"github.com/magabrotheeeer/users-administration/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/users-administration/internal/lib/sl"
	"github.com/magabrotheeeer/users-administration/internal/migrations"
	"github.com/magabrotheeeer/users-administration/internal/models"
	userservice "github.com/magabrotheeeer/users-administration/internal/services/user"
	"github.com/magabrotheeeer/users-administration/internal/storage/memory"
	"github.com/magabrotheeeer/users-administration/internal/storage/postgres"
)

// App держит собранный HTTP-сервер и ресурсы, требующие закрытия.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *postgres.Storage
	publisher *rabbitmq.Publisher
}

// New собирает приложение по конфигурации и создаёт стартового
// администратора, если его логин ещё не занят.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.usersadmin.New"

	app := &App{logger: logger}

	var repo userservice.Repository
	if cfg.StorageConnectionString != "" {
		db, err := postgres.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.db = db
		repo = db
	} else {
		logger.Warn("storage connection string is empty, using in-memory storage")
		repo = memory.New()
	}

	var cacheRedis userservice.Cache
	if cfg.AddressRedis != "" {
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cacheRedis = c
	}

	var events userservice.EventPublisher
	if cfg.RabbitConnectionString != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher, err := rabbitmq.NewPublisher(conn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.publisher = publisher
		events = publisher
	}

	service := userservice.New(repo, cacheRedis, events, logger)

	if err := seedAdmin(ctx, repo, cfg.BootstrapAdmin, logger); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, service, jwtMaker)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// seedAdmin создаёт стартового администратора. Повторный запуск ничего
// не меняет: занятый логин означает, что запись уже существует.
func seedAdmin(ctx context.Context, repo userservice.Repository, cfg config.BootstrapAdmin, logger *slog.Logger) error {
	existing, err := repo.GetByLogin(ctx, cfg.AdminLogin)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	birthday := time.Now().UTC().AddDate(-22, 0, 0)
	admin := models.User{
		UID:       uuid.New().String(),
		Login:     cfg.AdminLogin,
		Password:  cfg.AdminPassword,
		Name:      cfg.AdminName,
		Gender:    models.GenderMale,
		Birthday:  &birthday,
		IsAdmin:   true,
		CreatedOn: time.Now().UTC(),
		CreatedBy: "System",
	}
	if err := repo.Insert(ctx, admin); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", slog.String("login", cfg.AdminLogin))
	return nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		if a.publisher != nil {
			if cerr := a.publisher.Close(); cerr != nil {
				a.logger.Error("failed to close rabbitmq publisher", sl.Err(cerr))
			}
		}
		if a.db != nil {
			if cerr := a.db.DB.Close(); cerr != nil {
				a.logger.Error("failed to close database", sl.Err(cerr))
			}
		}
		return err
	}
}
