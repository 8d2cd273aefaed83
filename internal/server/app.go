// Package server initializes and runs the API server: it connects the
// configured credential store backend, wires the auth service and HTTP
// transport, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/logging"
	"github.com/ademidov/authgate/internal/server/config"
	"github.com/ademidov/authgate/internal/server/httpapi"
	"github.com/ademidov/authgate/internal/server/migrations"
	"github.com/ademidov/authgate/internal/server/repositories/users"
	"github.com/ademidov/authgate/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.Server
	cleanup    func(ctx context.Context)
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if cfg.SecretKey == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		cfg.SecretKey = secret
		logger.Warn(ctx, "no secret key configured, generated a random one; tokens will not survive a restart")
	}

	repo, cleanup, err := newUserRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	userService := services.NewUserService(repo, cfg)
	httpServer := httpapi.NewServer(cfg.EndpointAddr, userService, logger, cfg.AllowedOrigins)

	return &App{
		config:     cfg,
		logger:     logger,
		httpServer: httpServer,
		cleanup:    cleanup,
	}, nil
}

// newUserRepository opens the credential store selected by
// cfg.StorageBackend and returns it with a cleanup function.
func newUserRepository(ctx context.Context, cfg *config.Config) (users.Repository, func(ctx context.Context), error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		repo := users.NewMongoRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, func(ctx context.Context) { _ = client.Disconnect(ctx) }, nil

	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db open error: %w", err)
		}
		if err := migrations.Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migration error: %w", err)
		}
		return users.NewPostgresRepository(db), func(context.Context) { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr, "backend", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "err", err)
	}

	if app.cleanup != nil {
		app.cleanup(context.Background())
	}
}
