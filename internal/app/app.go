// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bilikmatch/seogen/internal/api"
	"github.com/bilikmatch/seogen/internal/config"
	"github.com/bilikmatch/seogen/internal/database"
	"github.com/bilikmatch/seogen/internal/metrics"
	"github.com/bilikmatch/seogen/internal/pipeline"
	"github.com/bilikmatch/seogen/internal/queue"
	"github.com/bilikmatch/seogen/internal/seo"
	"github.com/bilikmatch/seogen/internal/storage"
)

// App holds all the shared, long-lived services for the application.
// It is initialized once at startup and torn down via Close.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	store    storage.Provider
	db       database.Provider
	consumer queue.Consumer
	server   *http.Server
}

// New creates and initializes an App from configuration. It is the
// central point for service construction and fails fast if any
// critical service cannot be initialized.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.Init()

	store, err := newStorageProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := newDatabaseProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	renderer, err := seo.NewRenderer(seo.SiteConfig{
		PublicBaseURL:       cfg.Site.PublicBaseURL,
		RedirectBaseURL:     cfg.Site.RedirectBaseURL,
		DefaultListingImage: cfg.Site.DefaultListingImage,
		DefaultAvatarImage:  cfg.Site.DefaultAvatarImage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	router := pipeline.NewRouter(store, renderer, cfg.CacheMaxAge(), logger)
	bulk := pipeline.NewBulk(db, store, renderer, cfg.Bulk.Concurrency, cfg.CacheMaxAge(), logger)
	refresher := pipeline.NewRefresher(db, store, cfg.Site.PublicBaseURL, cfg.CacheMaxAge(), logger, nil)

	consumer, err := newConsumer(ctx, cfg, router, logger)
	if err != nil {
		return nil, err
	}

	srv := api.NewServer(bulk, refresher, cfg, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		db:       db,
		consumer: consumer,
		server:   httpServer,
	}, nil
}

func newStorageProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Provider, error) {
	switch cfg.Storage.Provider {
	case "gcs":
		logger.Info("Using GCS storage provider", zap.String("bucket", cfg.Storage.GCSBucket))
		store, err := storage.NewGCSProvider(ctx, cfg.Storage.GCSBucket, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return store, nil
	case "memory":
		logger.Info("Using in-memory storage provider. Artifacts will not be published.")
		return storage.NewMemoryProvider(), nil
	case "noop":
		logger.Info("Using No-Op storage provider. Artifacts will be discarded.")
		return &storage.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
}

func newDatabaseProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (database.Provider, error) {
	switch cfg.Database.Provider {
	case "firestore":
		logger.Info("Connecting to Firestore...",
			zap.String("project", cfg.Database.ProjectID),
			zap.String("database", cfg.Database.Database))
		db, err := database.NewFirestoreProvider(ctx, database.FirestoreConfig{
			ProjectID:          cfg.Database.ProjectID,
			Database:           cfg.Database.Database,
			ListingsCollection: cfg.Database.ListingsCollection,
			TenantsCollection:  cfg.Database.TenantsCollection,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, nil
	case "memory":
		logger.Info("Using in-memory entity source.")
		return database.NewMemoryProvider(), nil
	case "noop":
		logger.Info("Using No-Op entity source. Bulk operations will see no entities.")
		return &database.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown database provider: %s", cfg.Database.Provider)
	}
}

func newConsumer(ctx context.Context, cfg config.Config, router *pipeline.Router, logger *zap.Logger) (queue.Consumer, error) {
	switch cfg.PubSub.Provider {
	case "pubsub":
		logger.Info("Connecting to GCP Pub/Sub",
			zap.String("subscription", cfg.PubSub.Subscription))
		consumer, err := queue.NewPubSubConsumer(ctx, cfg.PubSub.ProjectID, cfg.PubSub.Subscription, router, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize change-event consumer: %w", err)
		}
		return consumer, nil
	case "memory":
		logger.Info("Using in-memory change-event consumer.")
		return queue.NewMemoryConsumer(router, 64, logger), nil
	case "none":
		logger.Info("Change-event consumption disabled. Only on-demand endpoints are active.")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown pubsub provider: %s", cfg.PubSub.Provider)
	}
}

// Run starts the HTTP server and the change-event consumer, blocking
// until the context finishes or either loop fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.consumer != nil {
		go func() {
			a.logger.Info("Starting change-event consumer")
			if err := a.consumer.Run(ctx); err != nil {
				errCh <- fmt.Errorf("change-event consumer: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Close gracefully shuts down all services in the App container.
func (a *App) Close() {
	a.logger.Info("Shutting down application services...")
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Warn("Error closing change-event consumer", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Error closing database connection", zap.Error(err))
	}
	if closer, ok := a.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("Error closing storage client", zap.Error(err))
		}
	}
	// Flush buffered log entries before the process exits.
	if err := a.logger.Sync(); err != nil {
		// Best effort; logging itself may be failing.
		_ = err
	}
}
