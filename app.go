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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"rentals-api/config"
	"rentals-api/consumers"
	"rentals-api/controllers"
	"rentals-api/graphql"
	"rentals-api/repositories"
	"rentals-api/services"
	"rentals-api/utils"
)

const (
	shutdownTimeout = 30 * time.Second
	indexCollection = "properties"
)

// application holds every wired component and the order in which to release
// them.
type application struct {
	router    *gin.Engine
	consumer  *consumers.RabbitMQConsumer
	scheduler *services.StayScheduler
	indexer   services.IndexService
	closers   []func() error
}

func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *application, err error) {
	app := &application{}
	defer func() {
		if err != nil {
			app.Close(logger)
		}
	}()

	// a. Database
	db, err := openDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.onClose(closeDatabase(db))

	users := repositories.NewUserRepository(db)
	properties := repositories.NewPropertyRepository(db)
	bookings := repositories.NewBookingRepository(db)
	reviews := repositories.NewReviewRepository(db)
	amenities := repositories.NewAmenityRepository(db)
	favorites := repositories.NewFavoriteRepository(db)

	// b. Cache
	remote, err := app.remoteCache(cfg)
	if err != nil {
		return nil, err
	}
	cacheRepo := repositories.NewCacheRepository(remote, logger)
	app.onClose(func() error {
		cacheRepo.Close()
		return nil
	})
	logger.Info("Cache repository initialized", zap.String("backend", cfg.CacheBackend))

	// c. Search backend
	index, err := app.searchIndex(ctx, cfg, properties, logger)
	if err != nil {
		return nil, err
	}
	var finder services.PropertyFinder = properties
	if index != nil {
		finder = services.NewIndexedFinder(index, properties)
	}
	logger.Info("Search backend initialized", zap.String("backend", cfg.SearchBackend))

	// d. Services
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	searchService := services.NewSearchService(finder, properties, reviews, cacheRepo, cfg.SearchCacheTTL, logger)
	app.indexer = services.NewIndexService(index, properties, searchService, logger)
	bookingService := services.NewBookingService(bookings, properties, logger)
	amenityService := services.NewAmenityService(amenities, logger)

	// e. Property events
	publisher, err := app.eventPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	propertyService := services.NewPropertyService(properties, users, searchService, publisher, logger)

	// f. Stay completion
	app.scheduler, err = services.NewStayScheduler(cfg.CompletionSchedule, bookingService, logger)
	if err != nil {
		return nil, err
	}

	// g. HTTP
	schema, err := graphql.NewSchema(searchService, amenityService)
	if err != nil {
		return nil, err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	app.router = controllers.NewRouter(controllers.Handlers{
		Properties: controllers.NewPropertyController(searchService, propertyService, logger),
		Users:      controllers.NewUserController(services.NewUserService(users, tokens, logger), logger),
		Amenities:  controllers.NewAmenityController(amenityService, logger),
		Bookings:   controllers.NewBookingController(bookingService, logger),
		Reviews:    controllers.NewReviewController(services.NewReviewService(reviews, bookings, searchService, logger), logger),
		Favorites:  controllers.NewFavoriteController(services.NewFavoriteService(favorites, reviews, logger), logger),
		GraphQL:    graphql.NewHandler(schema),
	}, tokens, logger)

	return app, nil
}

func (a *application) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *application) Close(logger *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Error releasing resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func openDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return repositories.OpenDatabase(cfg.DBDriver, cfg.DatabaseDSN, logger)
}

func closeDatabase(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

func (a *application) remoteCache(cfg *config.Config) (repositories.RemoteCache, error) {
	switch cfg.CacheBackend {
	case "memcached":
		return repositories.NewMemcachedCache(cfg.MemcachedHost), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		a.onClose(client.Close)
		return repositories.NewRedisCache(client), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}

// searchIndex returns nil when matching runs on the SQL store.
func (a *application) searchIndex(ctx context.Context, cfg *config.Config, properties repositories.PropertyRepository, logger *zap.Logger) (repositories.SearchIndex, error) {
	switch cfg.SearchBackend {
	case "sql":
		return nil, nil
	case "memory":
		all, err := properties.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading properties into memory index: %w", err)
		}
		index := repositories.NewMemorySearchIndex()
		index.Load(all)
		logger.Info("Memory search index loaded", zap.Int("properties", index.Len()))
		return index, nil
	case "mongo":
		collection, err := a.mongoCollection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewMongoSearchIndex(collection, logger), nil
	default:
		return nil, fmt.Errorf("unsupported search backend %q", cfg.SearchBackend)
	}
}

func (a *application) mongoCollection(ctx context.Context, cfg *config.Config) (*mongo.Collection, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := repositories.ConnectMongo(connectCtx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	a.onClose(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return client.Disconnect(ctx)
	})
	return client.Database(cfg.MongoDatabase).Collection(indexCollection), nil
}

// eventPublisher sends property events through RabbitMQ when a broker is
// configured and applies them in-process otherwise.
func (a *application) eventPublisher(cfg *config.Config, logger *zap.Logger) (services.EventPublisher, error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("No broker configured, applying property events inline")
		return services.NewInlinePublisher(a.indexer), nil
	}

	publisher, err := consumers.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.PropertiesQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ publisher: %w", err)
	}
	a.onClose(publisher.Close)

	a.consumer, err = consumers.NewRabbitMQConsumer(cfg.RabbitMQURL, cfg.PropertiesQueue, a.indexer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer: %w", err)
	}
	a.onClose(a.consumer.Close)

	return publisher, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting rentals API...")
	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close(logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if app.consumer != nil {
		g.Go(func() error {
			// A lost broker leaves search on TTL expiry; the API keeps serving.
			if err := app.consumer.Start(ctx); err != nil {
				logger.Error("RabbitMQ consumer stopped", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		return app.scheduler.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Rentals API shut down complete")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDatabase(db)()

	if err := repositories.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database schema up to date")

	if cfg.SearchBackend != "mongo" {
		return nil
	}

	app := &application{}
	defer app.Close(logger)

	collection, err := app.mongoCollection(ctx, cfg)
	if err != nil {
		return err
	}
	if err := repositories.EnsureSearchIndexes(ctx, collection); err != nil {
		return err
	}

	properties := repositories.NewPropertyRepository(db)
	cacheRepo := repositories.NewCacheRepository(nil, logger)
	defer cacheRepo.Close()
	searchService := services.NewSearchService(properties, properties, repositories.NewReviewRepository(db), cacheRepo, cfg.SearchCacheTTL, logger)
	indexer := services.NewIndexService(repositories.NewMongoSearchIndex(collection, logger), properties, searchService, logger)

	if _, err := indexer.Reindex(ctx); err != nil {
		return err
	}
	return nil
}
