package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	mongoadapter "github.com/Atomic996/Bougtobstore/internal/adapter/mongo"
	natsadapter "github.com/Atomic996/Bougtobstore/internal/adapter/nats"
	redisadapter "github.com/Atomic996/Bougtobstore/internal/adapter/redis"
	"github.com/Atomic996/Bougtobstore/internal/adapter/storage"
	"github.com/Atomic996/Bougtobstore/internal/app/config"
	"github.com/Atomic996/Bougtobstore/internal/moderation"
	"github.com/Atomic996/Bougtobstore/internal/platform/logger"
	"github.com/Atomic996/Bougtobstore/internal/platform/metrics"
	httpport "github.com/Atomic996/Bougtobstore/internal/port/http"
	"github.com/Atomic996/Bougtobstore/internal/repository"
	"github.com/Atomic996/Bougtobstore/internal/service"
	"github.com/Atomic996/Bougtobstore/internal/service/identity"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *http.Server
	metrics     *metrics.MetricsManager
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP port: %s", cfg.Env, cfg.HTTPServer.Port)

	metricsManager := metrics.NewMetricsManager("bougtob_store")

	// Mongo and Redis degrade instead of blocking startup: without a store
	// the read path serves the seed set and submissions are refused, without
	// a cache every read goes to the store.
	var mongoClient *mongo.Client
	var listingRepo repository.ListingRepository
	if cfg.MongoDB.URI != "" {
		mongoClient, err = mongoadapter.NewClient(ctx, cfg.MongoDB)
		if err != nil {
			appLogger.Warnf("MongoDB unavailable, serving seed listings only: %v", err)
			mongoClient = nil
		} else {
			listingRepo = mongoadapter.NewListingRepository(mongoClient, cfg.MongoDB)
			appLogger.Info("MongoDB client initialized")
		}
	} else {
		appLogger.Warn("No MongoDB URI configured, serving seed listings only")
	}

	var redisClient *redis.Client
	var listingCache repository.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err = redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Warnf("Redis unavailable, listings will not be cached: %v", err)
			redisClient = nil
		} else {
			listingCache = redisadapter.NewCacheRepository(redisClient)
			appLogger.Info("Redis client initialized")
		}
	} else {
		appLogger.Warn("No Redis address configured, listings will not be cached")
	}

	var imageStorage repository.ImageStorage
	if cfg.Storage.Endpoint != "" {
		minioStorage, err := storage.NewMinioStorage(cfg.Storage, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize image storage: %w", err)
		}
		imageStorage = minioStorage
	} else {
		appLogger.Warn("No image storage configured, listings will keep inline images")
	}

	var natsConn *nats.Conn
	var publisher service.EventPublisher = natsadapter.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsConn, err = natsadapter.NewConnection(cfg.NATS)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher, err = natsadapter.NewPublisher(natsConn)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		appLogger.Info("NATS publisher initialized")
	} else {
		appLogger.Warn("No NATS URL configured, events will not be published")
	}

	imageClient := moderation.NewImageClient(nil, cfg.Moderation.ImageEndpoint, cfg.Moderation.APIToken)
	textClient := moderation.NewTextClient(nil, cfg.Moderation.TextEndpoint, cfg.Moderation.APIToken)
	classifier := moderation.NewClassifier(imageClient, textClient, moderation.ClassifierConfig{
		ImageThreshold: cfg.Moderation.ImageThreshold,
		TextThreshold:  cfg.Moderation.TextThreshold,
		CheckTimeout:   cfg.Moderation.CheckTimeout,
		MaxImageEdge:   cfg.Moderation.MaxImageEdge,
		JPEGQuality:    cfg.Moderation.JPEGQuality,
	}, appLogger, metricsManager)

	listingService := service.NewListingService(
		listingRepo,
		listingCache,
		imageStorage,
		moderation.NewFilter(),
		classifier,
		publisher,
		identity.NewUUIDProvider(),
		metricsManager,
		cfg.Listings.CacheTTL,
		appLogger,
	)

	handler := httpport.NewListingHandler(listingService, appLogger)
	mux := chi.NewRouter()
	mux.Use(httpport.RequestLogger(appLogger))
	httpport.SetupListingRoutes(mux, handler)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		metrics:     metricsManager,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Infof("HTTP server started on %s", a.server.Addr)

	if a.cfg.Metrics.Port != "" {
		go func() {
			if err := metrics.StartMetricsServer(a.cfg.Metrics.Port, a.log, a.metrics.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped")
	}

	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}
	a.log.Info("Application stopped")
}
