package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"infragen/app/config"
	"infragen/app/usecase"
	"infragen/internal/domain/repository"
	"infragen/internal/infrastructure/compliance"
	"infragen/internal/infrastructure/extractor"
	"infragen/internal/infrastructure/generator"
	"infragen/internal/infrastructure/inventory"
	"infragen/internal/infrastructure/metrics"
	"infragen/internal/infrastructure/store/filesystem"
	"infragen/internal/infrastructure/store/memory"
	mongorepo "infragen/internal/infrastructure/store/mongodb"
	"infragen/internal/infrastructure/transport"
)

func main() {
	// logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Repositories
	var (
		jobRepo     repository.JobRepository
		configRepo  repository.ConfigFileRepository
		mongoClient *mongo.Client
	)
	if cfg.Mongo.Enabled() {
		mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 30*time.Second)
		mongoClient, err = mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			mongoCancel()
			log.Fatalf("mongo connect: %v", err)
		}
		if err := mongoClient.Ping(mongoCtx, nil); err != nil {
			mongoCancel()
			log.Fatalf("mongo ping: %v", err)
		}
		mongoCancel()
		logger.Info("connected to mongo", "database", cfg.Mongo.Database)

		db := mongoClient.Database(cfg.Mongo.Database)
		jobRepo = mongorepo.NewMongoJobRepo(db)
		configRepo = mongorepo.NewMongoConfigRepo(db)
	} else {
		logger.Info("MONGO_URI not set, using in-memory stores")
		jobRepo = memory.NewJobRepo()
		configRepo = memory.NewConfigFileRepo()
	}

	fileRepo, err := filesystem.NewFileRepository(cfg.FileRepo.OutputDir)
	if err != nil {
		log.Fatalf("init file repo: %v", err)
	}
	logger.Info("writing generated files", "dir", fileRepo.GetBasePath())

	// Usecases / services
	generation := usecase.NewGenerationService(
		usecase.Pipeline{
			Extractor: extractor.NewKeywordExtractor(),
			Generator: generator.NewTerraformGenerator(),
			Annotator: compliance.NewSecurityTagsAnnotator(),
			Scanner:   inventory.NewHCLScanner(),
		},
		jobRepo,
		configRepo,
		fileRepo,
		cfg.Generator.MaxServers,
		logger,
	)
	jobSvc := usecase.NewJobService(jobRepo, configRepo, fileRepo)
	configFileSvc := usecase.NewConfigService(configRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := usecase.NewConfigGeneratorService(jobRepo, generation, cfg.Worker.PollInterval, logger)
	worker.Start(ctx)

	// Transport (HTTP handlers)
	handler := transport.NewOrchestratorHandler(generation, jobSvc, configFileSvc, logger)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting metrics server", "addr", cfg.Metrics.Addr)
		if err := metrics.StartMetricsServer(cfg.Metrics.Addr); err != nil {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			cancel()
		}
	}()

	// OS signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	// Shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	worker.Stop()

	if mongoClient != nil {
		logger.Info("disconnecting mongo")
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Error("mongo disconnect error", "err", err)
		}
	}

	logger.Info("service stopped")
}
