package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/config"
	"alfredoptarigan/hiring-agent/internal/handlers"
	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/repositories"
	"alfredoptarigan/hiring-agent/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	docRepo := repositories.NewDocumentRepository(db)
	screenRepo := repositories.NewScreeningRepository(db)

	resumeStorage := services.NewResumeStorage(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := resumeStorage.EnsureUploadDir(); err != nil {
		return err
	}

	pdfParser := services.NewPDFParserService(log)

	reasoning, err := services.NewReasoningService(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize reasoning provider: %w", err)
	}
	log.Info("reasoning provider ready",
		zap.String(logger.FieldProvider, reasoning.Provider()),
		zap.String(logger.FieldModel, reasoning.Model()),
	)

	jobContext, closeStore, err := newJobContext(ctx, cfg, reasoning, log)
	if err != nil {
		return err
	}
	defer closeStore()

	screener, err := services.NewScreener(cfg, reasoning, pdfParser, log)
	if err != nil {
		return fmt.Errorf("failed to build screening workflow: %w", err)
	}

	screeningService := services.NewScreeningService(screenRepo, docRepo, screener, jobContext, log)

	worker := services.NewWorker(screenRepo, screeningService, services.WorkerOptions{
		Concurrency:  cfg.Worker.Concurrency,
		QueueSize:    cfg.Worker.QueueSize,
		PollInterval: cfg.Worker.PollInterval,
	}, log)
	worker.Start(ctx)
	defer worker.Stop()

	app := handlers.NewApp(handlers.Handlers{
		Upload: handlers.NewUploadHandler(docRepo, resumeStorage, cfg.Storage.MaxFileSize, log),
		Screen: handlers.NewScreenHandler(screenRepo, docRepo, screeningService, worker, log),
		Result: handlers.NewResultHandler(screenRepo),
	}, handlers.AppOptions{
		Name:         "Hiring Agent API",
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		RequestLog:   cfg.Server.Env == "development",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	return app.Listen(addr)
}

// newJobContext wires title based retrieval when Qdrant is enabled. Embeddings
// always come from Gemini; a gemini reasoning provider is reused for them.
func newJobContext(ctx context.Context, cfg *config.Config, reasoning services.ReasoningService, log *zap.Logger) (services.JobContextService, func(), error) {
	noop := func() {}

	if !cfg.Qdrant.Enabled {
		log.Info("qdrant disabled, job titles will not resolve")
		return services.NewJobContextService(nil, nil, 0, log), noop, nil
	}

	embedder, ok := reasoning.(services.GeminiService)
	if !ok {
		if cfg.Gemini.APIKey == "" {
			log.Warn("GEMINI_API_KEY not set, job titles will not resolve")
			return services.NewJobContextService(nil, nil, 0, log), noop, nil
		}
		gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
			APIKey:     cfg.Gemini.APIKey,
			EmbedModel: cfg.Gemini.EmbedModel,
		}, log)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize gemini embeddings: %w", err)
		}
		embedder = gemini
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		return nil, noop, err
	}

	if err := store.InitCollection(ctx); err != nil {
		_ = store.Close()
		return nil, noop, fmt.Errorf("failed to initialize qdrant collection: %w", err)
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close qdrant client", zap.Error(err))
		}
	}

	return services.NewJobContextService(embedder, store, cfg.Qdrant.SearchLimit, log), closeStore, nil
}
