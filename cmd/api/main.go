package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/bootstrap"
	"alfredoptarigan/resume-extractor/internal/config"
	"alfredoptarigan/resume-extractor/internal/handlers"
	"alfredoptarigan/resume-extractor/internal/repositories"
	"alfredoptarigan/resume-extractor/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := config.NewLogger(cfg.Server.Env)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("❌ Invalid configuration", zap.Error(err))
	}
	zlog.Info("✅ Config loaded", zap.String("env", cfg.Server.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	storage, err := services.NewStorageService(ctx, cfg.Storage, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize storage", zap.Error(err))
	}

	svc, err := bootstrap.Build(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize services", zap.Error(err))
	}

	analyzer := services.NewAnalyzerService(analysisRepo, docRepo, svc.Profiles, svc.Matcher, zlog)
	worker := services.NewWorker(analysisRepo, analyzer, cfg.Worker.Concurrency, cfg.Worker.PollInterval, zlog)
	worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Extractor API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.LLM.Timeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * cfg.Storage.MaxFiles,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.SetupRoutes(app, handlers.Handlers{
		Extract: handlers.NewExtractHandler(svc.Text, cfg.Storage.MaxFileSize, cfg.Storage.MaxFiles, zlog),
		Skill:   handlers.NewSkillHandler(svc.Skills, svc.Matcher),
		Profile: handlers.NewProfileHandler(svc.Profiles),
		Ranking: handlers.NewRankingHandler(svc.Ranking),
		Upload:  handlers.NewUploadHandler(docRepo, storage, svc.Text, cfg.Storage.MaxFileSize, zlog),
		Analyze: handlers.NewAnalyzeHandler(analysisRepo, docRepo, worker),
		Result:  handlers.NewResultHandler(analysisRepo),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("🛑 Shutting down server")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			zlog.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
