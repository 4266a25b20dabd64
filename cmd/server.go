package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"Sator.eden/internal/adapter"
	"Sator.eden/internal/config"
	"Sator.eden/internal/controller"
	"Sator.eden/internal/logging"
	"Sator.eden/internal/middleware"
	"Sator.eden/internal/repository"
	"Sator.eden/internal/routes"
	"Sator.eden/internal/service"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	startupTimeout    = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	for _, setting := range cfg.MissingSettings() {
		logger.Warn("Integration not configured, its endpoints will answer with an error", zap.String("setting", setting))
	}

	// Language model and speech are optional; interfaces stay nil when unset.
	var model service.LanguageModel
	if cfg.GeminiAPIKey != "" {
		gemini := adapter.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
		model = gemini
		logger.Info("Language model configured",
			zap.String("model", gemini.Model()),
			zap.String("key", logging.Redact(cfg.GeminiAPIKey)),
		)
	}
	var speech service.SpeechSynthesizer
	if cfg.ElevenLabsAPIKey != "" {
		speech = adapter.NewElevenLabsClient(cfg.ElevenLabsBaseURL, cfg.ElevenLabsAPIKey, logger)
		logger.Info("Speech synthesis configured", zap.String("key", logging.Redact(cfg.ElevenLabsAPIKey)))
	}
	var camera controller.CameraOpener
	if cfg.CameraURL != "" {
		source := adapter.NewCameraSource(cfg.CameraURL)
		camera = source
		logger.Info("Camera proxy configured", zap.String("upstream", source.URL()))
	}

	// Initialize the optional archive
	var (
		archiveWriter service.ArchiveWriter
		archiveReader service.ArchiveReader
		archivePinger service.Pinger
	)
	if cfg.ArchiveEnabled() {
		repo := repository.NewInfluxDBRepository(cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg, cfg.InfluxDBBucket, logger)
		defer repo.Close()

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		err := repo.Ping(ctx)
		if err == nil {
			err = repo.EnsureBucket(ctx)
		}
		cancel()
		if err != nil {
			// Telemetry keeps working without the archive.
			logger.Error("Telemetry archive unavailable at startup", zap.Error(err))
		} else {
			logger.Info("Telemetry archive ready", zap.String("bucket", cfg.InfluxDBBucket))
		}
		archiveWriter, archiveReader, archivePinger = repo, repo, repo
	}

	// Initialize services and controllers
	chatService := service.NewChatService(model, speech, logger)
	telemetryService := service.NewTelemetryService(
		adapter.NewThingSpeakReader(cfg.ThingSpeakBaseURL, logger),
		cfg.TopChannel, cfg.BottomChannel, archiveWriter, logger,
	)
	// Runs before the archive client is closed.
	defer telemetryService.Wait()
	archiveService := service.NewArchiveService(archiveReader, logger, cfg.TopChannel, cfg.BottomChannel)
	healthService := service.NewHealthService(map[string]bool{
		"gemini":            model != nil,
		"elevenlabs":        speech != nil,
		"thingspeak_top":    cfg.TopChannel.Configured(),
		"thingspeak_bottom": cfg.BottomChannel.Configured(),
		"camera":            camera != nil,
		"auth0":             cfg.AuthEnabled(),
	}, archivePinger, logger)

	controllers := routes.Controllers{
		Chat:      controller.NewChatController(chatService, logger),
		Telemetry: controller.NewTelemetryController(telemetryService, archiveService),
		Camera:    controller.NewCameraController(camera, logger),
		Health:    controller.NewHealthController(healthService),
	}
	if cfg.AuthEnabled() {
		auth, err := middleware.NewAuth0Middleware(middleware.Auth0Config{
			Issuer:   cfg.Auth0Issuer,
			Audience: cfg.Auth0Audience,
		}, logger)
		if err != nil {
			return err
		}
		controllers.ChatAuth = auth
		logger.Info("Chat routes require an Auth0 bearer token", zap.String("issuer", cfg.Auth0Issuer))
	}

	router := routes.NewRouter(controllers, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler(router)

	handler := middleware.RequestID(handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(true),
	)(corsHandler))

	// No WriteTimeout: the camera stream is unbounded.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Eden server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("error starting server: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		// Open camera streams keep connections busy; cut them.
		logger.Warn("Graceful shutdown timed out, closing connections", zap.Error(err))
		return srv.Close()
	}
	logger.Info("Server shut down successfully")
	return nil
}
