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
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github/itish2003/neuronova/config"
	"github/itish2003/neuronova/controller"
	"github/itish2003/neuronova/logger"
	"github/itish2003/neuronova/services"
	"github/itish2003/neuronova/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log, err := logger.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, cleanup, err := setup(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to start", zap.Error(err))
	}
	defer cleanup()

	// No WriteTimeout: chat answers are streamed for as long as the model talks.
	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("NeuroNova server starting", zap.String("address", "http://"+cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited")
}

// setup validates cfg and wires the router. A missing API key is not fatal:
// the server comes up and answers every request with the configuration message.
func setup(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), controller.RequestLogger(log), controller.CORS())

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			log.Error("Gemini API key is missing, serving configuration error only", zap.Error(err))
			controller.RegisterConfigErrorRoutes(router, config.MissingAPIKeyMessage)
			return router, func() {}, nil
		}
		return nil, nil, err
	}

	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	log.Info("Gemini client ready",
		zap.String("vision_model", cfg.Gemini.VisionModel),
		zap.String("chat_model", cfg.Gemini.ChatModel))

	transcripts, cleanup, err := newTranscriptStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, nil, err
	}

	opts := services.ModelOptions{
		Timeout: cfg.Gemini.Timeout,
		Retry:   services.RetryPolicy{MaxRetries: cfg.Gemini.MaxRetries},
	}
	extractor := services.NewExtractorService(
		services.NewGeminiVisionModel(geminiClient, cfg.Gemini.VisionModel),
		cfg.Gemini.ImagePrompt, opts, log)
	responder := services.NewResponderService(
		services.NewGeminiChatModel(geminiClient, cfg.Gemini.ChatModel),
		transcripts, cfg.App.TranscriptMode, opts, log)

	chatController := controller.NewChatController(extractor, responder, cfg.App.MaxUploadSize, log)
	pageController := controller.NewPageController(extractor, responder, cfg.App.MaxUploadSize, log)
	if err := controller.RegisterRoutes(router, chatController, pageController); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to register routes: %w", err)
	}

	cfg.Watch(log, func(updated *config.Config) {
		extractor.SetPrompt(updated.Gemini.ImagePrompt)
		log.Info("Image prompt reloaded")
	})

	return router, cleanup, nil
}

// newTranscriptStore opens the configured transcript backend. The returned
// func releases it.
func newTranscriptStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (store.TranscriptStore, func(), error) {
	if cfg.Driver != config.StoreRedis {
		log.Info("Using in-memory transcript store")
		return store.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Info("Using redis transcript store",
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.RedisTTL))

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	return store.NewRedisStore(client, store.WithTTL(cfg.RedisTTL), store.WithPrefix(cfg.RedisPrefix)), cleanup, nil
}
