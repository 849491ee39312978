package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/config"
	"github.com/zhouzirui/yaros-chat/backend/internal/handler"
	chatModel "github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	"github.com/zhouzirui/yaros-chat/backend/internal/service/assistant"
	"github.com/zhouzirui/yaros-chat/backend/internal/service/chat"
	"github.com/zhouzirui/yaros-chat/backend/internal/service/gif"
	"github.com/zhouzirui/yaros-chat/backend/internal/service/sentiment"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	if err := cfg.Assistant.Validate(); err != nil {
		logger.Fatal("assistant credentials missing", zap.Error(err))
	}
	if cfg.GIF.APIKey == "" {
		logger.Warn("GIPHY_API_KEY 未配置，GIF 查询将失败并降级为无图")
	}

	sentimentSvc, err := sentiment.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize sentiment analysis", zap.String("provider", cfg.Sentiment.Provider), zap.Error(err))
	}
	defer func() {
		if err := sentimentSvc.Close(); err != nil {
			logger.Warn("failed to close sentiment client", zap.Error(err))
		}
	}()
	logger.Info("sentiment analysis initialized", zap.String("provider", sentimentSvc.Provider()))

	gifSvc := gif.NewService(
		gif.NewGiphyClient(cfg.GIF.APIKey, cfg.GIF.BaseURL, cfg.GIF.Rating, cfg.GIF.Timeout),
		cfg.GIF.MaxOffset,
		logger,
	)
	assistantSvc := assistant.NewService(assistant.NewClient(cfg.Assistant), cfg.Assistant, logger)
	chatSvc := chat.NewService(sentimentSvc, gifSvc, assistantSvc, logger)

	conv := chatModel.NewConversation()
	router := handler.NewRouter(chatSvc, conv, cfg.Server.AllowedOrigin, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("server is running", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
