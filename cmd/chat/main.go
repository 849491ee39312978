package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/client"
)

func main() {
	_ = godotenv.Load()

	defaultServer := os.Getenv("CHAT_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:5001"
	}

	server := flag.String("server", defaultServer, "聊天后端地址")
	timeout := flag.Duration("timeout", 90*time.Second, "单次请求超时时间")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("failed to build logger: %v", err)
		}
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("connecting", zap.String("server", *server), zap.Duration("timeout", *timeout))

	session := client.NewSession(client.NewAPI(*server, *timeout))
	renderer := client.NewRenderer(os.Stdout)

	if err := client.Run(ctx, os.Stdin, session, renderer); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("chat session ended", zap.Error(err))
		os.Exit(1)
	}
	logger.Debug("chat session ended", zap.Int("turns", len(session.History())))
}
