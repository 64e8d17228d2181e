package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"codecollabgo/internal/config"
	"codecollabgo/internal/http/http_server"
	"codecollabgo/internal/services/execution"
	"codecollabgo/internal/services/review"
	"codecollabgo/internal/services/rooms"
	"codecollabgo/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	if cfg.GeminiApiKey == "" {
		// Not fatal: the relay keeps running, every review request will fail
		// at the external-call boundary.
		Log.Error("GEMINI_API_KEY is not set; AI review requests will fail")
	}

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. In-memory room registry + state store
	roomService := rooms.NewRoomService()

	// 4. External-service proxies
	execService := execution.NewExecutionService(cfg.PistonUrl)
	reviewService := review.NewReviewService(cfg.GeminiBaseUrl, cfg.GeminiModel, cfg.GeminiApiKey)

	// 5. WebSockets hub + relay
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, roomService, execService, reviewService)

	// 6. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, roomService)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()
	Log.Info("Server is running", zap.Uint16("port", cfg.HttpServerPort))

	<-ctx.Done()
	_ = httpServer.Dispose()
}
