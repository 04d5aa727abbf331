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
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/navigator/backend/internal/analysis/intent"
	"github.com/zhouzirui/navigator/backend/internal/config"
	"github.com/zhouzirui/navigator/backend/internal/handler"
	"github.com/zhouzirui/navigator/backend/internal/logging"
	"github.com/zhouzirui/navigator/backend/internal/model/prompt"
	"github.com/zhouzirui/navigator/backend/internal/service/assistant"
	"github.com/zhouzirui/navigator/backend/internal/service/chat"
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

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment only", zap.Error(envErr))
	}

	promptStore, err := loadPrompts(ctx, cfg.Assistant.PromptsFile)
	if err != nil {
		logger.Fatal("failed to load sample prompts", zap.Error(err))
	}

	assistantSvc, err := assistant.NewService(ctx, intent.Respond, cfg.Assistant.HistoryLimit)
	if err != nil {
		logger.Fatal("failed to initialise assistant", zap.Error(err))
	}
	chatSvc := chat.NewService(assistantSvc, cfg.Assistant.ResponseDelay)
	defer chatSvc.Close()

	router := handler.NewRouter(cfg.Server, promptStore, chatSvc, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("navigator backend listening",
		zap.String("addr", cfg.Server.Addr),
		zap.Duration("responseDelay", cfg.Assistant.ResponseDelay),
	)
	if err := runServer(ctx, srv, cfg.Server.ShutdownTimeout, chatSvc); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// loadPrompts returns the built-in prompts, or a watched file store when a
// prompts file is configured.
func loadPrompts(ctx context.Context, path string) (prompt.Store, error) {
	if path == "" {
		return prompt.NewMemoryStore(prompt.Seed()), nil
	}
	store, err := prompt.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.Watch(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// runServer serves until ctx is cancelled, then shuts the server down and
// ends every live session so that pending replies are dropped.
func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, chatSvc *chat.Service) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		// SSE and WebSocket handlers only return once their sessions end.
		chatSvc.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
