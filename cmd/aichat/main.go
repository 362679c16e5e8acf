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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/api"
	"github.com/liliang-cn/aichat/internal/api/middleware"
	"github.com/liliang-cn/aichat/internal/auth"
	"github.com/liliang-cn/aichat/internal/config"
	"github.com/liliang-cn/aichat/internal/domain"
	"github.com/liliang-cn/aichat/internal/repository"
	"github.com/liliang-cn/aichat/internal/service"
	"github.com/liliang-cn/aichat/internal/workflow"
)

var (
	configPath string
	debugMode  bool
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:           "aichat",
	Short:         "Web chat app that forwards messages to a workflow service",
	RunE:          runServer,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if debugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	sessionRepo := repository.NewSessionRepository(db)
	fileRepo := repository.NewFileRepository(db)
	if err := fileRepo.Seed(ctx, cfg.PDF.SeedFiles); err != nil {
		return fmt.Errorf("failed to seed PDF files: %w", err)
	}

	var threads domain.ThreadProvider = service.MockThreads{}
	if cfg.Threads.Source == config.ThreadSourceDatabase {
		threadRepo := repository.NewThreadRepository(db)
		if err := threadRepo.SeedThreads(ctx, service.StockThreads(time.Now())); err != nil {
			return fmt.Errorf("failed to seed threads: %w", err)
		}
		threads = threadRepo
	}

	workflowClient := workflow.NewClient(cfg.Workflow.URL, cfg.Workflow.Timeout, logger)

	authService := service.NewAuthService(sessionRepo, logger)
	chatService := service.NewChatService(sessionRepo, workflowClient, logger)
	documentService := service.NewDocumentService(fileRepo, logger)
	threadService := service.NewThreadService(threads, time.Now)

	tokens := auth.NewTokens(cfg.Session.Secret, cfg.Session.TTL)
	sessions := middleware.NewSessions(authService, tokens, cfg.Session.CookieName, cfg.Session.Secure, logger)

	router, err := api.SetupRouter(api.Services{
		Auth:      authService,
		Chat:      chatService,
		Documents: documentService,
		Threads:   threadService,
		Sessions:  sessions,
	}, api.RouterConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
	}, logger)
	if err != nil {
		return err
	}

	// No WriteTimeout: a chat turn waits on the workflow service as long as it takes
	srv := &http.Server{
		Addr:        cfg.Address(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting AI Chat server",
			zap.String("address", cfg.Address()),
			zap.String("workflow_url", cfg.Workflow.URL),
			zap.String("threads_source", cfg.Threads.Source),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}
