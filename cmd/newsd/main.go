package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/docgen"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"news_portal/internal/config"
	"news_portal/internal/feed"
	"news_portal/internal/httpapi"
	"news_portal/internal/publisher"
	"news_portal/internal/service"
	"news_portal/internal/storage/memory"
	"news_portal/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	routes := flag.Bool("routes", false, "print route documentation and exit")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	var (
		articleStore service.ArticleStore
		userStore    service.UserStore
	)

	switch cfg.Storage.Driver {
	case "memory":
		articleStore = memory.NewArticleStore()
		userStore = memory.NewUserStore()
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to database")

		articleStore = postgres.NewArticleStore(db)
		userStore = postgres.NewUserStore(db)
	}

	// Article events are optional; the service skips publishing when nil.
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	authService := service.NewAuthService(userStore, cfg.Auth, logger)
	articleService := service.NewArticleService(articleStore, service.RoleAuthorizer{}, pub, logger)
	composer := feed.NewComposer(cfg.Feed)

	handler := httpapi.NewHandler(articleService, authService, composer, logger)
	router := handler.Router(cfg.HTTP.AllowedOrigins)

	if *routes {
		fmt.Println(docgen.MarkdownRoutesDoc(router, docgen.MarkdownOpts{
			ProjectPath: "news_portal",
			Intro:       "News portal HTTP API.",
		}))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := authService.SeedAdmin(ctx); err != nil {
		logger.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
		cancel()
	}()

	logger.Info("starting news portal",
		"addr", cfg.HTTP.Addr,
		"storage", cfg.Storage.Driver,
		"events", cfg.RabbitMQ.Enabled,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped")
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
