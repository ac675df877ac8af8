package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"flowershop/internal/adapter/repo"
	"flowershop/internal/http/handlers"
	httpapi "flowershop/internal/http/httpapi"
	"flowershop/internal/infra"
	"flowershop/internal/orders"
	"flowershop/internal/providers/chat"
	"flowershop/internal/providers/image"
	"flowershop/internal/storage"
	"flowershop/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	orderService := orders.NewService(
		repo.NewOrderRepository(runner),
		orders.NewPlaceholderOwner(repo.NewUserRepository(runner)),
		logger,
	)

	var store *storage.FileStore
	if cfg.StoragePath != "" {
		store, err = storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare storage")
		}
	}
	images := image.NewDalleGenerator(image.Options{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
		Model:        cfg.OpenAIImageModel,
		Mode:         image.ModeFromFlag(cfg.ImageInlineMode),
		Store:        store,
		Logger:       logger.With().Str("component", "image").Logger(),
	})
	gateway := chat.NewGateway(chat.Options{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
		Model:        cfg.OpenAIChatModel,
		Images:       images,
		Logger:       logger.With().Str("component", "chat").Logger(),
	})

	views, err := web.NewViews()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load views")
	}

	app := &handlers.App{
		Config: cfg,
		Logger: logger,
		Orders: orderService,
		Chat:   gateway,
		Views:  views,
	}
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("chat_model", gateway.Model()).
			Str("image_mode", string(images.Mode())).
			Bool("operator_auth", cfg.OperatorAuthEnabled()).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
