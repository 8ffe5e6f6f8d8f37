package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/agrolanc/stocksync/internal/application/usecase"
	"github.com/agrolanc/stocksync/internal/infrastructure/unas"
	httpRouter "github.com/agrolanc/stocksync/internal/interfaces/http"
	"github.com/agrolanc/stocksync/pkg/config"
	"github.com/agrolanc/stocksync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Catálogo remoto: cliente de protocolo + sesión con token cacheado +
	// pool de lookups acotado.
	client := unas.NewClient(cfg.UNAS)
	session := unas.NewSession(client)
	catalog := unas.NewCatalog(client, session, cfg.Sync.LookupConcurrency, log.Component("unas"))

	dispatchUC := usecase.NewDispatchUseCase(catalog, cfg.Sync.ChunkSize, log.Component("dispatch"))
	reconcileUC := usecase.NewReconcileUseCase(catalog, cfg.Sync, log.Component("reconcile"))
	contactSyncUC := usecase.NewContactSyncUseCase(log.Component("contacts"))
	stockLookupUC := usecase.NewStockLookupUseCase(catalog)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    20 * 1024 * 1024, // exportaciones xlsx de varios MB
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowedOrigin,
		AllowMethods: "GET,POST",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.HTTP.RateLimitPerMinute,
		Expiration: time.Minute,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DispatchUC:    dispatchUC,
		ReconcileUC:   reconcileUC,
		ContactSyncUC: contactSyncUC,
		StockLookupUC: stockLookupUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
