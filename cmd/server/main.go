package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/motorepuestos/shop/internal/config"
	"github.com/motorepuestos/shop/internal/es"
	"github.com/motorepuestos/shop/internal/httpserver"
	"github.com/motorepuestos/shop/internal/logging"
	authmw "github.com/motorepuestos/shop/internal/middleware/auth"
	loggingmw "github.com/motorepuestos/shop/internal/middleware/logging"
	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/mykafka"
	"github.com/motorepuestos/shop/internal/repo"
	"github.com/motorepuestos/shop/internal/service"
)

func main() {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancelInit()
	if err != nil {
		log.Fatalf("error de inicialización de la BD: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("error de migración de la BD: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	r := repo.New(db)

	inventorySvc := &service.InventoryService{
		Repo:              r,
		Producer:          producer,
		LowStockThreshold: cfg.LowStockThreshold,
	}
	catalogSvc := &service.CatalogService{Repo: r, Producer: producer}
	cartSvc := &service.CartService{Repo: r, Producer: producer}
	orderSvc := &service.OrderService{Repo: r, Inventory: inventorySvc, Producer: producer}
	whatsapp := service.WhatsApp{Number: cfg.WhatsAppNumber, StoreName: cfg.StoreName}

	auth := authmw.New(cfg.JWTSecret)

	deps := httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Repo: r, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret},
		ProductHandler:   &httpserver.ProductHTTP{Svc: catalogSvc},
		CartHandler:      &httpserver.CartHTTP{Svc: cartSvc},
		OrderHandler:     &httpserver.OrderHTTP{Svc: orderSvc, Cart: cartSvc, WhatsApp: whatsapp},
		InventoryHandler: &httpserver.InventoryHTTP{Svc: inventorySvc},
		Auth:             auth,
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("error de inicialización de elasticsearch: %v", err)
		}
		deps.SearchHandler = &httpserver.SearchHTTP{ES: esClient, Index: "products"}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
