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

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/httpx"
	"github.com/shopmesh/shopmesh/internal/postgres"
	"github.com/shopmesh/shopmesh/internal/redisx"
	"github.com/shopmesh/shopmesh/internal/repository"
	"github.com/shopmesh/shopmesh/internal/service"
	"github.com/shopmesh/shopmesh/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		zlog.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer func() { _ = rdb.Close() }()

	orderRepo := repository.NewOrder(pool)
	productRepo := repository.NewProduct(pool)
	paymentRepo := repository.NewPayment(pool)
	sellerRepo := repository.NewSeller(pool)
	unit := repository.NewUnitOfWork(pool)

	statusCache := redisx.NewStatusCache(rdb)

	orderSvc := service.NewOrder(unit, orderRepo, sellerRepo, statusCache, zlog)
	paymentSvc := service.NewPayment(paymentRepo, zlog)
	catalogSvc := service.NewCatalog(productRepo, sellerRepo)
	sellerSvc := service.NewSeller(sellerRepo, zlog)

	router := httpx.NewRouter(cfg.ServiceName)
	(&httpx.OrderHandler{Orders: orderSvc, Logger: zlog}).Register(router)
	(&httpx.PaymentHandler{Payments: paymentSvc, Logger: zlog}).Register(router)
	(&httpx.ProductHandler{Catalog: catalogSvc, Logger: zlog}).Register(router)
	(&httpx.SellerHandler{Sellers: sellerSvc, Logger: zlog}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		zlog.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	zlog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
