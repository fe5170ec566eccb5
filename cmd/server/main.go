package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/config"
	"github.com/Eduardv6/SisPOS-Backend/internal/infra"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"
	"github.com/Eduardv6/SisPOS-Backend/internal/router"
	"github.com/Eduardv6/SisPOS-Backend/internal/service"
	"github.com/Eduardv6/SisPOS-Backend/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	cajaRepo := repository.NewCajaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	arqueoWorker := worker.NewArqueoWorker(cajaRepo, ventaRepo, mailer, smtpCB, cfg.AlertEmail, cfg.PDFStoragePath)

	handlers := map[string]worker.Handler{
		worker.QueueArqueoPDF: arqueoWorker.Process,
	}
	if cfg.StockAlertsEnabled {
		stockWorker := worker.NewStockAlertWorker(mailer, smtpCB, cfg.AlertEmail)
		handlers[worker.QueueStockAlert] = stockWorker.Process
	}
	worker.StartWorkerPool(ctx, rdb, worker.PoolConfig{
		Workers:    cfg.WorkerPoolSize,
		MaxRetries: cfg.DispatcherMaxRetries,
		Handlers:   handlers,
	})

	// Periodic stock reconciliation against the inventory ledger.
	inventarioSvc := service.NewInventarioService(
		repository.NewInventarioRepository(db),
		repository.NewProductoRepository(db),
		repository.NewSucursalRepository(db),
		dispatcher,
	)
	worker.StartReconcileCron(ctx, inventarioSvc, cfg.ReconcileInterval)

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("SisPOS backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
