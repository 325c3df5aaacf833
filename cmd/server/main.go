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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tamarabusta/Aerolineas/internal/cache"
	"github.com/tamarabusta/Aerolineas/internal/config"
	"github.com/tamarabusta/Aerolineas/internal/export"
	"github.com/tamarabusta/Aerolineas/internal/handlers"
	"github.com/tamarabusta/Aerolineas/internal/kafka"
	"github.com/tamarabusta/Aerolineas/internal/metrics"
	"github.com/tamarabusta/Aerolineas/internal/repository"
	"github.com/tamarabusta/Aerolineas/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// ---------- config ----------
	cfg := config.Load()

	// ---------- db ----------
	pool, err := repository.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("db: ", err)
	}
	defer pool.Close()

	store := repository.NewStore(pool, cfg.OutboxMaxRetries)

	// ---------- cache ----------
	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisCache.Close()

	// ---------- services ----------
	reservationSvc := service.NewReservationService(store, redisCache, cfg.EventTopic, logger)
	catalogSvc := service.NewCatalogService(store)
	reportSvc := service.NewReportService(store)

	// ---------- kafka producer + outbox ----------
	producer, err := kafka.NewSyncProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Fatal("kafka producer: ", err)
	}
	defer producer.Close()

	sender := service.NewOutboxSender(
		store.Outbox,
		producer,
		cfg.OutboxPollInterval,
		cfg.OutboxBatchSize,
		cfg.OutboxRetentionDays,
		cfg.OutboxMaxRetries,
		logger,
	)
	sender.Start(ctx)

	// ---------- kafka consumer (boarding scans) ----------
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.ScanTopic, reservationSvc, logger)
	if err != nil {
		logger.Fatal("kafka consumer: ", err)
	}
	defer consumer.Close()

	// Start runs the consume loop until ctx is cancelled, so it gets its
	// own goroutine.
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Printf("kafka consumer: %v", err)
		}
	}()

	// ---------- metrics ----------
	metrics.Register()
	metrics.StartDBCollectors(ctx, pool, cfg.MetricsDBInterval, logger)
	cache.StartRedisSizeCollector(ctx, redisCache.RawClient(), cfg.MetricsRedisInterval, logger)

	// ---------- handlers ----------
	// Plug a concrete PDF backend in here; the document endpoints answer
	// 503 until one is configured.
	var renderer export.DocumentRenderer

	catalogHandler := handlers.NewCatalogHandler(catalogSvc, redisCache)
	reservationHandler := handlers.NewReservationHandler(reservationSvc, renderer)
	reportHandler := handlers.NewReportHandler(reportSvc, redisCache, cfg.CacheTTL, renderer)

	// ---------- router ----------
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(metrics.HTTPMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	handlers.RegisterRoutes(r, catalogHandler, reservationHandler, reportHandler)

	// ---------- start server ----------
	addr := ":" + cfg.HTTPPort
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Println("server starting on", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("server shutdown: %v", err)
	}
}
