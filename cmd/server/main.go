package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pawslabs/paws-storefront/internal/adapter/handler"
	"github.com/pawslabs/paws-storefront/internal/adapter/sheets"
	"github.com/pawslabs/paws-storefront/internal/adapter/storage"
	"github.com/pawslabs/paws-storefront/internal/config"
	"github.com/pawslabs/paws-storefront/internal/core/domain"
	"github.com/pawslabs/paws-storefront/internal/core/service"
	"github.com/pawslabs/paws-storefront/internal/logging"
	"github.com/pawslabs/paws-storefront/internal/port"
)

func main() {
	configDir := flag.String("config", "./configs", "config directory")
	envName := flag.String("env", os.Getenv("PAWS_ENV"), "config overlay name")
	flag.Parse()

	cfg, err := config.Load(*configDir, *envName)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// State store: file by default, redis for shared-kiosk deployments.
	var store port.StateStore
	var rdb *redis.Client
	switch cfg.Storage.Backend {
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		store = storage.NewRedisStore(rdb)
		logger.Info("using redis state store", zap.String("addr", cfg.Redis.Addr))
	default:
		fileStore, err := storage.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			logger.Fatal("failed to init file store", zap.Error(err))
		}
		store = fileStore
		logger.Info("using file state store", zap.String("dir", cfg.Storage.Dir))
	}

	gateway := sheets.NewClient(cfg.Sheets.URL, cfg.Sheets.FetchTimeout, logger.Named("sheets"))

	storefront := service.NewStorefront(gateway, store, logger.Named("storefront"), service.Options{
		SubmitTimeout: cfg.Sheets.SubmitTimeout,
		JournalBuffer: cfg.Journal.QueueSize,
	})

	// One boot-time fetch; failure is fatal to the session.
	bootCtx, bootCancel := context.WithTimeout(ctx, cfg.Sheets.FetchTimeout)
	if err := storefront.LoadCatalog(bootCtx); err != nil {
		bootCancel()
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	bootCancel()

	catalog, _ := storefront.Catalog()
	carousel := service.NewCarousel(len(catalog.Banners))
	go carousel.Run(ctx, cfg.Carousel.AutoAdvance)

	// Optional local order journal drained by a worker pool.
	var db *sql.DB
	var wg sync.WaitGroup
	if cfg.Journal.DSN != "" {
		db, err = sql.Open("mysql", cfg.Journal.DSN)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(cfg.Journal.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Journal.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Journal.ConnMaxLifetime)
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}

		journal := storage.NewMySQLJournal(db)
		workers := cfg.Journal.Workers
		if workers <= 0 {
			workers = 1
		}
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				journalLoop(id, storefront.JournalQueue(), journal, logger.Named("journal"))
			}(i)
		}
		logger.Info("order journal enabled", zap.Int("workers", workers))
	} else {
		// Still drain the queue so checkouts never block on it.
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range storefront.JournalQueue() {
			}
		}()
	}

	httpHandler := handler.NewHTTPHandler(storefront, carousel, logger.Named("http"))
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.App.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)

	storefront.Close()
	wg.Wait()

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("stopped")
}

func journalLoop(id int, queue <-chan domain.Order, journal port.OrderJournal, logger *zap.Logger) {
	for order := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := journal.Record(ctx, order); err != nil {
			// The remote API already confirmed the order; a journal miss
			// is logged and nothing is rolled back.
			logger.Error("failed to journal order",
				zap.Int("worker", id),
				zap.String("order_id", order.ID),
				zap.Error(err))
		} else {
			logger.Info("order journaled",
				zap.Int("worker", id),
				zap.String("order_id", order.ID))
		}
		cancel()
	}
}
