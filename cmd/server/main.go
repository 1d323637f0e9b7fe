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

	"github.com/Skotchmaster/product_service/internal/config"
	"github.com/Skotchmaster/product_service/internal/db"
	"github.com/Skotchmaster/product_service/internal/es"
	"github.com/Skotchmaster/product_service/internal/httpserver"
	"github.com/Skotchmaster/product_service/internal/logging"
	middleware "github.com/Skotchmaster/product_service/internal/middleware/auth"
	"github.com/Skotchmaster/product_service/internal/middleware/ratelimit"
	"github.com/Skotchmaster/product_service/internal/mykafka"
	"github.com/Skotchmaster/product_service/internal/repo"
	"github.com/Skotchmaster/product_service/internal/search"
	"github.com/Skotchmaster/product_service/internal/service"
	"github.com/Skotchmaster/product_service/internal/tokens"
)

type publisher interface {
	service.Publisher
	Close() error
}

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBDriver)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	var events publisher = mykafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		events = prod
	} else {
		logger.Warn("KAFKA_BROKERS is empty, events are dropped")
	}

	r := repo.New(gdb)
	products := &service.ProductService{Repo: r, Events: events}

	esClient, err := es.NewClient(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	if esClient != nil {
		idx := search.NewIndex(esClient, cfg.ESIndex)
		ensureCtx, ensureCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := idx.Ensure(ensureCtx); err != nil {
			logger.Error("search index setup failed", "index", cfg.ESIndex, "error", err)
		}
		ensureCancel()
		products.Index = idx
	} else {
		logger.Warn("ES_URL is empty, search uses the database")
	}

	rdb := config.NewRedisClient(context.Background(), cfg, logger)
	if rdb == nil {
		logger.Warn("redis unavailable, login rate limiting disabled")
	}

	tok := tokens.NewService(cfg.JWTSecret, tokens.DefaultTTL)

	e := httpserver.NewEcho(logger)
	if err := httpserver.TrustProxies(e, cfg.TrustedProxies); err != nil {
		logger.Error("invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}
	httpserver.Register(e, &httpserver.Deps{
		DB:             gdb,
		AuthHandler:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: tok, Events: events}},
		ProductHandler: &httpserver.ProductHTTP{Svc: products},
		Bearer:         middleware.NewBearerAuth(tok),
		LoginLimiter: ratelimit.New(ratelimit.Config{
			Limit:  cfg.LoginRateLimit,
			Window: cfg.LoginRateWindow,
			Prefix: "rl:" + cfg.ServiceName,
		}, rdb),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
