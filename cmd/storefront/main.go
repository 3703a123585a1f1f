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

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var publisher events.Publisher = events.Noop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	store := &repo.GormRepo{DB: db}
	iss := &tokens.Issuer{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience, TTL: cfg.TokenTTL}

	catalog := &service.CatalogService{Repo: store, Events: publisher, MaxPageSize: cfg.MaxPageSize}
	if cfg.ESURL != "" {
		idx, err := search.New(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = idx.EnsureIndex(ctx)
		cancel()
		if err != nil {
			log.Fatalf("elasticsearch index: %v", err)
		}
		catalog.Index = idx
		logger.Info("search_enabled", "index", cfg.ESIndex)
	}

	reviews := &service.ReviewService{Repo: store, Events: publisher}
	deps := &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, Tokens: iss, Events: publisher}},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalog},
		Reviews:   &httpserver.ReviewHTTP{Svc: reviews},
		Customers: &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: store}},
		Orders: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:         store,
			Events:       publisher,
			ReserveStock: cfg.ReserveOrderStock,
			MaxPageSize:  cfg.MaxPageSize,
		}},
		Admin:  &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: store, Events: publisher}, Reviews: reviews},
		Bearer: middleware.NewBearerAuth(iss),
		DB:     db,
	}

	e := httpserver.New(logger)
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "reserve_stock", cfg.ReserveOrderStock)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close", "error", err)
	}

	logger.Info("server_stopped")
}
