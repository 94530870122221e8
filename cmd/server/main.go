package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Skotchmaster/shopfront/internal/config"
	"github.com/Skotchmaster/shopfront/internal/es"
	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/httpserver"
	"github.com/Skotchmaster/shopfront/internal/metrics"
	"github.com/Skotchmaster/shopfront/internal/migrate"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/telemetry"
	"github.com/Skotchmaster/shopfront/internal/warehouse"
	"github.com/Skotchmaster/shopfront/pkg/db"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	authmw "github.com/Skotchmaster/shopfront/pkg/middleware/auth"
	"github.com/Skotchmaster/shopfront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/shopfront/pkg/middleware/logging"
)

const warehouseChannels = 4

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTracer, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Fatalf("telemetry init error: %v", err)
	}

	if cfg.RunMigrations {
		if err := migrate.Up(cfg.DatabaseURL); err != nil {
			log.Fatalf("migrations error: %v", err)
		}
		logger.Info("migrations_applied")
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var publisher service.EventPublisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var notifier service.WarehouseNotifier = warehouse.Nop{}
	var pool *warehouse.ChannelPool
	if cfg.RabbitMQURL != "" {
		pool, err = warehouse.NewChannelPool(cfg.RabbitMQURL, cfg.WarehouseQueue, warehouseChannels)
		if err != nil {
			log.Fatalf("rabbitmq init error: %v", err)
		}
		notifier = warehouse.NewPublisher(pool, cfg.WarehouseQueue)
	} else {
		logger.Warn("warehouse_disabled", "reason", "RABBITMQ_URL is empty")
	}

	var index service.ProductIndexer
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := es.NewClient(esCtx, es.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		}, logger)
		esCancel()
		if err != nil {
			logger.Warn("es_unavailable", "error", err)
		} else {
			index = es.NewProductIndex(client, cfg.ESIndex)
		}
	}

	shopMetrics := metrics.New(prometheus.NewRegistry())
	r := repo.New(gdb)

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Events:        publisher,
	}
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("admin bootstrap error: %v", err)
	}

	orderSvc := &service.OrderService{Repo: r, Events: publisher, Warehouse: notifier, Metrics: shopMetrics}
	catalogSvc := &service.CatalogService{Repo: r, Index: index, Events: publisher}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(shopMetrics.Middleware())
	e.Use(telemetry.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
		AllowCredentials: true,
	}))
	if cfg.CSRFEnabled {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.Secure = cfg.CookieSecure
		csrfCfg.SkipPrefixes = []string{"/api/auth/login", "/api/auth/register", "/health", "/metrics"}
		e.Use(csrf.Middleware(csrfCfg))
	}

	httpserver.Register(e, &httpserver.Deps{
		DB:            gdb,
		AuthMW:        authmw.NewAutoRefreshMiddleware(cfg.JWTAccessSecret, authSvc.Refresh, cfg.CookieSecure),
		Metrics:       shopMetrics,
		Auth:          &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.CookieSecure},
		Orders:        &httpserver.OrderHTTP{Svc: orderSvc},
		AdminOrders:   &httpserver.AdminOrderHTTP{Svc: orderSvc},
		Cart:          &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		Products:      &httpserver.ProductHTTP{Svc: catalogSvc},
		AdminProducts: &httpserver.AdminProductHTTP{Svc: catalogSvc},
		Reviews:       &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: publisher, Metrics: shopMetrics}},
		Addresses:     &httpserver.AddressHTTP{Svc: &service.AddressService{Repo: r}},
		Features:      &httpserver.FeatureHTTP{Svc: &service.FeatureService{Repo: r}},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if pool != nil {
		pool.Close()
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("server_stopped")
}
