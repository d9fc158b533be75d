package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/config"
	"github.com/fjod/clothify/internal/events"
	h "github.com/fjod/clothify/internal/http"
	"github.com/fjod/clothify/internal/session"
	"github.com/fjod/clothify/internal/store"
	"github.com/fjod/clothify/pkg/circuitbreaker"
	"github.com/fjod/clothify/pkg/logger"
	"github.com/fjod/clothify/pkg/telemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	configDir := flag.String("config", ".", "directory holding an optional config.yaml")
	flag.Parse()

	log := logger.L()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.WithError(err).Warn("invalid log level, keeping info")
	}

	ctx := context.Background()

	tp, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("failed to init tracer provider")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Error("failed to shutdown tracer provider")
		}
	}()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.Store.Backend).Fatal("failed to open store")
	}
	defer st.Close()
	log.WithField("backend", cfg.Store.Backend).Info("state store ready")

	notifiers := events.Multi{events.LogNotifier{}}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		log.WithField("topic", cfg.Kafka.Topic).Info("publishing events to kafka")
	}

	products := catalogSource(cfg.Catalog)
	sessions := session.NewFactory(st, notifiers)

	router := h.NewRouter(sessions, products, h.Options{
		RequestTimeout:     cfg.Server.RequestTimeout,
		MaxRequestBodySize: cfg.Server.MaxRequestBodySize,
		SecureCookies:      cfg.Server.SecureCookies,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("storefront starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exited")
}

func openStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return store.NewRedisStore(client, cfg.Redis.Namespace), nil
	case config.BackendSQLite:
		return store.NewSQLiteStore(cfg.SQLite.Path)
	case config.BackendPostgres:
		return store.NewPostgresStore(&store.Credentials{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
		})
	case config.BackendMongo:
		db, err := store.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return store.NewMongoStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func catalogSource(cfg config.Catalog) catalog.Source {
	switch {
	case cfg.URL != "":
		client := &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
		return catalog.NewHTTPSource(cfg.URL, client, circuitbreaker.Settings{
			Name:                "catalog",
			ConsecutiveFailures: cfg.ConsecutiveFailures,
			OpenTimeout:         cfg.OpenTimeout,
		})
	case cfg.File != "":
		return catalog.NewFile(cfg.File)
	default:
		return catalog.Embedded()
	}
}
