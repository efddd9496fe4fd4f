package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"marketplace/handlers"
	"marketplace/internal/auth"
	"marketplace/internal/cart"
	"marketplace/internal/consul"
	"marketplace/internal/database"
	"marketplace/internal/notifications"
	"marketplace/internal/orders"
	"marketplace/internal/products"
	"marketplace/internal/profiles"
	"marketplace/internal/reviews"
	"marketplace/internal/stores/cache"
	"marketplace/internal/stores/kafka"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const serviceName = "marketplace-api"

func main() {
	if err := startApp(); err != nil {
		slog.Error("service stopped", slog.String("Error", err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	})))

	/*
	   Database and migrations
	*/
	db, err := database.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	/*
	   Auth keys
	*/
	privatePEM, err := os.ReadFile(getEnv("JWT_PRIVATE_KEY_FILE", "private.pem"))
	if err != nil {
		return fmt.Errorf("reading private key: %w", err)
	}
	publicPEM, err := os.ReadFile(getEnv("JWT_PUBLIC_KEY_FILE", "pubkey.pem"))
	if err != nil {
		return fmt.Errorf("reading public key: %w", err)
	}
	keys, err := auth.NewKeys(privatePEM, publicPEM)
	if err != nil {
		return fmt.Errorf("initializing auth keys: %w", err)
	}

	/*
	   Domain stores
	*/
	p, err := products.NewConf(db)
	if err != nil {
		return fmt.Errorf("initializing products store: %w", err)
	}
	o, err := orders.NewConf(db)
	if err != nil {
		return fmt.Errorf("initializing orders store: %w", err)
	}
	ct, err := cart.NewConf(db)
	if err != nil {
		return fmt.Errorf("initializing cart store: %w", err)
	}
	n, err := notifications.NewConf(db)
	if err != nil {
		return fmt.Errorf("initializing notifications store: %w", err)
	}
	pr, err := profiles.NewConf(db)
	if err != nil {
		return fmt.Errorf("initializing profiles store: %w", err)
	}
	rv, err := reviews.NewConf(db)
	if err != nil {
		return fmt.Errorf("initializing reviews store: %w", err)
	}

	/*
	   Redis product cache
	*/
	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})
	defer rdb.Close()
	pc := cache.NewProductCache(&p, rdb)

	/*
	   Kafka producer
	*/
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	k, err := kafka.NewConf(brokers)
	if err != nil {
		return fmt.Errorf("initializing kafka producer: %w", err)
	}
	defer k.Close()

	/*
	   Consul registration
	*/
	consulClient, err := consul.NewClient()
	if err != nil {
		return fmt.Errorf("initializing consul client: %w", err)
	}
	port := consul.ServicePort(8085)
	host := getEnv("SERVICE_HOST", "localhost")
	if err := consul.RegisterService(consulClient, serviceName, host, port); err != nil {
		return fmt.Errorf("registering with consul: %w", err)
	}

	api := handlers.API("/api/v1", keys, handlers.Deps{
		Products:      p,
		ProductCache:  pc,
		Orders:        o,
		Cart:          ct,
		Notifications: n,
		Profiles:      pr,
		Reviews:       rv,
		Kafka:         k,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("service", serviceName), slog.Int("port", port))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
