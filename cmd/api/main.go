package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/voyago/travel-gateway/internal/cache"
	"github.com/voyago/travel-gateway/internal/http/handlers"
	mw "github.com/voyago/travel-gateway/internal/http/middleware"
	"github.com/voyago/travel-gateway/internal/platform/auth"
	"github.com/voyago/travel-gateway/internal/platform/storage"
	"github.com/voyago/travel-gateway/internal/repo/couchbase"
	"github.com/voyago/travel-gateway/pkg/config"
	"github.com/voyago/travel-gateway/pkg/events"
	"github.com/voyago/travel-gateway/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	cluster, err := storage.Connect(cfg.Couchbase)
	if err != nil {
		logger.Error("Failed to connect to Couchbase", "error", err)
		os.Exit(1)
	}
	defer cluster.Close()

	var airportCache *cache.AirportCache
	if cfg.Redis.URL != "" {
		airportCache, err = cache.NewAirportCache(cfg.Redis.URL, cfg.Redis.AirportCacheTTL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer airportCache.Close()
	}

	var bus events.Publisher
	if cfg.NATS.URL != "" {
		eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer eventBus.Close()
		bus = eventBus
	}

	var creds auth.Credentials = auth.PlainCredentials{}
	if cfg.Auth.HashPasswords {
		creds = auth.Argon2idCredentials{}
	}

	travelRepo := couchbase.NewTravelRepo(cluster, cfg.Couchbase.Bucket)
	hotelsRepo := couchbase.NewHotelsRepo(cluster, cfg.Couchbase.SearchIdx)
	usersRepo := couchbase.NewUsersRepo(cluster, creds, cfg.Auth.JWTSecret)
	bookingsRepo := couchbase.NewBookingsRepo(cluster, cfg.Auth.JWTSecret)

	travelHandler := handlers.NewTravelHandler(travelRepo, hotelsRepo, airportCache)
	userHandler := handlers.NewUserHandler(usersRepo, bookingsRepo, bus)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello World"))
	})
	r.Route("/api", func(api chi.Router) {
		api.Mount("/", travelHandler.Routes())
		api.Mount("/tenants", userHandler.Routes())
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Travel gateway listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}
