package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/chachabrian/sewo-backend/internal/config"
	"github.com/chachabrian/sewo-backend/internal/database"
	"github.com/chachabrian/sewo-backend/internal/handlers"
	"github.com/chachabrian/sewo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.JSONFormatter{})
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Redis is optional; without it events only reach this instance's websocket clients.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Warn("REDIS_URL not set, events will not be mirrored to redis")
	}

	var store services.ImageStore
	if cfg.S3Enabled() {
		s3, err := services.NewStorage(cfg.AWS)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		store = s3
		log.WithField("bucket", cfg.AWS.Bucket).Info("qr code images will be stored in S3")
	} else {
		log.Warn("AWS S3 not configured, qr code images stay inline")
	}

	hub := services.NewHub()
	go hub.Run()

	events := services.NewEventBus(rdb, hub)
	qr := services.NewQRService(db, cfg.QRCodeSecret, cfg.QRCodeTTL, store, events)

	router := handlers.NewRouter(handlers.Deps{
		DB:            db,
		JWTSecret:     cfg.JWTSecret,
		Bookings:      services.NewBookingService(db, qr, events),
		QRCodes:       qr,
		Conversations: services.NewConversationService(db, events),
		Hub:           hub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}
