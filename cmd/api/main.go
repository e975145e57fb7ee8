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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"portal/internal/config"
	"portal/internal/database"
	"portal/internal/pkg/events"
	jwtsvc "portal/internal/pkg/jwt"
	"portal/internal/pkg/keylock"
	"portal/internal/pkg/redislock"
	"portal/internal/realtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := database.DefaultOptions()
	opts.Verbose = !config.IsProdLike(cfg.AppEnv)
	db, err := database.Connect(cfg.DatabaseURL, opts)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Locks: Redis when configured so that several instances share them.
	var locker keylock.Locker = keylock.New()
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = redislock.NewClient(redislock.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TLS:      cfg.RedisTLS,
		})
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		locker = redislock.New(rdb, cfg.LockTTL)
		log.Printf("locks=redis addr=%s ttl=%s", cfg.RedisAddr, cfg.LockTTL)
	} else {
		log.Printf("locks=in-process")
	}

	// Events: websocket hub always, Kafka when brokers are set.
	hub := realtime.NewHub(cfg.CORSAllowedOrigins)
	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kafka.Close(); err != nil {
				log.Printf("kafka_close_failed err=%v", err)
			}
		}()
		publishers = append(publishers, kafka)
		log.Printf("events=kafka topic=%s brokers=%v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	r := newRouter(routerDeps{
		db:        db,
		rdb:       rdb,
		jwt:       jwt,
		locker:    locker,
		publisher: publishers,
		hub:       hub,
		origins:   cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP listening at %s env=%s", cfg.HTTPAddr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown_failed err=%v", err)
	}
}
