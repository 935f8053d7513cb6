package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fathima-sithara/aichat-service/internal/api"
	"github.com/fathima-sithara/aichat-service/internal/auth"
	"github.com/fathima-sithara/aichat-service/internal/config"
	"github.com/fathima-sithara/aichat-service/internal/kafka"
	"github.com/fathima-sithara/aichat-service/internal/logger"
	"github.com/fathima-sithara/aichat-service/internal/metrics"
	"github.com/fathima-sithara/aichat-service/internal/middleware"
	"github.com/fathima-sithara/aichat-service/internal/repository"
	"github.com/fathima-sithara/aichat-service/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env != "production")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	mc, err := repository.NewMongoClient(cfg)
	if err != nil {
		zlog.Fatalf("mongo init: %v", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	var events service.EventPublisher
	var kprod *kafka.Producer
	if cfg.Kafka.Enabled() {
		kprod = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		events = kprod
	}

	db := mc.Database(cfg.Mongo.DB)
	chats := repository.NewChatRepo(db)
	userchats := repository.NewUserChatsRepo(db)
	svc := service.NewChatService(chats, userchats, events, zlog)

	jv, err := auth.NewJWTValidator(cfg.JWT.PublicKeyPath)
	if err != nil {
		zlog.Fatalf("jwt init: %v", err)
	}

	rl := middleware.NewRateLimiter(rdb, "rl:chat", cfg.App.RateLimit, time.Minute)
	app := api.NewServer(svc, jv, rl)

	if cfg.App.MetricsPort != 0 {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(":"+cfg.App.MetricsPortString(), mux); err != nil {
				zlog.Errorf("metrics listen: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.App.PortString()); err != nil {
			zlog.Fatalf("server listen: %v", err)
		}
	}()
	zlog.Infof("aichat-service started on :%s", cfg.App.PortString())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = app.ShutdownWithContext(ctx)
	if kprod != nil {
		_ = kprod.Close()
	}
	zlog.Info("aichat-service stopped")
}
