package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	v1 "socialite/cmd/api/router/v1"
	"socialite/internal/config"
	cacheAdapter "socialite/internal/infrastructure/cache/adapter"
	"socialite/internal/infrastructure/database"
	queueAdapter "socialite/internal/infrastructure/queue/adapter"
	"socialite/internal/infrastructure/realtime"
	"socialite/internal/middleware"
	"socialite/internal/pkg/chat/application/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.Connect(ctx, cfg.Database.DSN, database.WithMaxConns(int32(cfg.Database.MaxConns)))
	cancel()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer cache.Close()

	queue, err := queueAdapter.NewAsynqClient(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("queue client: %v", err)
	}
	defer queue.Close()

	// In-process worker for courtesy notification tasks. A dedicated worker
	// binary can consume the same queues instead; this keeps the API useful
	// standalone.
	worker, err := queueAdapter.NewAsynqServer(cfg.Redis.URL, 10)
	if err != nil {
		log.Fatalf("queue server: %v", err)
	}
	task.RegisterNotifyMessageTask(worker, nil)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go func() {
		if err := worker.Run(workerCtx); err != nil {
			log.Printf("worker stopped: %v", err)
		}
	}()

	registry := realtime.NewRegistry()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		if err := cache.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, pool, queue, registry, cache, cfg.JWT.Secret)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	registry.Close()
	stopWorker()
}
