package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kamazuxa/tender/config"
	"github.com/kamazuxa/tender/internal/service/tender"
	"github.com/kamazuxa/tender/pkg/logger"
	"github.com/kamazuxa/tender/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	tenderService, err := tender.GetService(log)
	if err != nil {
		log.Error("Failed to create tender service", logger.Error(err))
		os.Exit(1)
	}

	redisCfg := config.GetRedisConfig()
	workerCfg := &worker.Config{
		RedisAddr:     redisCfg.Addr,
		RedisPassword: redisCfg.Password,
		RedisDB:       redisCfg.DB,
		Concurrency:   10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}

	tenderWorker, err := worker.NewTenderWorker(workerCfg, tenderService, log)
	if err != nil {
		log.Error("Failed to create tender worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tenderWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	tenderWorker.Stop()
	log.Info("Worker stopped")
}
