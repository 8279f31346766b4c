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

	"go.uber.org/zap"

	"messageboard/internal/api"
	"messageboard/internal/config"
	"messageboard/internal/observability"
	"messageboard/internal/queue"
	"messageboard/internal/storage"
)

const serviceName = "messageboard"

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := observability.NewLogger(serviceName, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	connector := storage.NewConnector(cfg.Database, log, metrics)

	if err := storage.InitSchema(ctx, connector, cfg.Database.InitDelay, log); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn("starting without a verified messages table")
	}

	publisher := newPublisher(cfg.Queue, log)
	defer publisher.Close()

	server := api.NewServer(connector.WithAttempts(cfg.Database.RequestAttempts), publisher, log, metrics)

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Server.Addr()))
		if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

func newPublisher(cfg config.QueueConfig, log *zap.Logger) queue.Publisher {
	if len(cfg.Brokers) == 0 {
		return queue.Noop{}
	}

	k, err := queue.NewKafka(cfg.Brokers, cfg.Topic)
	if err != nil {
		log.Error("kafka unavailable, message events disabled", zap.Strings("brokers", cfg.Brokers), zap.Error(err))
		return queue.Noop{}
	}

	log.Info("publishing message events", zap.String("topic", cfg.Topic))
	return k
}
