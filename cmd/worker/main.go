package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"post-pilot/config"
	"post-pilot/db"
	"post-pilot/eventbus"
	"post-pilot/events/dispatcher"
	"post-pilot/metrics"
	"post-pilot/repositories"
)

const sweepTimeout = 50 * time.Second

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Worker.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB 초기화
	if err := db.Init(ctx); err != nil {
		config.Logger.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	m, metricsHandler, err := metrics.Setup("post-pilot-worker")
	if err != nil {
		config.Logger.Errorf("failed to init metrics: %v", err)
		os.Exit(1)
	}
	if cfg.Worker.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metricsHandler)
			if err := http.ListenAndServe(cfg.Worker.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				config.Logger.Errorf("metrics server error: %v", err)
			}
		}()
	}

	database := db.Database()
	var wg sync.WaitGroup

	disp := dispatcher.New(nil, "worker")
	if cfg.EventBus.Enabled {
		bus, err := connectEventBus(ctx, cfg.EventBus)
		if err != nil {
			config.Logger.Errorf("failed to create event bus: %v", err)
			os.Exit(1)
		}
		defer bus.Close()
		disp = dispatcher.New(bus, "worker")
		startConsumers(ctx, &wg, bus, repositories.NewAILogRepository(database))
	}

	sweeper := NewSweeper(repositories.NewPostRepository(database), disp, m)
	c := cron.New()
	if err := c.AddFunc(cfg.Worker.SweepSpec, func() { sweeper.Tick(ctx, sweepTimeout) }); err != nil {
		config.Logger.Errorf("invalid sweep spec %q: %v", cfg.Worker.SweepSpec, err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	config.Logger.Infof("starting worker (sweep=%s, eventbus=%t)...", cfg.Worker.SweepSpec, cfg.EventBus.Enabled)

	// Graceful shutdown 설정
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down worker...")

	cancel()
	wg.Wait()

	config.Logger.Info("worker stopped")
}

func connectEventBus(ctx context.Context, cfg config.EventBusConfig) (*eventbus.KafkaEventBus, error) {
	brokers, err := eventbus.Brokers()
	if err != nil {
		return nil, err
	}
	for _, t := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(ctx, brokers, t, cfg.Partitions); err != nil {
			config.Logger.Errorf("failed to ensure eventbus topics for %s: %v", t.Base(), err)
		}
	}
	return eventbus.NewKafkaEventBus(brokers)
}

// startConsumers 는 토픽별 구독자와 지연 토픽 재주입기를 띄운다.
func startConsumers(ctx context.Context, wg *sync.WaitGroup, bus eventbus.EventBus, logs aiLogStore) {
	groupID := eventbus.GroupID("post-pilot-worker")

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
				config.Logger.Errorf("eventbus %s error: %v", name, err)
			}
		}()
	}

	aiRouter := aiEventRouter(logs)
	run("ai subscriber", func() error {
		return bus.Subscribe(ctx, groupID, eventbus.TopicAIEvents, aiRouter.Handle)
	})
	postRouter := postEventRouter()
	run("post subscriber", func() error {
		return bus.Subscribe(ctx, groupID, eventbus.TopicPostEvents, postRouter.Handle)
	})

	for _, t := range eventbus.AllTopics {
		topic := t
		topicGroupID := groupID + "-retry-" + strings.ReplaceAll(topic.Base(), ".", "-")
		run("retry reinjector "+topic.Base(), func() error {
			return bus.StartRetryReinjector(ctx, topicGroupID, topic)
		})
	}
}
