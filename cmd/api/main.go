package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"post-pilot/cmd/api/auth"
	"post-pilot/cmd/api/router"
	"post-pilot/cmd/api/services"
	"post-pilot/config"
	"post-pilot/db"
	"post-pilot/eventbus"
	"post-pilot/events/dispatcher"
	"post-pilot/llm"
	"post-pilot/metrics"
	"post-pilot/quota"
	"post-pilot/repositories"
)

// @title           Post-Pilot API
// @version         1.0
// @description     LinkedIn post generation, library and scheduling API
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.API.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		config.Logger.Errorf("failed to init mongo: %v", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Disconnect(shutdownCtx)
	}()

	model, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		config.Logger.Errorf("failed to init llm: %v", err)
		os.Exit(1)
	}

	tokens, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		config.Logger.Errorf("failed to init jwt: %v", err)
		os.Exit(1)
	}

	m, metricsHandler, err := metrics.Setup("post-pilot-api")
	if err != nil {
		config.Logger.Errorf("failed to init metrics: %v", err)
		os.Exit(1)
	}

	database := db.Database()
	users := repositories.NewUserRepository(database)
	posts := repositories.NewPostRepository(database)
	aiLogs := repositories.NewAILogRepository(database)

	var usage services.UsageRecorder = services.NewStoreUsageRecorder(aiLogs)
	disp := dispatcher.New(nil, "api")
	if cfg.EventBus.Enabled {
		bus, err := connectEventBus(ctx, cfg.EventBus)
		if err != nil {
			config.Logger.Errorf("failed to init eventbus: %v", err)
			os.Exit(1)
		}
		defer bus.Close()
		disp = dispatcher.New(bus, "api")
		usage = services.NewEventUsageRecorder(disp, usage)
	}

	freeLimit := cfg.Plans.FreePostLimit
	flowSvc := services.NewFlowService(model, users, quota.NewFlowLimiterFromConfig(cfg), usage, m, freeLimit)

	r := router.New(router.Deps{
		Flows:          flowSvc,
		Posts:          services.NewPostService(posts, flowSvc, disp),
		Dashboard:      services.NewDashboardService(users, posts, freeLimit),
		Plans:          services.NewPlanService(users, freeLimit),
		Tokens:         tokens,
		Metrics:        m,
		MetricsHandler: metricsHandler,
		Health:         db.Ping,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.API.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Span-Id"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.Infof("api listening on %s (llm=%s)", cfg.API.Addr, model.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Errorf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	config.Logger.Info("shutting down api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func connectEventBus(ctx context.Context, cfg config.EventBusConfig) (*eventbus.KafkaEventBus, error) {
	brokers, err := eventbus.Brokers()
	if err != nil {
		return nil, err
	}
	for _, t := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(ctx, brokers, t, cfg.Partitions); err != nil {
			return nil, err
		}
	}
	return eventbus.NewKafkaEventBus(brokers)
}
