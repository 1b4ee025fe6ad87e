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

	"github.com/rentora/maintenance-back/internal/ai"
	"github.com/rentora/maintenance-back/internal/config"
	httpserver "github.com/rentora/maintenance-back/internal/http"
	"github.com/rentora/maintenance-back/internal/http/handlers"
	"github.com/rentora/maintenance-back/internal/notify"
	"github.com/rentora/maintenance-back/internal/queue"
	"github.com/rentora/maintenance-back/internal/repository"
	"github.com/rentora/maintenance-back/internal/triage"
	"github.com/rentora/maintenance-back/internal/worker"
)

func main() {
	logger := log.New(os.Stdout, "[maint-back] ", log.LstdFlags|log.LUTC|log.Lmicroseconds)
	if err := config.LoadDotEnv(".env", ".env.local"); err != nil {
		logger.Printf("failed loading .env files: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, storeCloser := setupStore(ctx, cfg, logger)
	defer storeCloser()

	producer, consumer, queueCloser := setupQueue(ctx, cfg, logger)
	defer queueCloser()

	classifier, ranker := setupStrategies(cfg, logger)
	dispatcher := notify.NewDispatcher(setupSender(cfg, logger), logger)

	orchestrator := triage.NewOrchestrator(triage.OrchestratorDependencies{
		Requests:   store,
		Classifier: classifier,
		Pool:       triage.NewContractorPool(store, store),
		Ranker:     ranker,
		Committer:  triage.NewCommitter(store, store, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	api := handlers.NewAPI(store, producer, orchestrator)
	handler := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      cfg.AuthToken,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	if cfg.WorkerEnabled {
		processor := worker.NewProcessor(consumer, orchestrator, logger)
		go processor.Start(ctx)
		logger.Printf("triage worker enabled and started")
	} else {
		logger.Printf("triage worker disabled by configuration")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Printf("api listening on :%s", cfg.Port)
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
}

func setupStore(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (repository.Store, func()) {
	if cfg.DatabaseURL == "" {
		logger.Printf("DATABASE_URL not configured, using in-memory store")
		return repository.NewMemoryStore(), func() {}
	}

	pgStore, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Printf("failed to initialize postgres store, fallback to memory: %v", err)
		return repository.NewMemoryStore(), func() {}
	}
	logger.Printf("postgres store initialized")
	return pgStore, func() {
		pgStore.Close()
	}
}

func setupQueue(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (queue.Producer, queue.Consumer, func()) {
	if cfg.RedisAddr == "" {
		logger.Printf("REDIS_ADDR not configured, using local queue fallback")
		local := queue.NewLocalQueue(256, 3, logger)
		return local, local, func() {}
	}

	streams, err := queue.NewStreamsQueue(ctx, queue.StreamsConfig{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		Stream:      cfg.RedisStream,
		DLQStream:   cfg.RedisDLQ,
		Group:       cfg.RedisGroup,
		Consumer:    cfg.RedisConsumer,
		MaxAttempts: 3,
	})
	if err != nil {
		logger.Printf("failed to initialize redis streams queue, fallback to local: %v", err)
		local := queue.NewLocalQueue(256, 3, logger)
		return local, local, func() {}
	}

	logger.Printf("redis streams queue initialized")
	return streams, streams, func() {
		_ = streams.Close()
	}
}

// setupStrategies picks the classification and ranking strategies. A hosted
// model is preferred; without any API key the deterministic rule strategies
// keep the pipeline functional.
func setupStrategies(cfg config.Config, logger *log.Logger) (triage.Classifier, triage.Ranker) {
	router := ai.NewModelRouter(ai.ModelRouterConfig{
		ClassifyPrimary:  cfg.ModelClassifyPrimary,
		ClassifyFallback: cfg.ModelClassifyFallback,
		RankPrimary:      cfg.ModelRankPrimary,
		RankFallback:     cfg.ModelRankFallback,
	})

	var generator ai.TextGenerator
	switch cfg.LLMProvider {
	case "anthropic":
		generator = ai.NewAnthropicClient(ai.AnthropicClientConfig{APIKey: cfg.AnthropicAPIKey})
	default:
		generator = ai.NewOpenAIClient(ai.OpenAIClientConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Timeout:    time.Duration(cfg.OpenAITimeoutMS) * time.Millisecond,
			MaxRetries: cfg.OpenAIMaxRetries,
		})
	}

	if !generator.Available() {
		logger.Printf("no LLM API key configured, using rule-based triage strategies")
		return triage.NewRuleClassifier(), triage.NewRuleRanker()
	}

	logger.Printf("llm triage strategies initialized provider=%s", cfg.LLMProvider)
	return triage.NewLLMClassifier(generator, router, logger),
		triage.NewLLMRanker(generator, router, logger)
}

func setupSender(cfg config.Config, logger *log.Logger) notify.Sender {
	if cfg.SMSBaseURL == "" || cfg.SMSAPIKey == "" {
		logger.Printf("SMS provider not configured, notifications go to the in-memory sender")
		return notify.NewMemorySender()
	}
	return notify.NewSMSClient(notify.SMSClientConfig{
		APIKey:  cfg.SMSAPIKey,
		BaseURL: cfg.SMSBaseURL,
		From:    cfg.SMSFrom,
		Timeout: time.Duration(cfg.SMSTimeoutMS) * time.Millisecond,
	})
}
