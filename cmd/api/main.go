// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hearthplan/renovation-assistant/internal/config"
	"github.com/hearthplan/renovation-assistant/internal/enrich"
	"github.com/hearthplan/renovation-assistant/internal/handler"
	"github.com/hearthplan/renovation-assistant/internal/llm"
	"github.com/hearthplan/renovation-assistant/internal/middleware"
	natsclient "github.com/hearthplan/renovation-assistant/internal/nats"
	"github.com/hearthplan/renovation-assistant/internal/service"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
	"github.com/hearthplan/renovation-assistant/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting renovation assistant")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "renovation-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// The journal is optional: without NATS the service runs on in-memory
	// history alone and turn processing is unaffected.
	var natsClient *natsclient.Client
	var journal *natsclient.Journal
	if cfg.NATSURL != "" {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, turn journal disabled", zap.Error(err))
		} else {
			defer natsClient.Close()
			journal = natsclient.NewJournal(natsClient)
			if err := journal.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure journal stream, turn journal disabled", zap.Error(err))
				journal = nil
			}
		}
	}

	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" || cfg.OpenAIAPIKey != "" {
		provider := llm.Provider(cfg.DefaultLLM)
		apiKey := cfg.AnthropicAPIKey
		if provider == llm.ProviderOpenAI {
			apiKey = cfg.OpenAIAPIKey
		}
		inner, err := llm.NewClient(provider, apiKey)
		if err != nil {
			log.Warn("failed to create LLM client, text generation will use fallback", zap.Error(err))
		} else {
			llmClient = llm.WithRetry(inner)
		}
	} else {
		log.Warn("no LLM API key configured, text generation will use fallback")
	}

	// Enrichment collaborators. Each may be nil; the orchestrator degrades
	// the corresponding sections to link-out placeholders.
	var products enrich.ProductSearcher
	var videos enrich.VideoSearcher
	if cfg.SerpAPIKey != "" {
		products = enrich.NewSerpProducts(cfg.SerpAPIKey, log)
		videos = enrich.NewSerpVideos(cfg.SerpAPIKey, log)
	} else {
		log.Warn("no SerpAPI key configured, product and video enrichment degraded")
	}
	var images enrich.ImageGenerator
	if cfg.OpenAIAPIKey != "" {
		images = enrich.NewDallEImages(cfg.OpenAIAPIKey)
	}

	orchestrator := enrich.NewOrchestrator(products, videos, images, cfg.SearchRegion, cfg.EnrichmentTimeout, log)

	conversationSvc := service.NewConversationService(journal, log)
	workflowSvc := service.NewWorkflowService(conversationSvc, llmClient, orchestrator, cfg.LookbackTurns, cfg.HistoryTurns, log)

	healthHandler := handler.NewHealthHandler(natsClient)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	turnHandler := handler.NewTurnHandler(workflowSvc, conversationSvc, log)
	journalHandler := handler.NewJournalHandler(journal, conversationSvc, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)
			r.Get("/", conversationHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Put("/", conversationHandler.Update)
				r.Delete("/", conversationHandler.Delete)

				r.With(middleware.TurnRateLimit(cfg.TurnRateLimitRequests, cfg.RateLimitWindow)).
					Post("/turns", turnHandler.Process)
				r.Get("/turns", turnHandler.List)

				r.With(middleware.RequireScope(middleware.ScopeJournalRead)).
					Get("/journal", journalHandler.Replay)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
