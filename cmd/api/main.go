package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"airmarketbackend/internal/config"
	"airmarketbackend/internal/llm"
	"airmarketbackend/internal/market"
	transporthttp "airmarketbackend/internal/transport/http"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	generator := market.NewGenerator(cfg.SampleSize)

	// Missing credential is not an error: it routes all insight requests
	// to the mock generator.
	var insights market.InsightEngine = market.MockInsightGenerator{}
	if cfg.OpenAIAPIKey != "" {
		insights = market.LLMInsightGenerator{
			Client:      llm.NewClient(cfg.OpenAIAPIKey),
			Model:       cfg.OpenAIModel,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
			Fallback:    market.MockInsightGenerator{},
		}
		log.Info().Str("model", cfg.OpenAIModel).Msg("LLM insights enabled")
	} else {
		log.Info().Msg("no API credential configured, insights served by mock generator")
	}

	analyzer, err := market.NewAnalyzer(generator, insights)
	if err != nil {
		log.Fatal().Err(err).Msg("init analyzer")
	}

	server := transporthttp.NewServer(analyzer)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      corsHandler.Handler(server.Routes()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("market API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
