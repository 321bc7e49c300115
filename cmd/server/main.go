package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/arena"
	"github.com/triviarena/triviarena/internal/config"
	"github.com/triviarena/triviarena/internal/gateway"
	"github.com/triviarena/triviarena/internal/ledger"
	"github.com/triviarena/triviarena/internal/questions"
	"github.com/triviarena/triviarena/internal/results"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	clock := clockwork.NewRealClock()

	var fetcher questions.Fetcher
	if cfg.Questions.URL != "" {
		fetcher = questions.NewClient(cfg.Questions.URL, cfg.QuestionTimeout(), cfg.Questions.Language)
	} else {
		log.Warn().Msg("no question service configured; using built-in bank")
	}
	source := questions.NewSource(fetcher, cfg.QuestionTimeout())

	var sink results.Sink = results.LogSink{}
	if cfg.NATS.URL != "" {
		natsSink, err := results.NewNATSSink(cfg.NATS.URL, "trivia.results")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer natsSink.Close()
		sink = natsSink
	}

	var plays ledger.Ledger = ledger.NewMemoryLedger(clock)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to Redis")
		}
		plays = ledger.NewRedisLedger(client, clock)
	}

	// The engine notifies players through the connection manager; the
	// connection manager dispatches client events into the engine.
	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	app := arena.NewApp(clock, cm, source, sink, plays, arena.Config{
		RoundDuration:   cfg.RoundDuration(),
		StartDelay:      cfg.StartDelay(),
		EndedGrace:      cfg.EndedGrace(),
		FreeGamesPerDay: cfg.Game.FreeGamesPerDay,
	})
	cm.BindEngine(app)

	server := setupServer(cfg, cm)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cm.Shutdown(ctx)
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
