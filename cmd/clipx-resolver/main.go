package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clipx/clipx-resolver/pkg/cache"
	"github.com/clipx/clipx-resolver/pkg/logging"
	"github.com/clipx/clipx-resolver/pkg/resolve"
	"github.com/clipx/clipx-resolver/pkg/ytdlp"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := loadConfig()

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	invoker := ytdlp.NewCLI(ytdlp.Config{
		Binary:  cfg.YtdlpPath,
		Timeout: cfg.ResolveTimeout,
	})
	store := cache.New[resolve.Payload](cfg.CacheTTL)
	service := resolve.NewService(invoker, store)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newServer(service, cfg).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("ytdlp", cfg.YtdlpPath).
			Dur("resolve_timeout", cfg.ResolveTimeout).
			Dur("cache_ttl", cfg.CacheTTL).
			Bool("auth", cfg.APIKey != "").
			Msg("Starting resolver server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
