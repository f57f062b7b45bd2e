package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/roomchat/internal/adapters/archive"
	router "github.com/dkeye/roomchat/internal/adapters/http"
	"github.com/dkeye/roomchat/internal/app"
	"github.com/dkeye/roomchat/internal/app/orch"
	"github.com/dkeye/roomchat/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Err(err).Str("level", cfg.LogLevel).Msg("bad log level, keeping info")
	}

	policy, err := app.PolicyFromName(cfg.SlowConsumerPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	var sink orch.MessageSink
	if cfg.ArchivePath != "" {
		arc, err := archive.Open(cfg.ArchivePath, cfg.SendBuffer*4)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open archive")
		}
		defer func() {
			if err := arc.Close(); err != nil {
				log.Error().Err(err).Msg("archive close")
			}
		}()
		sink = arc
		log.Info().Str("path", cfg.ArchivePath).Msg("message archive enabled")
	}

	o := orch.New(policy, sink)
	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("chat gateway started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
