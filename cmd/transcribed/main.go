// Command transcribed runs the transcription HTTP service used by
// listenlab when no local whisper binary is available.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"listenlab/internal/api"
	"listenlab/pkg/asr"
	"listenlab/pkg/config"
	"listenlab/pkg/logging"
	"listenlab/pkg/version"
)

var (
	configPath = flag.String("config", "configs/listenlab.yaml", "Config file path")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
)

func main() {
	flag.Parse()

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	listenAddr := cfg.Server.Address
	if *addr != "" {
		listenAddr = *addr
	}

	// A failed probe leaves the service up but unhealthy, matching how
	// clients expect /health to behave while a model downloads.
	var engine asr.Transcriber
	model := cfg.ASR.Model
	cli := asr.NewWhisperCLI(cfg.ASR)
	if err := cli.Probe(ctx); err != nil {
		slog.Error("Transcription engine unavailable", "error", err)
		model = ""
	} else {
		engine = cli
	}

	srv := api.NewServer(listenAddr, api.NewTranscribeHandler(engine, model))

	slog.Info("Transcription service started", "addr", listenAddr, "version", version.Version, "model", model)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
