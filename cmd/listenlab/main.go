// Command listenlab generates listening practice audio: it scripts a
// conversation for the requested exam and level, synthesizes it with the
// best available TTS engine and writes the audio plus reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"listenlab/pkg/asr"
	"listenlab/pkg/cache"
	"listenlab/pkg/config"
	"listenlab/pkg/db"
	"listenlab/pkg/history"
	"listenlab/pkg/logging"
	"listenlab/pkg/pipeline"
	"listenlab/pkg/request"
	"listenlab/pkg/script"
	"listenlab/pkg/tts"
	"listenlab/pkg/tts/coqui"
	"listenlab/pkg/tts/edgetts"
	"listenlab/pkg/tts/espeak"
	"listenlab/pkg/tts/gcloud"
	"listenlab/pkg/tts/manager"
	"listenlab/pkg/tts/sapi"
	"listenlab/pkg/version"
)

var (
	goal        = flag.String("goal", "general", "Exam type: general, toefl, ielts, pte, business")
	level       = flag.String("level", "B1", "CEFR level: A1, A2, B1, B2, C1, C2")
	topic       = flag.String("topic", "", "Conversation topic")
	duration    = flag.Int("duration", 120, "Target duration in seconds (30-600)")
	vocabCount  = flag.Int("vocab-count", 10, "Vocabulary items to extract (1-50)")
	l1          = flag.String("l1", "other", "Learner's first language: fa, ar, other")
	seed        = flag.Int64("seed", 0, "Seed for deterministic accent and timing choices")
	offlineOnly = flag.Bool("offline-only", false, "Use only offline-capable engines")
	outDir      = flag.String("out", "", "Output directory (default: per-run dir under the configured output dir)")
	configPath  = flag.String("config", "configs/listenlab.yaml", "Config file path")
	initConfig  = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env carries engine secrets (EDGE_TTS_*, GOOGLE_APPLICATION_CREDENTIALS).
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()
	tts.SetLogPath(cfg.Log.TTS.Path)

	slog.Info("listenlab started", "version", version.Version)

	params := pipeline.Params{
		Params: script.Params{
			Goal:        *goal,
			Level:       *level,
			Topic:       *topic,
			DurationSec: *duration,
			VocabCount:  *vocabCount,
			L1:          *l1,
			Seed:        *seed,
		},
		OfflineOnly: *offlineOnly || cfg.TTS.OfflineOnly,
		OutputDir:   *outDir,
	}

	// Report every parameter problem at once, then bail.
	if problems := script.Validate(params.Params); len(problems) > 0 {
		fmt.Fprintln(os.Stderr, "❌ Invalid parameters:")
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "   ✗ %s\n", p)
		}
		return fmt.Errorf("%d validation error(s)", len(problems))
	}

	// The database backs run history and the HTTP response cache; losing
	// it disables both but never blocks a run.
	opts := pipeline.Options{}
	var respCache cache.Cacher
	database, err := db.Init(cfg.DB.Path)
	if err != nil {
		slog.Warn("Run history and response cache disabled", "error", err)
	} else {
		defer database.Close()
		opts.Store = history.NewStore(database)
		respCache = cache.NewSQLiteCache(database)
	}
	httpc := request.New(cfg.Request, respCache)

	mgr := manager.New(manager.Options{
		Explicit:    tts.Engine(cfg.TTS.Engine),
		OfflineOnly: params.OfflineOnly,
		Backoff:     request.NewProviderBackoff(cfg.Request.Backoff.BaseDelay.Std(), cfg.Request.Backoff.MaxDelay.Std()),
	},
		edgetts.NewProvider(),
		gcloud.NewProvider(cfg.TTS.GCloud),
		coqui.NewProvider(cfg.TTS.Coqui, httpc),
		sapi.NewProvider(),
		espeak.NewProvider(cfg.TTS.ESpeak),
	)
	if err := mgr.Initialize(ctx); err != nil {
		return fmt.Errorf("no usable TTS engine: %w", err)
	}
	for _, info := range mgr.Engines() {
		glyph := "✗"
		if info.Available {
			glyph = "✓"
		}
		fmt.Printf("  %s %-12s offline=%-5v quality=%s\n", glyph, info.Engine, info.Offline, info.Quality)
	}

	opts.Transcriber = pickTranscriber(ctx, cfg, httpc)

	res, err := pipeline.New(cfg, mgr, opts).Run(ctx, params)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Generated %d/%d segments with %s\n",
		res.Metadata.SuccessfulSegments, res.Metadata.TotalSegments, res.Metadata.EngineUsed)
	fmt.Printf("🎧 Audio: %s\n", res.AudioPath)
	fmt.Printf("🌐 Player: %s\n", res.Metadata.HTMLPlayer)
	if res.QAReport != nil {
		glyph := "✓"
		if !res.QAReport.OverallPass {
			glyph = "✗"
		}
		fmt.Printf("%s Quality gate: %s\n", glyph, res.QAReport.Summary)
	}
	for _, w := range res.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
	return nil
}

// pickTranscriber prefers a local whisper binary, then a transcription
// service. Nil is fine; the pipeline falls back to the planned timeline.
func pickTranscriber(ctx context.Context, cfg *config.Config, httpc *request.Client) asr.Transcriber {
	cli := asr.NewWhisperCLI(cfg.ASR)
	if err := cli.Probe(ctx); err == nil {
		return cli
	}

	if cfg.ASR.ServerAddr != "" {
		client := asr.NewClient(cfg.ASR.ServerAddr, httpc)
		if err := client.Health(ctx); err == nil {
			return client
		}
		slog.Warn("Transcription service unavailable", "addr", cfg.ASR.ServerAddr)
	}
	return nil
}
