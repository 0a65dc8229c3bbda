// Package pipeline runs the full generation flow: validate, script,
// synthesize, mix, quality-check, transcribe and report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"listenlab/pkg/asr"
	"listenlab/pkg/config"
	"listenlab/pkg/history"
	"listenlab/pkg/logging"
	"listenlab/pkg/mixer"
	"listenlab/pkg/quality"
	"listenlab/pkg/report"
	"listenlab/pkg/script"
	"listenlab/pkg/tts"
	"listenlab/pkg/tts/manager"
	"listenlab/pkg/vocab"
)

// Params configures one pipeline run.
type Params struct {
	script.Params
	OfflineOnly bool
	OutputDir   string
}

// ValidationError carries every parameter problem found.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameters: %s", strings.Join(e.Problems, "; "))
}

// Result is everything a completed run produced.
type Result struct {
	RunID         string
	OutputDir     string
	AudioPath     string
	Metadata      *report.Metadata
	QAReport      *report.QAReport
	Transcription *asr.Result
	Vocabulary    []vocab.Item
	Warnings      []string
}

// Pipeline holds the run dependencies. Store and Transcriber are optional.
type Pipeline struct {
	cfg         *config.Config
	mgr         *manager.Manager
	store       *history.Store
	transcriber asr.Transcriber
}

// Options are the optional pipeline collaborators.
type Options struct {
	Store       *history.Store
	Transcriber asr.Transcriber
}

// New wires a pipeline over an initialized engine manager.
func New(cfg *config.Config, mgr *manager.Manager, opts Options) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		mgr:         mgr,
		store:       opts.Store,
		transcriber: opts.Transcriber,
	}
}

// Run executes every stage in order. Quality-gate failures are advisory:
// they are reported but the output is still written.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Result, error) {
	if problems := script.Validate(params.Params); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	res := &Result{RunID: uuid.NewString()}

	topic, safe := script.SanitizeTopic(params.Topic)
	if !safe {
		res.Warnings = append(res.Warnings, fmt.Sprintf("topic replaced with %q", topic))
		slog.Warn("Unsafe topic replaced", "original", params.Topic, "replacement", topic)
		params.Topic = topic
	}

	outDir := params.OutputDir
	if outDir == "" {
		outDir = filepath.Join(p.cfg.Output.Dir, res.RunID)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	res.OutputDir = outDir

	turns := script.Generate(params.Params)
	accents := script.SelectListeningAccents(params.Goal, 2, params.Seed)
	slog.Info("Script generated", "turns", len(turns), "accents", accents)

	segments, clips, engineUsed := p.synthesizeTurns(ctx, turns, accents, outDir)
	if len(clips) == 0 {
		return nil, fmt.Errorf("synthesis produced no usable segments")
	}

	audioPath := filepath.Join(outDir, "conversation.wav")
	mix, err := mixer.New(p.cfg.Mixer, params.Seed).Mix(clips, audioPath)
	if err != nil {
		return nil, fmt.Errorf("mix conversation: %w", err)
	}
	res.AudioPath = audioPath

	gate := p.qualityGate(audioPath, res)

	transcription := p.transcribe(ctx, audioPath, res)

	var transcriptText string
	var srtSegments []asr.Segment
	if transcription != nil {
		transcriptText = transcription.Text
		srtSegments = transcription.Segments
	} else {
		// No recognizer available; fall back to the planned timeline.
		for _, placed := range mix.Timeline {
			srtSegments = append(srtSegments, asr.Segment{
				Start: placed.StartSec,
				End:   placed.EndSec,
				Text:  placed.Text,
			})
			transcriptText += placed.Text + " "
		}
	}

	res.Vocabulary = vocab.Extract(transcriptText, params.Level, params.VocabCount)

	if err := report.WriteSRT(filepath.Join(outDir, "subtitles.srt"), srtSegments); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("srt: %v", err))
	}

	htmlPath := filepath.Join(outDir, "player.html")
	meta := &report.Metadata{
		Title:               fmt.Sprintf("%s %s - %s", strings.ToUpper(params.Goal), params.Level, titleCase(params.Topic)),
		GeneratedAt:         time.Now(),
		TotalSegments:       len(turns),
		SuccessfulSegments:  len(segments),
		EngineUsed:          engineUsed,
		IsOfflineCompatible: params.OfflineOnly,
		ConversationType:    strings.ReplaceAll(strings.ToLower(params.Topic), " ", "_"),
		HTMLPlayer:          htmlPath,
		Segments:            segments,
	}
	res.Metadata = meta

	if err := report.WriteMetadata(filepath.Join(outDir, "metadata.json"), meta); err != nil {
		return nil, err
	}
	if err := report.WriteHTML(htmlPath, meta); err != nil {
		return nil, err
	}

	p.recordRun(params, res, engineUsed, gate)

	slog.Info("Pipeline completed",
		"run", res.RunID,
		"segments", fmt.Sprintf("%d/%d", meta.SuccessfulSegments, meta.TotalSegments),
		"engine", engineUsed,
		"quality_pass", gate.Pass)
	return res, nil
}

// synthesizeTurns renders each turn, consulting the clip cache first.
// Failed turns are skipped so a single flaky synthesis doesn't kill the
// whole exercise.
func (p *Pipeline) synthesizeTurns(ctx context.Context, turns []script.Turn, accents []string, outDir string) ([]report.Segment, []mixer.Clip, string) {
	voices, engineLabel := p.voicesByAccent(ctx, accents)

	var segments []report.Segment
	var clips []mixer.Clip
	engineUsed := ""

	for i, turn := range turns {
		text := tts.StripSpeakerLabels(turn.Text)
		voice := voices[turn.Speaker%len(voices)]
		hash := history.ContentHash(text, engineLabel, voice)
		base := filepath.Join(outDir, fmt.Sprintf("seg_%03d_%s", i, hash))
		logging.TraceDefault("Rendering segment", "segment", i, "voice", voice, "hash", hash)

		path, _, engine, offline, err := p.renderClip(ctx, text, voice, hash, base)
		if err != nil {
			slog.Error("Segment synthesis failed", "segment", i, "error", err)
			continue
		}
		if engineUsed == "" {
			engineUsed = engine
		}

		segments = append(segments, report.Segment{
			SegmentID:  i,
			Speaker:    fmt.Sprintf("speaker_%d", turn.Speaker),
			Text:       turn.Text,
			File:       path,
			VoiceUsed:  voice,
			EngineUsed: engine,
			IsOffline:  offline,
		})
		clips = append(clips, mixer.Clip{Path: path, Speaker: fmt.Sprintf("speaker_%d", turn.Speaker), Text: turn.Text})
	}
	return segments, clips, engineUsed
}

// renderClip returns a cached clip when possible, otherwise synthesizes.
func (p *Pipeline) renderClip(ctx context.Context, text, voice, hash, base string) (path, format, engine string, offline bool, err error) {
	if p.store != nil {
		if cached, ok := p.store.LookupClip(hash); ok {
			// Copy into this run's directory so the player stays relative.
			dst := base + "." + cached.Format
			if err := copyFile(cached.Path, dst); err == nil {
				slog.Debug("Clip cache hit", "hash", hash)
				prov, _ := p.mgr.Provider(tts.Engine(cached.Engine))
				off := prov != nil && prov.Offline()
				return dst, cached.Format, cached.Engine, off, nil
			}
		}
	}

	synth, err := p.mgr.Synthesize(ctx, text, voice, base)
	if err != nil {
		return "", "", "", false, err
	}

	if p.store != nil {
		if err := p.store.StoreClip(history.CachedClip{
			ContentHash: hash,
			Engine:      string(synth.Engine),
			Voice:       voice,
			Path:        synth.Path,
			Format:      synth.Format,
		}); err != nil {
			slog.Warn("Clip cache store failed", "error", err)
		}
	}
	return synth.Path, synth.Format, string(synth.Engine), synth.Offline, nil
}

// voicesByAccent maps the selected accents to concrete voice IDs of the
// preferred engine. Engines without a matching voice get their default.
// The engine name is returned as the clip cache key component.
func (p *Pipeline) voicesByAccent(ctx context.Context, accents []string) ([]string, string) {
	out := make([]string, len(accents))

	prov, err := p.mgr.SelectPreferred()
	if err != nil {
		return out, "auto"
	}
	available, err := prov.Voices(ctx)
	if err != nil || len(available) == 0 {
		return out, string(prov.Engine())
	}

	for i, accent := range accents {
		out[i] = voiceForAccent(available, accent)
	}
	return out, string(prov.Engine())
}

var accentLanguages = map[string]string{
	"UK": "en-GB", "UK_FEMALE": "en-GB",
	"US": "en-US", "US_FEMALE": "en-US",
	"AU": "en-AU", "CA": "en-CA", "IN": "en-IN",
	"AR_L2": "en-US", "ZH_L2": "en-US",
}

func voiceForAccent(voices []tts.Voice, accent string) string {
	lang := accentLanguages[accent]
	wantFemale := strings.HasSuffix(accent, "_FEMALE")

	var langMatch string
	for _, v := range voices {
		if !strings.EqualFold(v.Language, lang) {
			continue
		}
		if langMatch == "" {
			langMatch = v.ID
		}
		female := strings.EqualFold(v.Gender, "female")
		if female == wantFemale {
			return v.ID
		}
	}
	if langMatch != "" {
		return langMatch
	}
	return voices[0].ID
}

func (p *Pipeline) qualityGate(audioPath string, res *Result) quality.Report {
	metrics, err := quality.AnalyzeFile(audioPath)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("quality analysis: %v", err))
		return quality.Report{}
	}
	gate := quality.Validate(metrics, quality.StandardsFromConfig(p.cfg.Quality))
	if !gate.Pass {
		res.Warnings = append(res.Warnings, "quality gate failed (advisory)")
		slog.Warn("Quality gate failed", "recommendations", quality.Recommendations(gate))
	}

	qa := report.NewQAReport(audioPath, gate)
	res.QAReport = qa
	if err := report.WriteQAReport(filepath.Join(res.OutputDir, "qa_report.json"), qa); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("qa report: %v", err))
	}
	return gate
}

func (p *Pipeline) transcribe(ctx context.Context, audioPath string, res *Result) *asr.Result {
	if p.transcriber == nil {
		return nil
	}
	tr, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("transcription: %v", err))
		slog.Warn("Transcription failed, using planned timeline", "error", err)
		return nil
	}
	res.Transcription = tr
	return tr
}

func (p *Pipeline) recordRun(params Params, res *Result, engineUsed string, gate quality.Report) {
	if p.store == nil {
		return
	}
	err := p.store.RecordRun(history.Run{
		ID:                 res.RunID,
		Goal:               params.Goal,
		Level:              params.Level,
		Topic:              params.Topic,
		DurationSec:        params.DurationSec,
		L1:                 params.L1,
		Seed:               params.Seed,
		OfflineOnly:        params.OfflineOnly,
		EngineUsed:         engineUsed,
		TotalSegments:      res.Metadata.TotalSegments,
		SuccessfulSegments: res.Metadata.SuccessfulSegments,
		QualityPass:        gate.Pass,
		OutputDir:          res.OutputDir,
	})
	if err != nil {
		slog.Warn("Failed to record run", "error", err)
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
