package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"listenlab/pkg/config"
)

// WhisperCLI runs a whisper.cpp-style binary and parses its JSON output.
type WhisperCLI struct {
	binary   string
	model    string
	language string
}

// NewWhisperCLI builds the adapter from config, defaulting the binary
// name and language.
func NewWhisperCLI(cfg config.ASRConfig) *WhisperCLI {
	binary := cfg.Binary
	if binary == "" {
		binary = "whisper-cli"
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	return &WhisperCLI{binary: binary, model: cfg.Model, language: language}
}

// Probe verifies the binary is on PATH and the model file exists.
func (w *WhisperCLI) Probe(ctx context.Context) error {
	if _, err := exec.LookPath(w.binary); err != nil {
		return fmt.Errorf("%s not found: %w", w.binary, err)
	}
	if w.model == "" {
		return fmt.Errorf("no whisper model configured")
	}
	if _, err := os.Stat(w.model); err != nil {
		return fmt.Errorf("whisper model %s: %w", w.model, err)
	}
	return nil
}

// whisper.cpp JSON layout: segment offsets are milliseconds.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs the binary and converts its JSON output into a Result.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	outBase := filepath.Join(os.TempDir(), fmt.Sprintf("listenlab-asr-%d", os.Getpid()))
	jsonPath := outBase + ".json"
	defer os.Remove(jsonPath)

	args := []string{
		"-m", w.model,
		"-f", audioPath,
		"-l", w.language,
		"-oj",
		"-of", outBase,
		"-np",
	}

	slog.Debug("Running transcription", "binary", w.binary, "audio", audioPath)
	cmd := exec.CommandContext(ctx, w.binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", w.binary, err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read transcription output: %w", err)
	}
	return parseWhisperJSON(data)
}

func parseWhisperJSON(data []byte) (*Result, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse transcription JSON: %w", err)
	}

	res := &Result{
		Language:   out.Result.Language,
		Confidence: defaultConfidence,
	}
	if res.Language == "" {
		res.Language = "en"
	}

	var parts []string
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		s := Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  text,
		}
		res.Segments = append(res.Segments, s)
		parts = append(parts, text)
		if s.End > res.Duration {
			res.Duration = s.End
		}
	}
	res.Text = strings.Join(parts, " ")
	return res, nil
}
