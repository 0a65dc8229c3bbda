package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request RequestConfig `yaml:"request"`
	TTS     TTSConfig     `yaml:"tts"`
	Quality QualityConfig `yaml:"quality"`
	Mixer   MixerConfig   `yaml:"mixer"`
	ASR     ASRConfig     `yaml:"asr"`
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// EdgeTTSConfig holds settings for Edge TTS.
type EdgeTTSConfig struct {
	VoiceID string `yaml:"voice"` // e.g. "en-GB-SoniaNeural"
}

// GCloudConfig holds settings for Google Cloud Text-to-Speech.
type GCloudConfig struct {
	LanguageCode string  `yaml:"language_code"` // e.g. "en-GB"
	VoiceFemale  string  `yaml:"voice_female"`
	VoiceMale    string  `yaml:"voice_male"`
	SpeakingRate float64 `yaml:"speaking_rate"`
}

// CoquiConfig holds settings for a local Coqui XTTS server.
type CoquiConfig struct {
	URL      string   `yaml:"url"` // e.g. "http://localhost:8020"
	Language string   `yaml:"language"`
	Timeout  Duration `yaml:"timeout"`
}

// ESpeakConfig holds settings for the eSpeak NG binary.
type ESpeakConfig struct {
	Binary string `yaml:"binary"`
	Voice  string `yaml:"voice"` // e.g. "en-gb"
	Rate   int    `yaml:"rate"`  // words per minute
}

// SAPIConfig holds settings for Windows SAPI.
type SAPIConfig struct {
	VoiceID string `yaml:"voice"`
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine      string        `yaml:"engine"` // empty = auto-select by priority
	OfflineOnly bool          `yaml:"offline_only"`
	EdgeTTS     EdgeTTSConfig `yaml:"edge_tts"`
	GCloud      GCloudConfig  `yaml:"gcloud"`
	Coqui       CoquiConfig   `yaml:"coqui"`
	ESpeak      ESpeakConfig  `yaml:"espeak"`
	SAPI        SAPIConfig    `yaml:"sapi"`
}

// QualityConfig holds the audio quality gate thresholds.
type QualityConfig struct {
	MinDurationSec  float64 `yaml:"min_duration_sec"`
	MaxDurationSec  float64 `yaml:"max_duration_sec"`
	MaxSilenceRatio float64 `yaml:"max_silence_ratio"`
	MaxPauseSec     float64 `yaml:"max_pause_sec"`
	PeakCeilingDB   float64 `yaml:"peak_ceiling_db"`
	LUFSMin         float64 `yaml:"lufs_min"`
	LUFSMax         float64 `yaml:"lufs_max"`
	RMSFloorDB      float64 `yaml:"rms_floor_db"`
}

// MixerConfig holds conversation assembly settings.
type MixerConfig struct {
	SampleRate      int      `yaml:"sample_rate"`
	QuestionGap     Duration `yaml:"question_gap"`
	ThinkingGap     Duration `yaml:"thinking_gap"`
	InterruptionGap Duration `yaml:"interruption_gap"`
	DefaultGap      Duration `yaml:"default_gap"`
	OverlapAmount   Duration `yaml:"overlap_amount"`
}

// ASRConfig holds speech-recognition settings.
type ASRConfig struct {
	Binary     string `yaml:"binary"` // whisper.cpp-style CLI
	Model      string `yaml:"model"`  // model file path
	ServerAddr string `yaml:"server_addr"`
	Language   string `yaml:"language"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
	TTS    LogSettings `yaml:"tts"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig holds output directory settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries: 5,
			Timeout: Duration(300 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(1 * time.Second),
				MaxDelay:  Duration(60 * time.Second),
			},
		},
		TTS: TTSConfig{
			Engine:      "",
			OfflineOnly: false,
			EdgeTTS: EdgeTTSConfig{
				VoiceID: "en-GB-SoniaNeural",
			},
			GCloud: GCloudConfig{
				LanguageCode: "en-GB",
				VoiceFemale:  "en-GB-Neural2-A",
				VoiceMale:    "en-GB-Neural2-B",
				SpeakingRate: 1.0,
			},
			Coqui: CoquiConfig{
				URL:      "http://localhost:8020",
				Language: "en",
				Timeout:  Duration(120 * time.Second),
			},
			ESpeak: ESpeakConfig{
				Binary: "espeak-ng",
				Voice:  "en-gb",
				Rate:   150,
			},
			SAPI: SAPIConfig{},
		},
		Quality: QualityConfig{
			MinDurationSec:  30,
			MaxDurationSec:  600,
			MaxSilenceRatio: 0.20,
			MaxPauseSec:     1.2,
			PeakCeilingDB:   -1.0,
			LUFSMin:         -23.0,
			LUFSMax:         -14.0,
			RMSFloorDB:      -40.0,
		},
		Mixer: MixerConfig{
			SampleRate:      48000,
			QuestionGap:     Duration(800 * time.Millisecond),
			ThinkingGap:     Duration(1200 * time.Millisecond),
			InterruptionGap: Duration(100 * time.Millisecond),
			DefaultGap:      Duration(500 * time.Millisecond),
			OverlapAmount:   Duration(150 * time.Millisecond),
		},
		ASR: ASRConfig{
			Binary:     "whisper-cli",
			Model:      "./models/ggml-base.en.bin",
			ServerAddr: "",
			Language:   "en",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			TTS: LogSettings{
				Path:  "./logs/tts.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/listenlab.db",
		},
		Output: OutputConfig{
			Dir: "./output",
		},
		Server: ServerConfig{
			Address: "localhost:9000",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Read existing file if it exists
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Load from Env if empty (as a fallback, but do NOT save back to disk)
		if cfg.TTS.Coqui.URL == "" {
			if url := os.Getenv("COQUI_XTTS_URL"); url != "" {
				cfg.TTS.Coqui.URL = url
			}
		}
		if cfg.ASR.Model == "" {
			if model := os.Getenv("WHISPER_MODEL"); model != "" {
				cfg.ASR.Model = model
			}
		}

		return cfg, nil
	}

	// If file does not exist, save defaults
	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ListenLab Configuration
# ----------------------
# Supported Duration units: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for Enum fields
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine:`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: edge-tts, gcloud, coqui-xtts, windows-sapi, espeak (empty = auto)\n${1}engine:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write default config
	return Save(path, DefaultConfig())
}
