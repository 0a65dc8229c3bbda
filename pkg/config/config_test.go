package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "listenlab.yaml")

	tests := []struct {
		name          string
		setup         func()
		validate      func(*testing.T, *Config)
		checkFile     func(*testing.T)
		expectedError bool
	}{
		{
			name:  "NewFile_Defaults",
			setup: func() {}, // No file
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Engine != "" {
					t.Errorf("expected default TTS engine '' (auto), got '%s'", cfg.TTS.Engine)
				}
				if cfg.Mixer.SampleRate != 48000 {
					t.Errorf("expected sample rate 48000, got %d", cfg.Mixer.SampleRate)
				}
				if cfg.Quality.MaxSilenceRatio != 0.20 {
					t.Errorf("expected max silence ratio 0.20, got %v", cfg.Quality.MaxSilenceRatio)
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "sample_rate: 48000") {
					t.Error("config file missing default values")
				}
				if !strings.Contains(string(content), "max_pause_sec: 1.2") {
					t.Error("config file missing quality defaults")
				}
			},
		},
		{
			name: "ExistingFile_Override",
			setup: func() {
				err := os.WriteFile(configPath, []byte("tts:\n  engine: espeak\n  offline_only: true\nquality:\n  max_pause_sec: 2.5\n"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Engine != "espeak" {
					t.Errorf("expected TTS engine 'espeak', got '%s'", cfg.TTS.Engine)
				}
				if !cfg.TTS.OfflineOnly {
					t.Error("expected offline_only true")
				}
				if cfg.Quality.MaxPauseSec != 2.5 {
					t.Errorf("expected MaxPauseSec 2.5, got %v", cfg.Quality.MaxPauseSec)
				}
				// Unspecified sections keep defaults
				if cfg.Mixer.SampleRate != 48000 {
					t.Errorf("expected default sample rate preserved, got %d", cfg.Mixer.SampleRate)
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "engine: espeak") {
					t.Error("config file should persist custom value")
				}
			},
		},
		{
			name: "Coqui_Env_Fallback",
			setup: func() {
				t.Setenv("COQUI_XTTS_URL", "http://gpu-box:8020")
				err := os.WriteFile(configPath, []byte("tts:\n  coqui:\n    url: \"\"\n"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Coqui.URL != "http://gpu-box:8020" {
					t.Errorf("expected Coqui URL from env, got '%s'", cfg.TTS.Coqui.URL)
				}
			},
			checkFile: func(t *testing.T) {
				// Env overrides should NOT be saved to disk
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if strings.Contains(string(content), "gpu-box") {
					t.Error("environment value should NOT be persisted to config file")
				}
			},
		},
		{
			name: "Invalid_YAML",
			setup: func() {
				err := os.WriteFile(configPath, []byte("tts: [not a map]"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(configPath)
			tt.setup()

			cfg, err := Load(configPath)
			if (err != nil) != tt.expectedError {
				t.Fatalf("Load() error = %v, expectedError %v", err, tt.expectedError)
			}
			if err == nil {
				tt.validate(t, cfg)
				tt.checkFile(t)
			}
		})
	}
}

func TestGenerateDefault(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "default_config.yaml")

	err := GenerateDefault(configPath)
	if err != nil {
		t.Fatalf("GenerateDefault() error = %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("GenerateDefault() did not create file")
	}

	// Running again should not fail
	err = GenerateDefault(configPath)
	if err != nil {
		t.Errorf("GenerateDefault() error on second run = %v", err)
	}
}
