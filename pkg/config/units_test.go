package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1m", 1 * time.Minute, false},
		{"1.5h", 90 * time.Minute, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 168 * time.Hour, false},
		{"2d2h", 50 * time.Hour, false},
		{"100ms", 100 * time.Millisecond, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestYAMLUnmarshal(t *testing.T) {
	type TestConfig struct {
		Gap  Duration `yaml:"gap"`
		Wait Duration `yaml:"wait"`
	}

	yamlData := `
gap: 800ms
wait: 2d
`
	var cfg TestConfig
	if err := yaml.Unmarshal([]byte(yamlData), &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if time.Duration(cfg.Gap) != 800*time.Millisecond {
		t.Errorf("Expected 800ms, got %v", time.Duration(cfg.Gap))
	}
	if time.Duration(cfg.Wait) != 48*time.Hour {
		t.Errorf("Expected 48h, got %v", time.Duration(cfg.Wait))
	}
}

func TestDurationSeconds(t *testing.T) {
	d := Duration(1200 * time.Millisecond)
	if d.Seconds() != 1.2 {
		t.Errorf("Expected 1.2s, got %v", d.Seconds())
	}
}
