// Package report writes the artifacts that accompany a rendered exercise:
// metadata JSON, an HTML player, a QA report and SRT subtitles.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Segment describes one synthesized clip in the exercise.
type Segment struct {
	SegmentID  int    `json:"segment_id"`
	Speaker    string `json:"speaker"`
	Text       string `json:"text"`
	File       string `json:"file"`
	VoiceUsed  string `json:"voice_used"`
	EngineUsed string `json:"engine_used"`
	IsOffline  bool   `json:"is_offline"`
}

// Metadata is the manifest for one generated exercise.
type Metadata struct {
	Title               string    `json:"title"`
	GeneratedAt         time.Time `json:"generated_at"`
	TotalSegments       int       `json:"total_segments"`
	SuccessfulSegments  int       `json:"successful_segments"`
	EngineUsed          string    `json:"engine_used"`
	IsOfflineCompatible bool      `json:"is_offline_compatible"`
	ConversationType    string    `json:"conversation_type"`
	HTMLPlayer          string    `json:"html_player"`
	Segments            []Segment `json:"segments"`
}

// WriteMetadata saves the manifest as indented JSON.
func WriteMetadata(path string, m *Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads a manifest back.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &m, nil
}
