package db_test

import (
	"path/filepath"
	"testing"

	"listenlab/pkg/db"
)

func TestDB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "db_test.db")

	d, err := db.Init(path)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if d == nil {
		t.Fatal("Init() returned nil DB")
	}

	// Schema should accept a run row
	_, err = d.Exec(`INSERT INTO runs (id, goal, level, topic, duration_sec, l1, seed, engine_used, total_segments, successful_segments, quality_pass, output_dir)
		VALUES ('r1', 'ielts', 'B2', 'swimming lesson', 180, 'fa', 42, 'espeak', 7, 7, 1, '/tmp/out')`)
	if err != nil {
		t.Fatalf("insert run failed: %v", err)
	}

	d.Close()
}
