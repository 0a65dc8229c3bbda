package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listenlab/pkg/db"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "listenlab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

func TestRecordRun_RoundTrip(t *testing.T) {
	s := testStore(t)

	run := Run{
		ID:                 "run-1",
		Goal:               "ielts",
		Level:              "B2",
		Topic:              "swimming lesson",
		DurationSec:        120,
		L1:                 "fa",
		Seed:               42,
		OfflineOnly:        true,
		EngineUsed:         "coqui-xtts",
		TotalSegments:      12,
		SuccessfulSegments: 12,
		QualityPass:        true,
		OutputDir:          "/out/run-1",
	}
	require.NoError(t, s.RecordRun(run))

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run, runs[0])
}

func TestContentHash(t *testing.T) {
	a := ContentHash("Hello", "edge-tts", "en-GB-SoniaNeural")
	b := ContentHash("Hello", "edge-tts", "en-GB-SoniaNeural")
	c := ContentHash("Hello", "edge-tts", "en-GB-RyanNeural")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "voice change must change the key")
	assert.Len(t, a, 24)
}

func TestClipCache(t *testing.T) {
	s := testStore(t)

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	hash := ContentHash("Good morning", "espeak", "en-gb")
	_, ok := s.LookupClip(hash)
	assert.False(t, ok, "miss before store")

	clip := CachedClip{ContentHash: hash, Engine: "espeak", Voice: "en-gb", Path: path, Format: "wav"}
	require.NoError(t, s.StoreClip(clip))

	got, ok := s.LookupClip(hash)
	require.True(t, ok)
	assert.Equal(t, &clip, got)
}

func TestClipCache_StaleFileEvicted(t *testing.T) {
	s := testStore(t)

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	hash := ContentHash("Hello", "espeak", "en-gb")
	require.NoError(t, s.StoreClip(CachedClip{ContentHash: hash, Engine: "espeak", Voice: "en-gb", Path: path, Format: "wav"}))

	require.NoError(t, os.Remove(path))
	_, ok := s.LookupClip(hash)
	assert.False(t, ok, "deleted file must invalidate the cache entry")
}

func TestStoreClip_Overwrites(t *testing.T) {
	s := testStore(t)

	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.wav")
	p2 := filepath.Join(dir, "b.wav")
	require.NoError(t, os.WriteFile(p1, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte("b"), 0o644))

	hash := ContentHash("Hello", "espeak", "en-gb")
	require.NoError(t, s.StoreClip(CachedClip{ContentHash: hash, Engine: "espeak", Voice: "en-gb", Path: p1, Format: "wav"}))
	require.NoError(t, s.StoreClip(CachedClip{ContentHash: hash, Engine: "espeak", Voice: "en-gb", Path: p2, Format: "wav"}))

	got, ok := s.LookupClip(hash)
	require.True(t, ok)
	assert.Equal(t, p2, got.Path)
}
