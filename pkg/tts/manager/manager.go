// Package manager selects among registered TTS engines and handles
// fallback when the preferred engine fails.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"listenlab/pkg/probe"
	"listenlab/pkg/request"
	"listenlab/pkg/tts"
)

// ErrNoEngine is returned when no registered engine is available.
var ErrNoEngine = errors.New("no TTS engine available")

// Priority orders, best first. Offline-only mode never touches the
// online engines.
var (
	onlinePriority  = []tts.Engine{tts.EngineEdgeTTS, tts.EngineGCloud, tts.EngineCoqui, tts.EngineSAPI, tts.EngineESpeak}
	offlinePriority = []tts.Engine{tts.EngineCoqui, tts.EngineSAPI, tts.EngineESpeak}
)

// RetryPolicy controls how synthesis failures are retried on a fallback
// engine. The default retries exactly once and treats every error as
// retryable.
type RetryPolicy struct {
	MaxAttempts int
	Retryable   func(error) bool
}

// DefaultRetryPolicy returns the standard retry-once policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Retryable:   func(error) bool { return true },
	}
}

// Options configures a Manager.
type Options struct {
	// Explicit pins synthesis to one engine; empty means auto-select.
	Explicit tts.Engine
	// OfflineOnly restricts selection to engines that work without internet.
	OfflineOnly bool
	// Retry controls fallback retries; zero value means DefaultRetryPolicy.
	Retry RetryPolicy
	// Backoff records per-engine failures so a flapping engine is skipped.
	// Optional; nil disables backoff-based skipping.
	Backoff *request.ProviderBackoff
}

// Result describes a completed synthesis.
type Result struct {
	Path         string
	Format       string
	Engine       tts.Engine
	VoiceUsed    string
	Offline      bool
	UsedFallback bool
	Duration     time.Duration
}

// EngineInfo describes a registered engine for reporting.
type EngineInfo struct {
	Engine    tts.Engine
	Quality   tts.QualityTier
	Offline   bool
	Available bool
}

// Manager holds the engine registry and availability state.
type Manager struct {
	mu        sync.RWMutex
	providers map[tts.Engine]tts.Provider
	available map[tts.Engine]bool
	opts      Options
}

// New creates a Manager over the given providers. Call Initialize before
// Synthesize to probe availability.
func New(opts Options, providers ...tts.Provider) *Manager {
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	m := &Manager{
		providers: make(map[tts.Engine]tts.Provider),
		available: make(map[tts.Engine]bool),
		opts:      opts,
	}
	for _, p := range providers {
		m.providers[p.Engine()] = p
	}
	return m
}

// Initialize probes every registered engine and records availability.
// It returns ErrNoEngine if nothing is usable.
func (m *Manager) Initialize(ctx context.Context) error {
	probes := make([]probe.Probe, 0, len(m.providers))
	engines := make([]tts.Engine, 0, len(m.providers))
	for _, eng := range m.priority() {
		p, ok := m.providers[eng]
		if !ok {
			continue
		}
		engines = append(engines, eng)
		probes = append(probes, probe.Probe{
			Name:  fmt.Sprintf("tts/%s", eng),
			Check: p.Probe,
		})
	}

	results := probe.Run(ctx, probes)
	_ = probe.AnalyzeResults(results)

	m.mu.Lock()
	defer m.mu.Unlock()
	anyAvailable := false
	for i, r := range results {
		ok := r.OK()
		m.available[engines[i]] = ok
		if ok {
			anyAvailable = true
		}
	}
	if !anyAvailable {
		return ErrNoEngine
	}
	return nil
}

// priority returns the engine order for the current mode.
func (m *Manager) priority() []tts.Engine {
	if m.opts.OfflineOnly {
		return offlinePriority
	}
	return onlinePriority
}

func (m *Manager) isAvailable(eng tts.Engine) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available[eng]
}

// SelectPreferred returns the highest-priority available engine.
func (m *Manager) SelectPreferred() (tts.Provider, error) {
	return m.selectSkipping("")
}

// SelectFallback returns the best available engine excluding the given one.
func (m *Manager) SelectFallback(exclude tts.Engine) (tts.Provider, error) {
	return m.selectSkipping(exclude)
}

func (m *Manager) selectSkipping(exclude tts.Engine) (tts.Provider, error) {
	for _, eng := range m.priority() {
		if eng == exclude {
			continue
		}
		if !m.isAvailable(eng) {
			continue
		}
		if m.opts.Backoff != nil && m.opts.Backoff.InBackoff(string(eng)) {
			slog.Debug("skipping engine in backoff", "engine", eng)
			continue
		}
		return m.providers[eng], nil
	}
	return nil, ErrNoEngine
}

// resolve picks the engine for the first attempt: explicit choice wins,
// otherwise the preferred engine by priority.
func (m *Manager) resolve() (tts.Provider, error) {
	if m.opts.Explicit != "" {
		p, ok := m.providers[m.opts.Explicit]
		if !ok || !m.isAvailable(m.opts.Explicit) {
			return nil, fmt.Errorf("engine %q unavailable: %w", m.opts.Explicit, ErrNoEngine)
		}
		if m.opts.OfflineOnly && !p.Offline() {
			return nil, fmt.Errorf("engine %q is not offline capable: %w", m.opts.Explicit, ErrNoEngine)
		}
		return p, nil
	}
	return m.SelectPreferred()
}

// Synthesize renders text to audio. The preferred engine is tried first;
// on failure the best fallback engine gets exactly one retry (per the
// retry policy). The output file must exist and be at least
// tts.MinAudioSize bytes or the attempt counts as failed.
func (m *Manager) Synthesize(ctx context.Context, text, voice, outputPath string) (*Result, error) {
	primary, err := m.resolve()
	if err != nil {
		return nil, err
	}

	start := time.Now()

	res, err := m.attempt(ctx, primary, text, voice, outputPath)
	if err == nil {
		res.Duration = time.Since(start)
		return res, nil
	}

	slog.Warn("synthesis failed on primary engine", "engine", primary.Engine(), "error", err)

	if m.opts.Retry.MaxAttempts < 2 || (m.opts.Retry.Retryable != nil && !m.opts.Retry.Retryable(err)) {
		return nil, err
	}

	fallback, ferr := m.SelectFallback(primary.Engine())
	if ferr != nil {
		return nil, fmt.Errorf("synthesis unavailable: primary %q failed (%v) and no fallback: %w", primary.Engine(), err, ferr)
	}

	res, err = m.attempt(ctx, fallback, text, voice, outputPath)
	if err != nil {
		return nil, fmt.Errorf("synthesis unavailable: fallback %q also failed: %w", fallback.Engine(), err)
	}
	res.UsedFallback = true
	res.Duration = time.Since(start)
	return res, nil
}

// attempt runs one synthesis on one engine and verifies the output file.
func (m *Manager) attempt(ctx context.Context, p tts.Provider, text, voice, outputPath string) (*Result, error) {
	eng := p.Engine()

	if m.opts.Backoff != nil {
		m.opts.Backoff.Wait(string(eng))
	}

	format, err := p.Synthesize(ctx, text, voice, outputPath)
	if err != nil {
		m.recordFailure(eng)
		return nil, err
	}

	finalPath := outputPath
	if !strings.HasSuffix(strings.ToLower(finalPath), "."+format) {
		finalPath += "." + format
	}
	if err := tts.VerifyAudioFile(finalPath); err != nil {
		m.recordFailure(eng)
		return nil, err
	}

	if m.opts.Backoff != nil {
		m.opts.Backoff.RecordSuccess(string(eng))
	}

	return &Result{
		Path:      finalPath,
		Format:    format,
		Engine:    eng,
		VoiceUsed: voice,
		Offline:   p.Offline(),
	}, nil
}

func (m *Manager) recordFailure(eng tts.Engine) {
	if m.opts.Backoff != nil {
		m.opts.Backoff.RecordFailure(string(eng))
	}
}

// Provider returns the registered provider for an engine, if any.
func (m *Manager) Provider(eng tts.Engine) (tts.Provider, bool) {
	p, ok := m.providers[eng]
	return p, ok
}

// Engines reports all registered engines in priority order.
func (m *Manager) Engines() []EngineInfo {
	infos := make([]EngineInfo, 0, len(m.providers))
	for _, eng := range m.priority() {
		p, ok := m.providers[eng]
		if !ok {
			continue
		}
		infos = append(infos, EngineInfo{
			Engine:    eng,
			Quality:   p.Quality(),
			Offline:   p.Offline(),
			Available: m.isAvailable(eng),
		})
	}
	return infos
}
