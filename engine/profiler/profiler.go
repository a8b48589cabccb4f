package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
)

const bytesPerMB = 1024 * 1024

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS         float64
	FrameTime   time.Duration
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPause   time.Duration
	MaxPause    time.Duration
}

// LogValue groups the stats under one attribute.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fps", s.FPS),
		slog.Duration("frame_time", s.FrameTime),
		slog.Float64("heap_mb", s.HeapMB),
		slog.Float64("alloc_rate_mb", s.AllocRateMB),
		slog.Float64("sys_mb", s.SysMB),
		slog.Any("gc", s.GCCount),
		slog.Duration("gc_last_pause", s.LastPause),
		slog.Duration("gc_max_pause", s.MaxPause),
	)
}

// Profiler counts frames and reports Stats through the engine logger once per interval.
type Profiler struct {
	mu *sync.Mutex

	interval time.Duration
	now      func() time.Time

	frames         int
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(p *Profiler)

// WithInterval sets how often stats are reported. Values <= 0 report on every Tick.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.interval = max(d, 0)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a Profiler reporting once per second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the profiler
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:       &sync.Mutex{},
		interval: time.Second,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick records one frame and reports when the interval has elapsed.
//
// Returns:
//   - bool: true if stats were reported on this tick
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frames++
	now := p.now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.interval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frames) / elapsed.Seconds(),
		FrameTime:   elapsed / time.Duration(p.frames),
		HeapMB:      float64(p.memStats.Alloc) / bytesPerMB,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / bytesPerMB / elapsed.Seconds(),
		SysMB:       float64(p.memStats.Sys) / bytesPerMB,
		GCCount:     p.memStats.NumGC,
	}
	s.LastPause, s.MaxPause = p.pauses()
	logger.Logger().Info("profiler", "stats", s)

	p.last = s
	p.frames = 0
	p.lastTime = now
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// pauses reads the most recent pause and the longest pause since the last report from the
// 256-entry PauseNs ring.
func (p *Profiler) pauses() (last, longest time.Duration) {
	n := p.memStats.NumGC
	if n == 0 {
		return 0, 0
	}
	last = time.Duration(p.memStats.PauseNs[(n-1)%256])
	start := p.lastGCCount
	if n-start > 256 {
		start = n - 256
	}
	for i := start; i < n; i++ {
		longest = max(longest, time.Duration(p.memStats.PauseNs[i%256]))
	}
	return last, longest
}

// Last returns the most recently reported stats.
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
