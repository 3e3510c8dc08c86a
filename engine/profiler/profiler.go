package profiler

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// Stats is one profiler report.
type Stats struct {
	TicksPerSecond float64
	Instances      int
	Lights         int
	Models         int
	Textures       int

	HeapMB      float64 // live heap
	AllocRateMB float64 // MB allocated per second since the last report
	SysMB       float64 // memory obtained from the OS
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64 // longest pause since the last report
}

// Profiler tracks tick rate, scene size and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now    func() time.Time
	logger *slog.Logger
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, option := range options {
		option(p)
	}
	p.logger = p.logger.With("component", "profiler")
	p.lastTime = p.now()
	return p
}

// Tick records one update of s. It logs statistics when the update interval
// has elapsed since the last report.
// Statistics include: tick rate, entity counts, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - s: the snapshot current at this tick; nil counts as empty
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(s *scene.Snapshot) bool {
	p.tickCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}
	if s == nil {
		s = scene.Empty()
	}

	runtime.ReadMemStats(&p.memStats)
	st := Stats{
		TicksPerSecond: float64(p.tickCount) / elapsed.Seconds(),
		Instances:      s.InstanceCount(),
		Lights:         s.LightCount(),
		Models:         s.ModelCount(),
		Textures:       s.TextureCount(),
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:          float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:        p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	st.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := st.GCCount; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		st.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			st.MaxPauseUs = max(st.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("stats",
		"tps", st.TicksPerSecond,
		"instances", st.Instances,
		"lights", st.Lights,
		"models", st.Models,
		"textures", st.Textures,
		"heap_mb", st.HeapMB,
		"alloc_rate_mb", st.AllocRateMB,
		"gc", st.GCCount,
		"gc_last_us", st.LastPauseUs,
		"gc_max_us", st.MaxPauseUs,
		"sys_mb", st.SysMB)

	p.tickCount = 0
	p.lastTime = currentTime
	p.lastGCCount = st.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = st
	return true
}

// Last returns the most recent report, or the zero Stats before the first.
func (p *Profiler) Last() Stats {
	return p.last
}

// Run ticks with the snapshot returned by current once per interval until ctx
// is done.
//
// Parameters:
//   - ctx: stops the loop
//   - current: returns the snapshot to report on, typically Controller.Snapshot
func (p *Profiler) Run(ctx context.Context, current func() *scene.Snapshot) {
	ticker := time.NewTicker(p.updateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(current())
		}
	}
}
