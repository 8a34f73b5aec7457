package monitor

import (
	"runtime"
	"time"
)

// Actors lists the actors registered on the message bus
type Actors interface {
	Names() []string
}

// Provider reports process resource usage alongside the running actors
type Provider struct {
	actors  Actors
	started time.Time
	now     func() time.Time
}

// SystemStats represents runtime resource usage
type SystemStats struct {
	Timestamp  int64       `json:"timestamp"`
	Memory     MemoryStats `json:"memory"`
	CPU        CPUStats    `json:"cpu"`
	Goroutines int         `json:"goroutines"`
	Actors     []string    `json:"actors"`
	Uptime     float64     `json:"uptime_seconds"`
}

// MemoryStats represents memory usage
type MemoryStats struct {
	Allocated    uint64  `json:"allocated_bytes"`
	System       uint64  `json:"system_bytes"`
	NumGC        uint32  `json:"num_gc"`
	UsagePercent float64 `json:"usage_percent"`
}

// CPUStats represents CPU usage
type CPUStats struct {
	Cores   int `json:"cores"`
	Threads int `json:"threads"`
}

// NewProvider creates a monitor over the given actor registry
func NewProvider(actors Actors) *Provider {
	return &Provider{actors: actors, started: time.Now(), now: time.Now}
}

// Snapshot collects current statistics
func (m *Provider) Snapshot() SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	usage := 0.0
	if memStats.Sys > 0 {
		usage = float64(memStats.Alloc) / float64(memStats.Sys) * 100
	}

	var actors []string
	if m.actors != nil {
		actors = m.actors.Names()
	}

	now := m.now()
	return SystemStats{
		Timestamp: now.Unix(),
		Memory: MemoryStats{
			Allocated:    memStats.Alloc,
			System:       memStats.Sys,
			NumGC:        memStats.NumGC,
			UsagePercent: usage,
		},
		CPU: CPUStats{
			Cores:   runtime.NumCPU(),
			Threads: runtime.GOMAXPROCS(0),
		},
		Goroutines: runtime.NumGoroutine(),
		Actors:     actors,
		Uptime:     now.Sub(m.started).Seconds(),
	}
}
