package system

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a point-in-time performance report for the running process.
type Stats struct {
	Wall       time.Duration
	Virtual    time.Duration
	RSSBytes   uint64
	CPUPercent float64
	Goroutines int
}

// Collect samples the current process. Missing OS counters are left zero.
func Collect(wall, virtual time.Duration) Stats {
	s := Stats{
		Wall:       wall,
		Virtual:    virtual,
		Goroutines: runtime.NumGoroutine(),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s
	}
	if mem, err := p.MemoryInfo(); err == nil {
		s.RSSBytes = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}
	return s
}

// Speedup is how much faster than real time the run went.
func (s Stats) Speedup() float64 {
	if s.Wall <= 0 {
		return 0
	}
	return s.Virtual.Seconds() / s.Wall.Seconds()
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Wall Time: %.3fs\n"+
			"Tour Time: %.3fs (x%.0f)\n"+
			"RSS: %.1f MiB\n"+
			"CPU: %.1f%%\n"+
			"Goroutines: %d\n"+
			"----------------------------\n",
		s.Wall.Seconds(), s.Virtual.Seconds(), s.Speedup(),
		float64(s.RSSBytes)/(1<<20), s.CPUPercent, s.Goroutines,
	)
}
