package util

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PerfEnabled turns on timing of network operations (-perf)
var PerfEnabled bool

// PerfMetric aggregates every timing recorded under one name
type PerfMetric struct {
	Name      string
	Count     int64
	TotalTime time.Duration
	Last      time.Duration
}

// Average returns the mean duration per call
func (m PerfMetric) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// PerfTracker collects timings for the session
type PerfTracker struct {
	mu      sync.Mutex
	metrics map[string]*PerfMetric
	started time.Time
}

var (
	globalPerf     *PerfTracker
	globalPerfOnce sync.Once
)

// NewPerfTracker returns an empty tracker
func NewPerfTracker() *PerfTracker {
	return &PerfTracker{metrics: make(map[string]*PerfMetric), started: time.Now()}
}

// GetPerfTracker returns the process-wide tracker
func GetPerfTracker() *PerfTracker {
	globalPerfOnce.Do(func() { globalPerf = NewPerfTracker() })
	return globalPerf
}

// Record adds one measurement under name
func (pt *PerfTracker) Record(name string, d time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	m, ok := pt.metrics[name]
	if !ok {
		m = &PerfMetric{Name: name}
		pt.metrics[name] = m
	}
	m.Count++
	m.TotalTime += d
	m.Last = d
}

// Metrics returns a snapshot sorted by total time, slowest first
func (pt *PerfTracker) Metrics() []PerfMetric {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	out := make([]PerfMetric, 0, len(pt.metrics))
	for _, m := range pt.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTime == out[j].TotalTime {
			return out[i].Name < out[j].Name
		}
		return out[i].TotalTime > out[j].TotalTime
	})
	return out
}

// TimeFuncWithError times fn under name when profiling is enabled
func TimeFuncWithError[T any](name string, fn func() (T, error)) (T, error) {
	if !PerfEnabled {
		return fn()
	}
	start := time.Now()
	result, err := fn()
	d := time.Since(start)
	GetPerfTracker().Record(name, d)
	Debugf("[PERF] %s took %v", name, d)
	return result, err
}

var (
	perfTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366F1"))
	perfSlowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	perfFastStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BED9F"))
	perfMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#636E72"))
	slowThreshold  = 3 * time.Second
	fastThreshold  = 500 * time.Millisecond
)

// WriteReport renders the collected timings
func (pt *PerfTracker) WriteReport(w io.Writer) {
	metrics := pt.Metrics()

	var b strings.Builder
	b.WriteString(perfTitleStyle.Render("Performance report"))
	b.WriteString("\n")
	b.WriteString(perfMutedStyle.Render(fmt.Sprintf("uptime %s", time.Since(pt.started).Round(time.Millisecond))))
	b.WriteString("\n")

	for _, m := range metrics {
		avg := m.Average().Round(time.Millisecond).String()
		switch {
		case m.Average() >= slowThreshold:
			avg = perfSlowStyle.Render(avg)
		case m.Average() <= fastThreshold:
			avg = perfFastStyle.Render(avg)
		}
		fmt.Fprintf(&b, "  %-28s %4d calls  avg %s  total %s\n",
			Truncate(m.Name, 28), m.Count, avg, m.TotalTime.Round(time.Millisecond))
	}
	_, _ = io.WriteString(w, b.String())
}
