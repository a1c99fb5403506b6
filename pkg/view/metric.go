package view

import (
	"sort"

	"github.com/dkoosis/pulse/pkg/event"
)

// Sample is what a Metric extracts from one event payload.
type Sample struct {
	Value float64
	// High is the reported high-water value, nil when the payload has none.
	High *float64
}

// Metric pulls a sample out of an event payload. ok is false when the
// payload does not carry this metric.
type Metric interface {
	Extract(payload any) (s Sample, ok bool)
}

// MetricFunc adapts a function to Metric.
type MetricFunc func(payload any) (Sample, bool)

// Extract calls f.
func (f MetricFunc) Extract(payload any) (Sample, bool) { return f(payload) }

func metricsPayload(payload any) (event.MetricsSample, bool) {
	switch p := payload.(type) {
	case event.MetricsSample:
		return p, true
	case *event.MetricsSample:
		if p == nil {
			return event.MetricsSample{}, false
		}
		return *p, true
	default:
		return event.MetricsSample{}, false
	}
}

// CPUMetric reads process CPU utilisation.
type CPUMetric struct{}

// Extract implements Metric.
func (CPUMetric) Extract(payload any) (Sample, bool) {
	m, ok := metricsPayload(payload)
	if !ok {
		return Sample{}, false
	}
	return Sample{Value: m.CPU.Utilization}, true
}

// MemoryMetric reads heap in use, with the heap peak as high-water.
type MemoryMetric struct{}

// Extract implements Metric.
func (MemoryMetric) Extract(payload any) (Sample, bool) {
	m, ok := metricsPayload(payload)
	if !ok {
		return Sample{}, false
	}
	high := m.Memory.HeapPeak
	return Sample{Value: m.Memory.HeapUsed, High: &high}, true
}

// EventLoopMetric reads scheduling delay and its high-water mark.
type EventLoopMetric struct{}

// Extract implements Metric.
func (EventLoopMetric) Extract(payload any) (Sample, bool) {
	m, ok := metricsPayload(payload)
	if !ok {
		return Sample{}, false
	}
	high := m.EventLoop.High
	return Sample{Value: m.EventLoop.Delay, High: &high}, true
}

// GoroutineMetric reads the goroutine count.
type GoroutineMetric struct{}

// Extract implements Metric.
func (GoroutineMetric) Extract(payload any) (Sample, bool) {
	m, ok := metricsPayload(payload)
	if !ok {
		return Sample{}, false
	}
	return Sample{Value: m.Runtime.Goroutines}, true
}

// Kind bundles the defaults of a graph type.
type Kind struct {
	Label     string
	Unit      string
	HighWater bool
	Metric    Metric
}

var kinds = map[string]Kind{
	"cpu":        {Label: "cpu utilization", Unit: "%", Metric: CPUMetric{}},
	"memory":     {Label: "heap", Unit: "MB", HighWater: true, Metric: MemoryMetric{}},
	"eventloop":  {Label: "event loop delay", Unit: "ms", HighWater: true, Metric: EventLoopMetric{}},
	"goroutines": {Label: "goroutines", Metric: GoroutineMetric{}},
}

// LookupKind returns the defaults registered for a graph type.
func LookupKind(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// KindNames lists the registered graph types in sorted order.
func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
