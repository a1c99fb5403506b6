// Package event carries named dashboard events from producers to views.
package event

// Well-known event names.
const (
	Metrics = "metrics"
	Stdout  = "stdout"
	Stderr  = "stderr"
)

// Handler receives an event payload.
type Handler func(payload any)

// Envelope is a named payload in flight from a producer to the UI loop.
type Envelope struct {
	Name    string
	Payload any
}

// MetricsSample is the payload of a Metrics event.
type MetricsSample struct {
	CPU       CPU       `json:"cpu"`
	Memory    Memory    `json:"memory"`
	EventLoop EventLoop `json:"eventLoop"`
	Runtime   Runtime   `json:"runtime"`
}

// CPU is process CPU utilisation in percent of one core.
type CPU struct {
	Utilization float64 `json:"utilization"`
}

// Memory is heap usage in megabytes.
type Memory struct {
	HeapUsed float64 `json:"heapUsed"`
	HeapPeak float64 `json:"heapPeak"`
	Sys      float64 `json:"sys"`
}

// EventLoop is scheduling delay in milliseconds and its high-water mark.
type EventLoop struct {
	Delay float64 `json:"delay"`
	High  float64 `json:"high"`
}

// Runtime holds Go runtime counters.
type Runtime struct {
	Goroutines float64 `json:"goroutines"`
}
