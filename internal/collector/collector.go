// Package collector samples process metrics and publishes them as metrics
// events.
package collector

import (
	"context"
	"runtime"
	"time"

	"github.com/dkoosis/pulse/internal/logging"
	"github.com/dkoosis/pulse/pkg/event"
)

const bytesPerMB = 1 << 20

// Sampler measures CPU, memory, scheduler delay and goroutines at a fixed
// interval.
type Sampler struct {
	interval time.Duration

	cpuTime  func() (time.Duration, error)
	memStats func(*runtime.MemStats)
	routines func() int

	lastWall time.Time
	lastCPU  time.Duration
	heapPeak float64
	delayMax float64
}

// New creates a sampler. Intervals below one millisecond are raised to it.
func New(interval time.Duration) *Sampler {
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	return &Sampler{
		interval: interval,
		cpuTime:  processCPUTime,
		memStats: runtime.ReadMemStats,
		routines: runtime.NumGoroutine,
	}
}

// Interval returns the sampling interval.
func (s *Sampler) Interval() time.Duration { return s.interval }

// Start samples until ctx is done. The returned channel is closed when
// sampling stops.
func (s *Sampler) Start(ctx context.Context) <-chan event.Envelope {
	out := make(chan event.Envelope, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.prime(time.Now())
		expected := time.Now().Add(s.interval)
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				lag := time.Since(expected)
				expected = now.Add(s.interval)
				sample := s.Sample(time.Now(), lag)
				select {
				case out <- event.Envelope{Name: event.Metrics, Payload: sample}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (s *Sampler) prime(now time.Time) {
	s.lastWall = now
	if cpu, err := s.cpuTime(); err == nil {
		s.lastCPU = cpu
	}
}

// Sample takes one measurement at wall time now. lag is how late the tick
// that triggered it fired.
func (s *Sampler) Sample(now time.Time, lag time.Duration) event.MetricsSample {
	var m event.MetricsSample

	if cpu, err := s.cpuTime(); err == nil {
		if wall := now.Sub(s.lastWall); !s.lastWall.IsZero() && wall > 0 {
			m.CPU.Utilization = round1(100 * float64(cpu-s.lastCPU) / float64(wall))
		}
		s.lastCPU = cpu
	} else {
		logging.Debug("cpu time unavailable", logging.F("error", err))
	}
	s.lastWall = now

	var ms runtime.MemStats
	s.memStats(&ms)
	m.Memory.HeapUsed = round1(float64(ms.HeapInuse) / bytesPerMB)
	m.Memory.Sys = round1(float64(ms.Sys) / bytesPerMB)
	s.heapPeak = max(s.heapPeak, m.Memory.HeapUsed)
	m.Memory.HeapPeak = s.heapPeak

	delay := round1(float64(max(lag, 0)) / float64(time.Millisecond))
	s.delayMax = max(s.delayMax, delay)
	m.EventLoop.Delay = delay
	m.EventLoop.High = s.delayMax

	m.Runtime.Goroutines = float64(s.routines())
	return m
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
