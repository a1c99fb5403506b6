package plain

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/pulse/pkg/event"
)

func feed(envs ...event.Envelope) <-chan event.Envelope {
	ch := make(chan event.Envelope, len(envs))
	for _, e := range envs {
		ch <- e
	}
	close(ch)
	return ch
}

func TestRun_PrintsPrefixedLines_Until_FiniteSourcesClose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	bus := event.NewBus()
	p, unsubscribe := NewPrinter(&buf, bus)
	defer unsubscribe()

	background := make(chan event.Envelope) // never closes
	finite := feed(
		event.Envelope{Name: event.Stdout, Payload: "hello"},
		event.Envelope{Name: event.Stderr, Payload: "oops"},
		event.Envelope{Name: event.Metrics, Payload: event.MetricsSample{
			CPU:     event.CPU{Utilization: 12.5},
			Memory:  event.Memory{HeapUsed: 3, HeapPeak: 4},
			Runtime: event.Runtime{Goroutines: 1500},
		}},
		event.Envelope{Name: event.Stdout, Payload: "bye"},
	)

	done := make(chan struct{})
	go func() {
		Run(context.Background(), bus, []<-chan event.Envelope{finite}, []<-chan event.Envelope{background})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the finite source closed")
	}

	out := buf.String()
	assert.Contains(t, out, "[stdout] hello\n")
	assert.Contains(t, out, "[stderr] oops\n")
	assert.Contains(t, out, "[metrics] cpu 12.5% heap 3.0MB (peak 4.0MB) delay 0.0ms goroutines 1,500\n")
	assert.Equal(t, map[string]int{event.Stdout: 2, event.Stderr: 1}, p.Summary().Lines)
	assert.Equal(t, 1, p.Summary().Samples)
}

func TestRun_Returns_When_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	open := make(chan event.Envelope)
	done := make(chan struct{})
	go func() {
		Run(ctx, event.NewBus(), []<-chan event.Envelope{open}, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run ignored cancellation")
	}
}

func TestPrinter_WriteSummary_ListsStreams(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	bus := event.NewBus()
	p, _ := NewPrinter(&buf, bus)
	for range 1200 {
		bus.Emit(event.Stdout, "x")
	}
	bus.Emit(event.Stderr, 42) // not a line
	buf.Reset()

	p.WriteSummary()

	assert.Equal(t, "\nSummary:\n  stdout: 1,200 lines\n  metrics: 0 samples\n", buf.String())
}
