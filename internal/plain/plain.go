// Package plain streams dashboard events as prefixed text lines for
// environments without a terminal, such as CI logs or pipes.
package plain

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/pulse/pkg/event"
)

// Summary counts what was printed.
type Summary struct {
	Lines   map[string]int
	Samples int
}

// Printer writes events to out, one line each.
type Printer struct {
	out     io.Writer
	printer *message.Printer
	summary Summary
}

// NewPrinter creates a printer subscribed to every well-known event on bus.
// The returned function unsubscribes it.
func NewPrinter(out io.Writer, bus *event.Bus) (*Printer, func()) {
	p := &Printer{
		out:     out,
		printer: message.NewPrinter(language.English),
		summary: Summary{Lines: map[string]int{}},
	}
	unsubs := []func(){
		bus.Subscribe(event.Stdout, func(payload any) { p.line(event.Stdout, payload) }),
		bus.Subscribe(event.Stderr, func(payload any) { p.line(event.Stderr, payload) }),
		bus.Subscribe(event.Metrics, p.metrics),
	}
	return p, func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (p *Printer) line(name string, payload any) {
	s, ok := payload.(string)
	if !ok {
		return
	}
	p.summary.Lines[name]++
	_, _ = fmt.Fprintf(p.out, "[%s] %s\n", name, s)
}

func (p *Printer) metrics(payload any) {
	var m event.MetricsSample
	switch v := payload.(type) {
	case event.MetricsSample:
		m = v
	case *event.MetricsSample:
		if v == nil {
			return
		}
		m = *v
	default:
		return
	}
	p.summary.Samples++
	_, _ = p.printer.Fprintf(p.out, "[metrics] cpu %.1f%% heap %.1fMB (peak %.1fMB) delay %.1fms goroutines %d\n",
		m.CPU.Utilization, m.Memory.HeapUsed, m.Memory.HeapPeak, m.EventLoop.Delay, int(m.Runtime.Goroutines))
}

// Summary returns the counts so far.
func (p *Printer) Summary() Summary { return p.summary }

// WriteSummary prints the per-stream line counts.
func (p *Printer) WriteSummary() {
	_, _ = fmt.Fprintln(p.out)
	_, _ = fmt.Fprintln(p.out, "Summary:")
	names := make([]string, 0, len(p.summary.Lines))
	for name := range p.summary.Lines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = p.printer.Fprintf(p.out, "  %s: %d lines\n", name, p.summary.Lines[name])
	}
	_, _ = p.printer.Fprintf(p.out, "  metrics: %d samples\n", p.summary.Samples)
}

// Run dispatches events from every source onto bus until all finite sources
// are closed or ctx is done. Background sources, such as a sampler, are
// consumed meanwhile but never keep Run alive.
func Run(ctx context.Context, bus *event.Bus, finite, background []<-chan event.Envelope) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := make(chan event.Envelope)
	forward := func(wg *sync.WaitGroup, src <-chan event.Envelope) {
		if wg != nil {
			defer wg.Done()
		}
		for {
			select {
			case env, ok := <-src:
				if !ok {
					return
				}
				select {
				case merged <- env:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}

	var wg sync.WaitGroup
	wg.Add(len(finite))
	for _, src := range finite {
		go forward(&wg, src)
	}
	for _, src := range background {
		go forward(nil, src)
	}
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	for {
		select {
		case env := <-merged:
			bus.Dispatch(env)
		case <-finished:
			return
		case <-ctx.Done():
			return
		}
	}
}
