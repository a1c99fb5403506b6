// Package replay plays back recorded dashboard events from a JSON-lines file.
//
// Each line is one record:
//
//	{"after_ms": 250, "event": "metrics", "metrics": {"cpu": {"utilization": 12}}}
//	{"after_ms": 0, "event": "stdout", "line": "listening on :8080"}
//
// after_ms is the pause before the record is emitted, relative to the
// previous one.
package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dkoosis/pulse/internal/logging"
	"github.com/dkoosis/pulse/pkg/event"
)

var (
	// ErrUnknownEvent is returned for records whose event is not a known name.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrMissingMetrics is returned for metrics records without a metrics object.
	ErrMissingMetrics = errors.New("metrics record has no metrics")
)

// Record is one line of a recording.
type Record struct {
	AfterMS int64                `json:"after_ms"`
	Event   string               `json:"event"`
	Metrics *event.MetricsSample `json:"metrics,omitempty"`
	Line    string               `json:"line,omitempty"`
}

// Delay returns the pause before the record. Negative values count as zero.
func (r Record) Delay() time.Duration {
	return time.Duration(max(r.AfterMS, 0)) * time.Millisecond
}

// Envelope converts the record to the event it describes.
func (r Record) Envelope() (event.Envelope, error) {
	switch r.Event {
	case event.Metrics:
		if r.Metrics == nil {
			return event.Envelope{}, ErrMissingMetrics
		}
		return event.Envelope{Name: event.Metrics, Payload: *r.Metrics}, nil
	case event.Stdout, event.Stderr:
		return event.Envelope{Name: r.Event, Payload: r.Line}, nil
	default:
		return event.Envelope{}, fmt.Errorf("%w %q", ErrUnknownEvent, r.Event)
	}
}

// Decode parses one recorded line.
func Decode(line []byte) (Record, error) {
	var r Record
	if err := sonic.Unmarshal(line, &r); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	if _, err := r.Envelope(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Player emits the records of a recording at their recorded pace.
type Player struct {
	// Speed scales playback; 2 plays twice as fast. Zero or less means 1.
	Speed float64

	skipped int
}

// Skipped returns how many malformed lines the last Play ignored.
func (p *Player) Skipped() int { return p.skipped }

// Open plays the file at path. The file is closed when playback ends.
func (p *Player) Open(ctx context.Context, path string) (<-chan event.Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	out := make(chan event.Envelope)
	go func() {
		defer f.Close()
		p.play(ctx, f, out)
	}()
	return out, nil
}

// Play emits the records read from r until EOF or ctx is done. The returned
// channel is closed when playback ends.
func (p *Player) Play(ctx context.Context, r io.Reader) <-chan event.Envelope {
	out := make(chan event.Envelope)
	go p.play(ctx, r, out)
	return out
}

func (p *Player) play(ctx context.Context, r io.Reader, out chan<- event.Envelope) {
	defer close(out)
	p.skipped = 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := Decode([]byte(text))
		if err != nil {
			p.skipped++
			logging.Warn("skipping replay record", logging.F("line", lineNo), logging.F("error", err))
			continue
		}
		if !p.wait(ctx, rec.Delay()) {
			return
		}
		env, _ := rec.Envelope()
		select {
		case out <- env:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Error("replay read failed", logging.F("error", err))
	}
	logging.Info("replay finished", logging.F("records", lineNo), logging.F("skipped", p.skipped))
}

func (p *Player) wait(ctx context.Context, d time.Duration) bool {
	if p.Speed > 0 {
		d = time.Duration(float64(d) / p.Speed)
	}
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
