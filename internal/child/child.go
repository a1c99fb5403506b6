// Package child runs a monitored command and streams its output as dashboard
// events.
package child

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/dkoosis/pulse/internal/logging"
	"github.com/dkoosis/pulse/pkg/event"
)

// ErrNoCommand is returned when Run is given an empty argv.
var ErrNoCommand = errors.New("no command given")

const (
	initialLineBuffer = 64 * 1024
	maxLineLength     = 1024 * 1024
)

// Status is the outcome of a finished command.
type Status struct {
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Duration returns how long the command ran.
func (s Status) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Line renders the status as the final stderr line.
func (s Status) Line(name string) string {
	if s.ExitCode < 0 && s.Err != nil {
		return fmt.Sprintf("%s terminated: %v (after %s)", name, s.Err, s.Duration().Round(time.Millisecond))
	}
	return fmt.Sprintf("%s exited with code %d (after %s)", name, s.ExitCode, s.Duration().Round(time.Millisecond))
}

// Process is a running command.
type Process struct {
	events chan event.Envelope
	done   chan struct{}
	status Status
}

// Events returns the stdout and stderr envelopes. The channel closes after
// the final status line.
func (p *Process) Events() <-chan event.Envelope { return p.events }

// Wait blocks until the command has been reaped and returns its status.
func (p *Process) Wait() Status {
	<-p.done
	return p.status
}

// Run starts argv and returns its events. See Start.
func Run(ctx context.Context, argv []string) (<-chan event.Envelope, error) {
	p, err := Start(ctx, argv)
	if err != nil {
		return nil, err
	}
	return p.Events(), nil
}

// Start runs argv and streams its output. After both streams reach EOF the
// command is reaped, a status line is sent on stderr and the event channel
// is closed. Cancelling ctx kills the command.
func Start(ctx context.Context, argv []string) (*Process, error) {
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	p := &Process{
		events: make(chan event.Envelope, 64),
		done:   make(chan struct{}),
		status: Status{StartedAt: time.Now()},
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}
	logging.Info("child started", logging.F("command", strings.Join(argv, " ")), logging.F("pid", cmd.Process.Pid))

	go func() {
		defer close(p.events)

		var streams sync.WaitGroup
		streams.Add(2)
		go readStream(ctx, &streams, stdout, event.Stdout, p.events)
		go readStream(ctx, &streams, stderr, event.Stderr, p.events)
		streams.Wait()

		err := cmd.Wait()
		p.status.Err = err
		p.status.FinishedAt = time.Now()
		p.status.ExitCode = exitCode(err)
		close(p.done)
		logging.Info("child finished",
			logging.F("command", argv[0]),
			logging.F("exit_code", p.status.ExitCode),
			logging.F("duration", p.status.Duration().String()))

		// The status line is delivered even after cancellation so a final
		// reader sees why the stream ended.
		select {
		case p.events <- event.Envelope{Name: event.Stderr, Payload: p.status.Line(argv[0])}:
		case <-time.After(time.Second):
		}
	}()
	return p, nil
}

func readStream(ctx context.Context, wg *sync.WaitGroup, r io.Reader, name string, out chan<- event.Envelope) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)
	for scanner.Scan() {
		select {
		case out <- event.Envelope{Name: name, Payload: scanner.Text()}:
		case <-ctx.Done():
			_, _ = io.Copy(io.Discard, r)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Warn("child stream read failed", logging.F("stream", name), logging.F("error", err))
		_, _ = io.Copy(io.Discard, r)
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
