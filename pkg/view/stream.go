package view

import (
	"fmt"
	"strings"

	"github.com/dkoosis/pulse/pkg/linebuf"
)

// StreamOptions configures a StreamView.
type StreamOptions struct {
	Name   string
	Events []string
	// Scrollback caps the retained lines; zero or less keeps everything.
	Scrollback int
	Style      LogStyle

	Layout    *LayoutConfig
	Container Container
	Factory   Factory
	Bus       Subscriber
}

func (o *StreamOptions) validate() error {
	if len(o.Events) == 0 {
		return ErrMissingEvents
	}
	if o.Style.Label == "" {
		o.Style.Label = strings.Join(o.Events, " / ")
	}
	if o.Name == "" {
		o.Name = o.Style.Label
	}
	switch {
	case o.Layout == nil || o.Layout.GetPosition == nil:
		return ErrMissingLayout
	case o.Container == nil:
		return ErrMissingContainer
	case o.Factory == nil:
		return ErrMissingFactory
	case o.Bus == nil:
		return ErrMissingBus
	}
	return nil
}

// StreamView appends text events to a bounded line buffer and keeps a log
// widget in sync, following new output unless the user scrolled up.
type StreamView struct {
	opts   StreamOptions
	layout LayoutConfig

	buffer *linebuf.Buffer
	widget LogWidget

	unsubscribe []func()
	closed      bool
}

// NewStream creates the view and subscribes it to its events.
func NewStream(opts StreamOptions) (*StreamView, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("stream view %q: %w", opts.Name, err)
	}
	s := &StreamView{
		opts:   opts,
		layout: *opts.Layout,
		buffer: linebuf.New(opts.Scrollback),
	}
	s.place(s.layout.GetPosition(opts.Container))
	for _, name := range opts.Events {
		s.unsubscribe = append(s.unsubscribe, opts.Bus.Subscribe(name, s.OnEvent))
	}
	return s, nil
}

func (s *StreamView) place(pos Rect) {
	s.widget = s.opts.Factory.NewLog(s.opts.Style, pos)
	s.widget.OnScroll(s.NotifyScroll)
	s.opts.Container.Append(s.widget)
	s.widget.SetLines(s.buffer.Lines(), s.buffer.Follow())
}

// OnEvent appends payload as one line.
func (s *StreamView) OnEvent(payload any) {
	if s.closed {
		return
	}
	s.buffer.AppendValue(payload)
	s.widget.SetLines(s.buffer.Lines(), s.buffer.Follow())
}

// NotifyScroll records a user scroll reported by the widget.
func (s *StreamView) NotifyScroll(percent float64) {
	s.buffer.NotifyScroll(percent)
}

// OnLayoutChange moves the widget when its position changed. A reader who
// scrolled up keeps the same first line on the new widget. Stream views
// ignore the sample limit.
func (s *StreamView) OnLayoutChange(cfg LayoutConfig) {
	if s.closed {
		return
	}
	if cfg.GetPosition == nil {
		cfg.GetPosition = s.layout.GetPosition
	}
	s.layout = cfg
	pos := cfg.GetPosition(s.opts.Container)
	if pos == s.widget.Position() {
		return
	}
	offset := s.widget.Offset()
	s.opts.Container.Remove(s.widget)
	s.place(pos)
	if !s.buffer.Follow() {
		s.widget.SetOffset(offset)
	}
}

// Close unsubscribes from the bus and removes the widget.
func (s *StreamView) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.unsubscribe = nil
	s.opts.Container.Remove(s.widget)
}

// Name returns the view name.
func (s *StreamView) Name() string { return s.opts.Name }

// Buffer exposes the retained lines.
func (s *StreamView) Buffer() *linebuf.Buffer { return s.buffer }

// Widget returns the widget currently on screen.
func (s *StreamView) Widget() LogWidget { return s.widget }
