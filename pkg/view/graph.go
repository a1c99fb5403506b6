package view

import (
	"fmt"

	"github.com/dkoosis/pulse/pkg/event"
	"github.com/dkoosis/pulse/pkg/series"
	"github.com/dkoosis/pulse/pkg/window"
)

// GraphOptions configures a GraphView.
type GraphOptions struct {
	// Name identifies the view in errors and logs. Defaults to Label.
	Name  string
	Label string
	Unit  string
	// Events defaults to the metrics event.
	Events []string
	Metric Metric
	// HighWater enables the flat high-water reference line.
	HighWater bool
	Style     GraphStyle

	Layout    *LayoutConfig
	Container Container
	Factory   Factory
	Bus       Subscriber
}

func (o *GraphOptions) validate() error {
	if o.Label == "" {
		return ErrMissingLabel
	}
	if o.Name == "" {
		o.Name = o.Label
	}
	if len(o.Events) == 0 {
		o.Events = []string{event.Metrics}
	}
	switch {
	case o.Metric == nil:
		return ErrMissingMetric
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

// GraphView keeps a window of samples for one metric and redraws its graph
// widget on every sample and layout change.
type GraphView struct {
	opts   GraphOptions
	layout LayoutConfig
	style  GraphStyle

	window    *window.Window
	highWater *float64
	label     string
	widget    GraphWidget

	unsubscribe []func()
	closed      bool
}

// NewGraph creates the view, places its widget and subscribes it to its
// events. The graph starts as capacity zeros.
func NewGraph(opts GraphOptions) (*GraphView, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("graph view %q: %w", opts.Name, err)
	}
	g := &GraphView{
		opts:   opts,
		layout: *opts.Layout,
		style:  opts.Style,
		window: window.New(opts.Layout.Limit),
		label:  opts.Label,
	}
	g.style.Label = opts.Label
	g.style.Unit = opts.Unit
	g.widget = opts.Factory.NewGraph(g.style, g.layout.GetPosition(opts.Container))
	opts.Container.Append(g.widget)
	g.widget.SetLabel(g.label)
	g.render()

	for _, name := range opts.Events {
		g.unsubscribe = append(g.unsubscribe, opts.Bus.Subscribe(name, g.OnEvent))
	}
	return g, nil
}

// OnEvent extracts this view's metric from payload and records it.
// Payloads without the metric are ignored.
func (g *GraphView) OnEvent(payload any) {
	s, ok := g.opts.Metric.Extract(payload)
	if !ok {
		return
	}
	g.Update(s.Value, s.High)
}

// Update records one sample. high is ignored unless the view tracks a
// high-water value.
func (g *GraphView) Update(value float64, high *float64) {
	if g.closed {
		return
	}
	g.window.Push(value)
	if g.opts.HighWater && high != nil {
		h := *high
		g.highWater = &h
	}
	g.label = series.FormatLabel(g.opts.Label, g.opts.Unit, value, g.highWater)
	g.widget.SetLabel(g.label)
	g.render()
}

// OnLayoutChange applies a new capacity and position and redraws.
func (g *GraphView) OnLayoutChange(cfg LayoutConfig) {
	if g.closed {
		return
	}
	if cfg.GetPosition == nil {
		cfg.GetPosition = g.layout.GetPosition
	}
	g.layout = cfg
	if cfg.Limit != g.window.Capacity() {
		g.window.Resize(cfg.Limit)
	}
	g.recalculatePosition()
	g.render()
}

func (g *GraphView) recalculatePosition() {
	pos := g.layout.GetPosition(g.opts.Container)
	if pos == g.widget.Position() {
		return
	}
	g.opts.Container.Remove(g.widget)
	g.widget = g.opts.Factory.NewGraph(g.style, pos)
	g.opts.Container.Append(g.widget)
	g.widget.SetLabel(g.label)
}

func (g *GraphView) render() {
	g.widget.SetData(g.Projection().List())
}

// Projection returns what the widget currently shows.
func (g *GraphView) Projection() series.Projection {
	if g.highWater != nil {
		return series.Project(g.window, g.highWater)
	}
	return series.Empty(g.window, g.opts.HighWater)
}

// Close unsubscribes from the bus and removes the widget.
func (g *GraphView) Close() {
	if g.closed {
		return
	}
	g.closed = true
	for _, unsubscribe := range g.unsubscribe {
		unsubscribe()
	}
	g.unsubscribe = nil
	g.opts.Container.Remove(g.widget)
}

// Name returns the view name.
func (g *GraphView) Name() string { return g.opts.Name }

// Label returns the current widget label.
func (g *GraphView) Label() string { return g.label }

// Window exposes the sample history.
func (g *GraphView) Window() *window.Window { return g.window }

// Widget returns the widget currently on screen.
func (g *GraphView) Widget() GraphWidget { return g.widget }
