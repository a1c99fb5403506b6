// Package layout turns configured layouts into live views.
package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dkoosis/pulse/internal/config"
	"github.com/dkoosis/pulse/internal/logging"
	"github.com/dkoosis/pulse/pkg/view"
)

// Graph limits derived from the widget width.
const (
	// AxisReserve is the number of inner columns taken by the y-axis labels.
	AxisReserve = 8
	MinLimit    = 2
)

// ErrUnknownType is returned for a view type with no registered kind.
var ErrUnknownType = errors.New("unknown view type")

// Rect converts a percent position into cells of a width x height screen.
// Edges are floored, so adjacent positions share an edge and never overlap.
func Rect(p config.Position, width, height int) view.Rect {
	left := scale(p.Left, width)
	top := scale(p.Top, height)
	right := scale(p.Left+p.Width, width)
	bottom := scale(p.Top+p.Height, height)
	return view.Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

func scale(percent float64, cells int) int {
	return int(math.Floor(percent * float64(cells) / 100))
}

// Resolve computes the layout config of v for container c.
func Resolve(v config.ViewConfig, c view.Container) view.LayoutConfig {
	pos := v.Position
	limit := v.Limit
	if limit == 0 {
		w, h := c.Size()
		limit = AutoLimit(Rect(pos, w, h).Width)
	}
	return view.LayoutConfig{
		Limit: limit,
		GetPosition: func(c view.Container) view.Rect {
			w, h := c.Size()
			return Rect(pos, w, h)
		},
	}
}

// AutoLimit is the number of samples that fits a graph widget width cells
// wide.
func AutoLimit(width int) int {
	return max(width-2-AxisReserve, MinLimit)
}

// Deps are the collaborators every view needs.
type Deps struct {
	Container view.Container
	Factory   view.Factory
	Bus       view.Subscriber
	// Scrollback is the default stream capacity.
	Scrollback int
}

// Bound is a live view and the config it was built from.
type Bound struct {
	Index  int
	Config config.ViewConfig
	View   view.Binding
}

// Relayout re-applies the view's position and limit.
func (b Bound) Relayout(c view.Container) {
	b.View.OnLayoutChange(Resolve(b.Config, c))
}

// BuildView creates the view described by v.
func BuildView(v config.ViewConfig, deps Deps) (view.Binding, error) {
	if err := v.Check(); err != nil {
		return nil, err
	}
	lc := Resolve(v, deps.Container)

	if v.Type == config.TypeStream {
		scrollback := v.Scrollback
		if scrollback == 0 {
			scrollback = deps.Scrollback
		}
		sv, err := view.NewStream(view.StreamOptions{
			Events:     v.Events,
			Scrollback: scrollback,
			Style:      view.LogStyle{Label: v.Label, Color: v.Color},
			Layout:     &lc,
			Container:  deps.Container,
			Factory:    deps.Factory,
			Bus:        deps.Bus,
		})
		if err != nil {
			return nil, err
		}
		return sv, nil
	}

	kind, ok := view.LookupKind(v.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, v.Type)
	}
	label := kind.Label
	if v.Label != "" {
		label = v.Label
	}
	unit := kind.Unit
	if v.Unit != "" {
		unit = v.Unit
	}
	highWater := kind.HighWater
	if v.HighWater != nil {
		highWater = *v.HighWater
	}
	gv, err := view.NewGraph(view.GraphOptions{
		Name:      v.Type,
		Label:     label,
		Unit:      unit,
		Events:    v.Events,
		Metric:    kind.Metric,
		HighWater: highWater,
		Style:     view.GraphStyle{Color: v.Color},
		Layout:    &lc,
		Container: deps.Container,
		Factory:   deps.Factory,
		Bus:       deps.Bus,
	})
	if err != nil {
		return nil, err
	}
	return gv, nil
}

// Build creates every view of l. Views that fail are logged and skipped;
// their errors are returned alongside the views that were built.
func Build(l config.Layout, deps Deps) ([]Bound, []error) {
	var (
		bound []Bound
		errs  []error
	)
	for i, v := range l.Views {
		b, err := BuildView(v, deps)
		if err != nil {
			err = fmt.Errorf("layout %q view %d (%s): %w", l.Name, i, v.Type, err)
			logging.Warn("skipping view", logging.F("error", err))
			errs = append(errs, err)
			continue
		}
		bound = append(bound, Bound{Index: i, Config: v, View: b})
	}
	return bound, errs
}

// Set is the layout currently on screen.
type Set struct {
	layout config.Layout
	deps   Deps
	bound  []Bound
}

// NewSet builds l.
func NewSet(l config.Layout, deps Deps) (*Set, []error) {
	s := &Set{deps: deps}
	return s, s.build(l)
}

func (s *Set) build(l config.Layout) []error {
	var errs []error
	s.layout = l
	s.bound, errs = Build(l, s.deps)
	return errs
}

// Name returns the layout name.
func (s *Set) Name() string { return s.layout.Name }

// Views returns the views that were built, in config order.
func (s *Set) Views() []Bound { return s.bound }

// Relayout re-applies every view's position and limit, e.g. after a resize.
func (s *Set) Relayout() {
	for _, b := range s.bound {
		b.Relayout(s.deps.Container)
	}
}

// Apply switches to l. When l has the same views as the current layout and
// differs only in positions or limits, the views are kept with their history
// and re-laid out. Otherwise every view is closed and l is built from scratch.
func (s *Set) Apply(l config.Layout) (rebuilt bool, errs []error) {
	if sameShape(s.layout, l) {
		s.layout = l
		for i := range s.bound {
			s.bound[i].Config = l.Views[s.bound[i].Index]
		}
		s.Relayout()
		return false, nil
	}
	s.Close()
	return true, s.build(l)
}

// Close closes every view.
func (s *Set) Close() {
	for _, b := range s.bound {
		b.View.Close()
	}
	s.bound = nil
}

// sameShape reports whether a and b describe the same views, ignoring
// position and limit.
func sameShape(a, b config.Layout) bool {
	if a.Name != b.Name || len(a.Views) != len(b.Views) {
		return false
	}
	for i := range a.Views {
		x, y := a.Views[i], b.Views[i]
		if x.Type != y.Type || x.Label != y.Label || x.Unit != y.Unit ||
			x.Scrollback != y.Scrollback || x.Color != y.Color ||
			!slices.Equal(x.Events, y.Events) || !sameBool(x.HighWater, y.HighWater) {
			return false
		}
		if x.Check() != nil || y.Check() != nil {
			// a view that was skipped must be retried
			return false
		}
	}
	return true
}

func sameBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
