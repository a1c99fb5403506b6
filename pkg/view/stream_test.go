package view

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/pulse/pkg/event"
)

type streamHarness struct {
	bus       *event.Bus
	container *fakeContainer
	factory   *fakeFactory
	view      *StreamView
}

func newStreamHarness(t *testing.T, opts StreamOptions) *streamHarness {
	t.Helper()
	h := &streamHarness{
		bus:       event.NewBus(),
		container: &fakeContainer{width: 80, height: 24},
		factory:   &fakeFactory{},
	}
	if opts.Events == nil {
		opts.Events = []string{event.Stdout, event.Stderr}
	}
	if opts.Layout == nil {
		opts.Layout = &LayoutConfig{GetPosition: fixedAt(Rect{Top: 10, Width: 80, Height: 14})}
	}
	opts.Container = h.container
	opts.Factory = h.factory
	opts.Bus = h.bus
	v, err := NewStream(opts)
	require.NoError(t, err)
	h.view = v
	return h
}

func (h *streamHarness) widget() *fakeLog {
	return h.factory.logs[len(h.factory.logs)-1]
}

func TestNewStream_JoinsEventNames_When_LabelUnset(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})

	assert.Equal(t, "stdout / stderr", h.widget().style.Label)
	assert.Equal(t, 1, h.bus.Subscribers(event.Stdout))
	assert.Equal(t, 1, h.bus.Subscribers(event.Stderr))
	assert.True(t, h.widget().follow)
	assert.NotNil(t, h.widget().onScroll)
}

func TestStreamView_EvictsOldest_When_OverScrollback(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{Scrollback: 2})
	h.bus.Emit(event.Stdout, "a")
	h.bus.Emit(event.Stderr, "b\n")
	h.bus.Emit(event.Stdout, "c")

	assert.Equal(t, []string{"b", "c"}, h.widget().lines)
	assert.Equal(t, 1, h.view.Buffer().Evicted())
}

func TestStreamView_FormatsValues_When_PayloadNotText(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})
	h.bus.Emit(event.Stdout, errors.New("boom"))
	h.bus.Emit(event.Stdout, struct{ Code int }{Code: 2})

	assert.Equal(t, []string{"boom", "{Code:2}"}, h.widget().lines)
}

func TestStreamView_StopsFollowing_When_UserScrollsUp(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})
	w := h.widget()

	w.onScroll(40)
	h.bus.Emit(event.Stdout, "one")
	assert.False(t, w.follow)

	w.onScroll(99.5)
	h.bus.Emit(event.Stdout, "two")
	assert.False(t, w.follow, "near the bottom is not the bottom")

	w.onScroll(100)
	h.bus.Emit(event.Stdout, "three")
	assert.True(t, w.follow)
}

func TestStreamView_RecreatesWidgetWithLines_When_PositionMoves(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})
	h.bus.Emit(event.Stdout, "kept")
	h.widget().onScroll(10)

	moved := Rect{Top: 4, Width: 80, Height: 20}
	h.view.OnLayoutChange(LayoutConfig{Limit: 99, GetPosition: fixedAt(moved)})

	require.Len(t, h.factory.logs, 2)
	w := h.widget()
	assert.Equal(t, moved, w.Position())
	assert.Equal(t, []string{"kept"}, w.lines)
	assert.False(t, w.follow)
	assert.NotNil(t, w.onScroll)
	assert.Equal(t, []Widget{w}, h.container.widgets)
}

func TestStreamView_CarriesOffset_When_MovedWhileScrolledUp(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})
	for i := range 50 {
		h.bus.Emit(event.Stdout, fmt.Sprintf("line %d", i))
	}
	h.widget().offset = 31
	h.widget().onScroll(80)

	h.view.OnLayoutChange(LayoutConfig{GetPosition: fixedAt(Rect{Width: 80, Height: 24})})

	require.Len(t, h.factory.logs, 2)
	assert.Equal(t, 31, h.widget().offset)
	assert.False(t, h.widget().follow)
}

func TestStreamView_LeavesOffset_When_MovedWhileFollowing(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})
	h.bus.Emit(event.Stdout, "tail")
	h.widget().offset = 5

	h.view.OnLayoutChange(LayoutConfig{GetPosition: fixedAt(Rect{Width: 80, Height: 24})})

	require.Len(t, h.factory.logs, 2)
	assert.Zero(t, h.widget().offset)
	assert.True(t, h.widget().follow)
}

func TestStreamView_KeepsWidget_When_PositionUnchanged(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})
	h.view.OnLayoutChange(LayoutConfig{Limit: 10})

	assert.Len(t, h.factory.logs, 1)
}

func TestStreamView_StopsAppending_When_Closed(t *testing.T) {
	t.Parallel()

	h := newStreamHarness(t, StreamOptions{})
	h.view.Close()
	h.bus.Emit(event.Stdout, "late")

	assert.Zero(t, h.view.Buffer().Len())
	assert.Zero(t, h.bus.Subscribers(event.Stdout))
	assert.Empty(t, h.container.widgets)
}

func TestNewStream_ReturnsError_When_NoEvents(t *testing.T) {
	t.Parallel()

	_, err := NewStream(StreamOptions{
		Layout:    &LayoutConfig{GetPosition: fixedAt(Rect{})},
		Container: &fakeContainer{},
		Factory:   &fakeFactory{},
		Bus:       event.NewBus(),
	})
	require.ErrorIs(t, err, ErrMissingEvents)

	_, err = NewStream(StreamOptions{Events: []string{event.Stdout}})
	require.ErrorIs(t, err, ErrMissingLayout)
}
