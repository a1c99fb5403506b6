// Package app is the root bubbletea model of the dashboard. It owns the
// screen, the event bus and the active layout, and is the only place where
// views are mutated.
package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/pulse/internal/config"
	"github.com/dkoosis/pulse/internal/layout"
	"github.com/dkoosis/pulse/internal/logging"
	"github.com/dkoosis/pulse/pkg/event"
	"github.com/dkoosis/pulse/pkg/view"
	"github.com/dkoosis/pulse/pkg/widget"
)

// ErrNoConfig is returned by New without a configuration.
var ErrNoConfig = errors.New("app: config is required")

const wheelStep = 3

// Options configures the dashboard.
type Options struct {
	Config *config.AppConfig
	// Layout is the layout shown first; empty selects the first one.
	Layout string
	// Sources feed events into the dashboard until they are closed.
	Sources []<-chan event.Envelope
	// Reloads delivers config file changes. May be nil.
	Reloads <-chan config.ReloadMsg
}

type envelopeMsg struct {
	source int
	env    event.Envelope
}

type sourceDoneMsg struct{ source int }

// Model is the dashboard's bubbletea model.
type Model struct {
	cfg     *config.AppConfig
	theme   *widget.CompiledTheme
	screen  *widget.Screen
	bus     *event.Bus
	set     *layout.Set
	sources []<-chan event.Envelope
	reloads <-chan config.ReloadMsg

	keys     keyMap
	help     help.Model
	showHelp bool
	printer  *message.Printer

	focus     int
	live      int
	viewErrs  int
	reloadErr error
	width     int
	height    int
	ready     bool
}

// New builds the model and the initial layout. Views that fail to build are
// logged and left out.
func New(opts Options) (Model, error) {
	if opts.Config == nil {
		return Model{}, ErrNoConfig
	}
	name := opts.Layout
	if name == "" {
		name = firstLayout(opts.Config)
	}
	l, err := opts.Config.Layout(name)
	if err != nil {
		return Model{}, err
	}

	theme := widget.DefaultTheme().Compile()
	if opts.Config.Theme != nil {
		theme = opts.Config.Theme.Compile()
	}
	m := Model{
		cfg:     opts.Config,
		theme:   theme,
		screen:  widget.NewScreen(0, 0),
		bus:     event.NewBus(),
		sources: opts.Sources,
		reloads: opts.Reloads,
		keys:    defaultKeyMap(),
		help:    help.New(),
		printer: message.NewPrinter(language.English),
		live:    len(opts.Sources),
	}
	set, errs := layout.NewSet(l, m.deps())
	m.set = set
	m.viewErrs = len(errs)
	m.applyFocus()
	return m, nil
}

func (m Model) deps() layout.Deps {
	return layout.Deps{
		Container:  m.screen,
		Factory:    widget.Factory{Theme: m.theme},
		Bus:        m.bus,
		Scrollback: m.cfg.Scrollback,
	}
}

func firstLayout(cfg *config.AppConfig) string {
	if names := cfg.LayoutNames(); len(names) > 0 {
		return names[0]
	}
	return config.DefaultLayout
}

// Run starts the dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close tears down every view.
func (m Model) Close() { m.set.Close() }

// Init starts listening to every source and to config reloads.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.sources)+1)
	for i := range m.sources {
		cmds = append(cmds, m.listen(i))
	}
	cmds = append(cmds, m.listenReloads())
	return tea.Batch(cmds...)
}

func (m Model) listen(i int) tea.Cmd {
	ch := m.sources[i]
	return func() tea.Msg {
		env, ok := <-ch
		if !ok {
			return sourceDoneMsg{source: i}
		}
		return envelopeMsg{source: i, env: env}
	}
}

func (m Model) listenReloads() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.SetSize(msg.Width, max(msg.Height-1, 0))
		m.set.Relayout()
		m.help.Width = msg.Width
		m.ready = true
		m.applyFocus()
	case envelopeMsg:
		m.bus.Dispatch(msg.env)
		return m, m.listen(msg.source)
	case sourceDoneMsg:
		m.live--
		logging.Debug("event source closed", logging.F("source", msg.source))
	case config.ReloadMsg:
		m.reload(msg)
		return m, m.listenReloads()
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.NextLayout):
		m.switchLayout(1)
	case key.Matches(msg, m.keys.PrevLayout):
		m.switchLayout(-1)
	case key.Matches(msg, m.keys.Focus):
		if logs := m.logs(); len(logs) > 0 {
			m.focus = (m.focus + 1) % len(logs)
		}
		m.applyFocus()
	default:
		if log := m.focused(); log != nil {
			scroll(log, m.keys, msg)
		}
	}
	return m, nil
}

func scroll(log *widget.Log, keys keyMap, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Up):
		log.ScrollBy(-1)
	case key.Matches(msg, keys.Down):
		log.ScrollBy(1)
	case key.Matches(msg, keys.PageUp):
		log.PageUp()
	case key.Matches(msg, keys.PageDown):
		log.PageDown()
	case key.Matches(msg, keys.Top):
		log.GotoTop()
	case key.Matches(msg, keys.Bottom):
		log.GotoBottom()
	}
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	w, ok := m.screen.WidgetAt(msg.X, msg.Y)
	if !ok {
		return
	}
	log, ok := w.(*widget.Log)
	if !ok {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		log.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		log.ScrollBy(wheelStep)
	case tea.MouseButtonLeft:
		for i, l := range m.logs() {
			if l == log {
				m.focus = i
			}
		}
		m.applyFocus()
	}
}

func (m *Model) switchLayout(delta int) {
	names := m.cfg.LayoutNames()
	if len(names) < 2 {
		return
	}
	cur := 0
	for i, n := range names {
		if n == m.set.Name() {
			cur = i
		}
	}
	next := names[(cur+delta+len(names))%len(names)]
	l, err := m.cfg.Layout(next)
	if err != nil {
		logging.Warn("layout switch failed", logging.F("layout", next), logging.F("error", err))
		return
	}
	m.apply(l)
	m.focus = 0
	m.applyFocus()
}

func (m *Model) reload(msg config.ReloadMsg) {
	if msg.Err != nil {
		m.reloadErr = msg.Err
		logging.Warn("config reload rejected", logging.F("error", msg.Err))
		return
	}
	m.reloadErr = nil
	m.cfg = msg.Config
	name := m.set.Name()
	l, err := m.cfg.Layout(name)
	if err != nil {
		name = firstLayout(m.cfg)
		if l, err = m.cfg.Layout(name); err != nil {
			m.reloadErr = err
			return
		}
	}
	m.apply(l)
	m.applyFocus()
}

func (m *Model) apply(l config.Layout) {
	rebuilt, errs := m.set.Apply(l)
	if rebuilt {
		m.viewErrs = len(errs)
	}
	logging.Info("layout applied",
		logging.F("layout", l.Name),
		logging.F("rebuilt", rebuilt),
		logging.F("errors", len(errs)))
}

// stream pairs a stream view with its log widget.
type stream struct {
	view *view.StreamView
	log  *widget.Log
}

// streams returns the stream views of the current layout in config order.
func (m Model) streams() []stream {
	var out []stream
	for _, b := range m.set.Views() {
		sv, ok := b.View.(*view.StreamView)
		if !ok {
			continue
		}
		if log, ok := sv.Widget().(*widget.Log); ok {
			out = append(out, stream{view: sv, log: log})
		}
	}
	return out
}

func (m Model) logs() []*widget.Log {
	streams := m.streams()
	out := make([]*widget.Log, len(streams))
	for i, s := range streams {
		out[i] = s.log
	}
	return out
}

func (m Model) focusedStream() (stream, bool) {
	streams := m.streams()
	if m.focus < 0 || m.focus >= len(streams) {
		return stream{}, false
	}
	return streams[m.focus], true
}

func (m Model) focused() *widget.Log {
	if s, ok := m.focusedStream(); ok {
		return s.log
	}
	return nil
}

// applyFocus marks the focused log. Widgets can be replaced on relayout, so
// this runs after anything that may recreate them.
func (m *Model) applyFocus() {
	logs := m.logs()
	if m.focus >= len(logs) {
		m.focus = 0
	}
	for i, l := range logs {
		l.SetFocused(i == m.focus)
	}
}

// View renders the screen and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "Starting pulse..."
	}
	body := m.screen.View()
	if m.showHelp {
		m.help.ShowAll = true
		body = overlayBottom(body, m.help.View(m.keys))
	}
	return body + "\n" + m.statusBar()
}

// overlayBottom replaces the last lines of body with panel.
func overlayBottom(body, panel string) string {
	lines := strings.Split(body, "\n")
	over := strings.Split(panel, "\n")
	start := max(len(lines)-len(over), 0)
	for i := start; i < len(lines); i++ {
		lines[i] = over[i-start]
	}
	return strings.Join(lines, "\n")
}
