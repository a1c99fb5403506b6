package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/pulse/internal/app"
	"github.com/dkoosis/pulse/internal/child"
	"github.com/dkoosis/pulse/internal/collector"
	"github.com/dkoosis/pulse/internal/config"
	"github.com/dkoosis/pulse/internal/logging"
	"github.com/dkoosis/pulse/internal/plain"
	"github.com/dkoosis/pulse/internal/replay"
	"github.com/dkoosis/pulse/internal/version"
	"github.com/dkoosis/pulse/pkg/event"
	"github.com/dkoosis/pulse/pkg/view"
)

// ErrNotTerminal is returned when stdout cannot host the dashboard.
var ErrNotTerminal = errors.New("pulse needs a terminal on stdout")

// isTerminal is swapped in tests.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

type options struct {
	flags       config.CliFlags
	replayPath  string
	replaySpeed float64
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, args []string) int {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			return max(exit.code, 1)
		}
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "pulse [flags] [-- command [args...]]",
		Short: "Live terminal dashboard for a process",
		Long: `pulse graphs CPU, memory, scheduler delay and goroutines and tails the
stdout and stderr of a monitored command in a terminal dashboard.

Examples:
  pulse                                   # watch pulse's own runtime
  pulse -- go run ./cmd/server            # run and watch a command
  pulse --layout logs -- make test        # start on the logs layout
  pulse --replay run.jsonl                # replay a recording
  pulse --interval 250ms --scrollback 5000 -- ./worker`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			markSet(cmd, &opts.flags)
			return runDashboard(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVarP(&opts.flags.ConfigPath, "config", "c", "", "config file (default .pulse.yaml, then the user config dir)")
	f.StringVar(&opts.flags.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&opts.flags.LogFile, "log-file", "", "log file (default ~/.pulse/pulse.log)")
	f.BoolVar(&opts.flags.Debug, "debug", false, "enable debug logging")

	rf := root.Flags()
	rf.DurationVarP(&opts.flags.Interval, "interval", "i", config.DefaultInterval, "metrics sampling interval")
	rf.IntVar(&opts.flags.Scrollback, "scrollback", config.DefaultScrollback, "lines kept per log view (0 = unbounded)")
	rf.StringVarP(&opts.flags.Layout, "layout", "l", "", "layout shown first")
	rf.BoolVar(&opts.flags.NoColor, "no-color", false, "disable colours")
	rf.StringVar(&opts.replayPath, "replay", "", "replay events from a JSON-lines recording")
	rf.Float64Var(&opts.replaySpeed, "replay-speed", 1, "replay speed multiplier")

	root.AddCommand(newLayoutsCmd(&opts))
	return root
}

func markSet(cmd *cobra.Command, flags *config.CliFlags) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	flags.IntervalSet = changed("interval")
	flags.ScrollbackSet = changed("scrollback")
	flags.LogLevelSet = changed("log-level")
	flags.NoColorSet = changed("no-color")
	if flags.Debug {
		flags.LogLevel, flags.LogLevelSet = "debug", true
	}
}

func newLayoutsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List the configured layouts and view types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			markSet(cmd, &opts.flags)
			resolved, err := config.ResolveConfig(opts.flags)
			if err != nil {
				return err
			}
			if _, err := initLogging(resolved, cmd.ErrOrStderr(), opts.flags.Debug); err != nil {
				return err
			}
			printLayouts(cmd.OutOrStdout(), resolved)
			return nil
		},
	}
}

func printLayouts(w io.Writer, r *config.ResolvedConfig) {
	source := r.Path
	if source == "" {
		source = "built-in"
	}
	_, _ = fmt.Fprintf(w, "config: %s\n", source)
	for _, l := range r.Layouts {
		marker := " "
		if l.Name == r.Layout {
			marker = "*"
		}
		types := make([]string, len(l.Views))
		for i, v := range l.Views {
			types[i] = v.Type
		}
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", marker, l.Name, strings.Join(types, ", "))
	}
	_, _ = fmt.Fprintf(w, "view types: %s, %s\n", strings.Join(view.KindNames(), ", "), config.TypeStream)
}

func initLogging(r *config.ResolvedConfig, stderr io.Writer, console bool) (*logging.Logger, error) {
	file := r.LogFile
	if file == "" {
		file = logging.DefaultPath()
	}
	l, err := logging.Init(logging.Options{
		Level:   r.LogLevel,
		File:    file,
		Console: console,
		Stderr:  stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return l, nil
}

// exitError carries a monitored command's failure out of plain mode.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("command exited with code %d", e.code) }

func runDashboard(ctx context.Context, opts options, argv []string, out io.Writer) error {
	tty := isTerminal()
	if !tty && len(argv) == 0 && opts.replayPath == "" {
		return ErrNotTerminal
	}
	resolved, err := config.ResolveConfig(opts.flags)
	if err != nil {
		return err
	}
	// The terminal belongs to the dashboard, so logs only go to the file.
	logger, err := initLogging(resolved, nil, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logging.Info("pulse starting",
		logging.F("version", version.Version),
		logging.F("config", resolved.Path),
		logging.F("layout", resolved.Layout),
		logging.F("interval", resolved.Interval.String()),
		logging.F("interval_source", resolved.IntervalSource),
		logging.F("tty", tty))

	if resolved.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := startSources(ctx, resolved, opts, argv)
	if err != nil {
		return err
	}
	if !tty {
		return runPlain(ctx, src, out)
	}

	var reloads <-chan config.ReloadMsg
	if resolved.Path != "" {
		w, err := config.NewWatcher(resolved.Path)
		if err != nil {
			logging.Warn("config watching disabled", logging.F("error", err))
		} else {
			defer func() { _ = w.Close() }()
			reloads = w.Events()
		}
	}

	return app.Run(ctx, app.Options{
		Config:  resolved.AppConfig,
		Layout:  resolved.Layout,
		Sources: src.all(),
		Reloads: reloads,
	})
}

// runPlain prints events until the command or recording ends, then a
// summary. A failing command fails pulse with the same code.
func runPlain(ctx context.Context, src sources, out io.Writer) error {
	bus := event.NewBus()
	printer, unsubscribe := plain.NewPrinter(out, bus)
	defer unsubscribe()

	plain.Run(ctx, bus, src.finite, src.background)
	printer.WriteSummary()

	if src.proc != nil {
		if code := src.proc.Wait().ExitCode; code != 0 {
			return exitError{code: code}
		}
	}
	return nil
}

// sources are the running producers. Finite ones end on their own; the
// sampler runs until cancelled.
type sources struct {
	finite     []<-chan event.Envelope
	background []<-chan event.Envelope
	proc       *child.Process
}

func (s sources) all() []<-chan event.Envelope {
	return append(append([]<-chan event.Envelope{}, s.background...), s.finite...)
}

// startSources starts the producers: a recording replaces live sampling,
// and a command after "--" is run alongside either.
func startSources(ctx context.Context, r *config.ResolvedConfig, opts options, argv []string) (sources, error) {
	var src sources
	if opts.replayPath != "" {
		p := &replay.Player{Speed: opts.replaySpeed}
		ch, err := p.Open(ctx, opts.replayPath)
		if err != nil {
			return sources{}, err
		}
		src.finite = append(src.finite, ch)
	} else {
		src.background = append(src.background, collector.New(r.Interval).Start(ctx))
	}
	if len(argv) > 0 {
		proc, err := child.Start(ctx, argv)
		if err != nil {
			return sources{}, err
		}
		src.proc = proc
		src.finite = append(src.finite, proc.Events())
	}
	return src, nil
}
