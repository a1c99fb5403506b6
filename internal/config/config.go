package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/pulse/pkg/widget"
)

// FileName is the config file looked up in the working directory and in
// the user config directory.
const FileName = ".pulse.yaml"

// Default values.
const (
	DefaultInterval   = time.Second
	DefaultScrollback = 1000
	DefaultLogLevel   = "info"
	DefaultLayout     = "default"
)

// View types.
const (
	TypeStream = "stream"
)

// Position is a view rectangle in percent of the screen.
type Position struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ViewConfig describes one view of a layout.
type ViewConfig struct {
	Type   string   `yaml:"type"`
	Label  string   `yaml:"label,omitempty"`
	Unit   string   `yaml:"unit,omitempty"`
	Events []string `yaml:"events,omitempty"`
	// Limit is the number of graph samples; 0 derives it from the width.
	Limit      int      `yaml:"limit,omitempty"`
	Scrollback int      `yaml:"scrollback,omitempty"`
	Color      string   `yaml:"color,omitempty"`
	HighWater  *bool    `yaml:"high_water,omitempty"`
	Position   Position `yaml:"position"`
}

// Layout is a named set of views.
type Layout struct {
	Name  string       `yaml:"name"`
	Views []ViewConfig `yaml:"views"`
}

// AppConfig is the content of .pulse.yaml.
type AppConfig struct {
	Interval   time.Duration `yaml:"interval"`
	Scrollback int           `yaml:"scrollback"`
	LogLevel   string        `yaml:"log_level"`
	LogFile    string        `yaml:"log_file,omitempty"`
	NoColor    bool          `yaml:"no_color"`
	Theme      *widget.Theme `yaml:"theme,omitempty"`
	Layouts    []Layout      `yaml:"layouts,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() *AppConfig {
	return &AppConfig{
		Interval:   DefaultInterval,
		Scrollback: DefaultScrollback,
		LogLevel:   DefaultLogLevel,
		Theme:      widget.DefaultTheme(),
		Layouts:    BuiltinLayouts(),
	}
}

// FindConfigPath looks for .pulse.yaml in the working directory, then in
// the pulse directory of the user config dir. It returns "" when neither
// exists.
func FindConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" || configDir == "/" {
		return ""
	}
	xdgPath := filepath.Join(configDir, "pulse", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// Load reads and parses path. An empty path yields the defaults.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		return Defaults(), nil
	}
	// #nosec G304 -- path comes from the user or FindConfigPath
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML and fills unset fields from the defaults.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	mergeWithDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeWithDefaults fills in missing values from Defaults.
func mergeWithDefaults(cfg *AppConfig) {
	def := Defaults()
	if cfg.Interval == 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Scrollback == 0 {
		cfg.Scrollback = def.Scrollback
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Theme == nil {
		cfg.Theme = def.Theme
	}
	if len(cfg.Layouts) == 0 {
		cfg.Layouts = def.Layouts
	}
}

// Config errors.
var (
	ErrNoLayouts      = errors.New("no layouts defined")
	ErrUnknownLayout  = errors.New("unknown layout")
	ErrInvalidView    = errors.New("invalid view")
	ErrInvalidSetting = errors.New("invalid setting")
)

// Validate checks settings that would make the dashboard unusable. Views
// are checked individually when they are built so one bad view does not
// take the whole layout down.
func (c *AppConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidSetting, c.Interval)
	}
	if c.Scrollback < 0 {
		return fmt.Errorf("%w: scrollback must not be negative, got %d", ErrInvalidSetting, c.Scrollback)
	}
	if len(c.Layouts) == 0 {
		return ErrNoLayouts
	}
	seen := make(map[string]bool, len(c.Layouts))
	for i, l := range c.Layouts {
		if l.Name == "" {
			return fmt.Errorf("%w: layout %d has no name", ErrInvalidSetting, i)
		}
		if seen[l.Name] {
			return fmt.Errorf("%w: duplicate layout %q", ErrInvalidSetting, l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

// Layout returns the layout called name.
func (c *AppConfig) Layout(name string) (Layout, error) {
	for _, l := range c.Layouts {
		if l.Name == name {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

// LayoutNames lists the layouts in file order.
func (c *AppConfig) LayoutNames() []string {
	names := make([]string, len(c.Layouts))
	for i, l := range c.Layouts {
		names[i] = l.Name
	}
	return names
}

// Check validates a single view.
func (v ViewConfig) Check() error {
	if v.Type == "" {
		return fmt.Errorf("%w: missing type", ErrInvalidView)
	}
	p := v.Position
	for _, f := range []float64{p.Left, p.Top, p.Width, p.Height} {
		if f < 0 || f > 100 {
			return fmt.Errorf("%w: position values must be within 0..100", ErrInvalidView)
		}
	}
	if p.Left+p.Width > 100 || p.Top+p.Height > 100 {
		return fmt.Errorf("%w: position exceeds the screen", ErrInvalidView)
	}
	if p.Width == 0 || p.Height == 0 {
		return fmt.Errorf("%w: position has no area", ErrInvalidView)
	}
	if v.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidView)
	}
	return nil
}

// BuiltinLayouts returns the layouts used when the config file has none.
func BuiltinLayouts() []Layout {
	return []Layout{
		{
			Name: DefaultLayout,
			Views: []ViewConfig{
				{Type: TypeStream, Events: []string{"stdout"}, Position: Position{Left: 0, Top: 0, Width: 50, Height: 55}},
				{Type: TypeStream, Events: []string{"stderr"}, Position: Position{Left: 50, Top: 0, Width: 50, Height: 55}},
				{Type: "cpu", Position: Position{Left: 0, Top: 55, Width: 34, Height: 45}},
				{Type: "eventloop", Position: Position{Left: 34, Top: 55, Width: 33, Height: 45}},
				{Type: "memory", Position: Position{Left: 67, Top: 55, Width: 33, Height: 45}},
			},
		},
		{
			Name: "logs",
			Views: []ViewConfig{
				{Type: TypeStream, Events: []string{"stdout", "stderr"}, Position: Position{Left: 0, Top: 0, Width: 100, Height: 75}},
				{Type: "cpu", Position: Position{Left: 0, Top: 75, Width: 50, Height: 25}},
				{Type: "goroutines", Position: Position{Left: 50, Top: 75, Width: 50, Height: 25}},
			},
		},
	}
}
