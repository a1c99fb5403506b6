package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables.
const (
	EnvConfig     = "PULSE_CONFIG"
	EnvInterval   = "PULSE_INTERVAL"
	EnvScrollback = "PULSE_SCROLLBACK"
	EnvLogLevel   = "PULSE_LOG_LEVEL"
	EnvNoColor    = "NO_COLOR"
)

// Sources recorded in ResolvedConfig.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// CliFlags holds the values of command-line flags. The *Set fields record
// whether the user passed the flag explicitly.
type CliFlags struct {
	ConfigPath string
	Interval   time.Duration
	Scrollback int
	LogLevel   string
	LogFile    string
	Layout     string
	NoColor    bool
	Debug      bool

	IntervalSet   bool
	ScrollbackSet bool
	LogLevelSet   bool
	NoColorSet    bool
}

// ResolvedConfig is the configuration after applying every source.
type ResolvedConfig struct {
	*AppConfig

	// Path is the config file in use, "" when running on defaults.
	Path   string
	Layout string
	Debug  bool

	IntervalSource   string
	ScrollbackSource string
	LogLevelSource   string
	NoColorSource    string
}

// ResolveConfig resolves configuration with priority
// CLI > environment > file > defaults.
func ResolveConfig(flags CliFlags) (*ResolvedConfig, error) {
	path := flags.ConfigPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = FindConfigPath()
	}

	appCfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	fileSource := SourceFile
	if path == "" {
		fileSource = SourceDefault
	}

	r := &ResolvedConfig{
		AppConfig:        appCfg,
		Path:             path,
		Debug:            flags.Debug,
		IntervalSource:   fileSource,
		ScrollbackSource: fileSource,
		LogLevelSource:   fileSource,
		NoColorSource:    fileSource,
	}

	switch {
	case flags.IntervalSet:
		r.Interval, r.IntervalSource = flags.Interval, SourceCLI
	case os.Getenv(EnvInterval) != "":
		d, err := time.ParseDuration(os.Getenv(EnvInterval))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, EnvInterval, err)
		}
		r.Interval, r.IntervalSource = d, SourceEnv
	}

	switch {
	case flags.ScrollbackSet:
		r.Scrollback, r.ScrollbackSource = flags.Scrollback, SourceCLI
	case os.Getenv(EnvScrollback) != "":
		n, err := strconv.Atoi(os.Getenv(EnvScrollback))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, EnvScrollback, err)
		}
		r.Scrollback, r.ScrollbackSource = n, SourceEnv
	}

	switch {
	case flags.LogLevelSet:
		r.LogLevel, r.LogLevelSource = flags.LogLevel, SourceCLI
	case os.Getenv(EnvLogLevel) != "":
		r.LogLevel, r.LogLevelSource = os.Getenv(EnvLogLevel), SourceEnv
	}

	if flags.NoColorSet {
		r.NoColor, r.NoColorSource = flags.NoColor, SourceCLI
	} else if v := getEnvBool(EnvNoColor); v != nil {
		r.NoColor, r.NoColorSource = *v, SourceEnv
	}

	if flags.LogFile != "" {
		r.LogFile = flags.LogFile
	}

	r.Layout = flags.Layout
	if r.Layout == "" {
		r.Layout = r.Layouts[0].Name
	}

	if err := validateResolvedConfig(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

// getEnvBool reads a boolean from the first set key. A value that is not a
// boolean counts as true, so NO_COLOR=yes disables colour.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				b = true
			}
			return &b
		}
	}
	return nil
}

func validateResolvedConfig(r *ResolvedConfig) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, err := r.AppConfig.Layout(r.Layout); err != nil {
		return err
	}
	return nil
}
