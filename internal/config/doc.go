// Package config handles configuration loading and merging for pulse.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--interval, --scrollback, --log-level, --no-color, --config)
//  2. Environment variables (PULSE_INTERVAL, PULSE_SCROLLBACK, PULSE_LOG_LEVEL,
//     PULSE_CONFIG, NO_COLOR)
//  3. YAML config file (.pulse.yaml in the working directory or
//     ~/.config/pulse/.pulse.yaml)
//  4. Hardcoded defaults
//
// # Layouts
//
// A layout is a named list of views. Graph views (cpu, memory, eventloop,
// goroutines) subscribe to the metrics event; stream views list the events
// whose lines they show. Positions are percentages of the screen. When the
// file defines no layouts the built-in "default" and "logs" layouts apply.
//
// # Live reload
//
// Watcher re-reads the file on every change and delivers a ReloadMsg.
package config
