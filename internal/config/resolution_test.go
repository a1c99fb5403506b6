package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvInterval, EnvScrollback, EnvLogLevel, EnvNoColor} {
		t.Setenv(k, "")
	}
}

func TestResolveConfig_PriorityOrder(t *testing.T) {
	path := writeConfig(t, "interval: 3s\nscrollback: 30\nlog_level: warn\nno_color: false\n")

	tests := []struct {
		name    string
		flags   CliFlags
		env     map[string]string
		want    time.Duration
		wantSrc string
		check   func(t *testing.T, r *ResolvedConfig)
	}{
		{
			name:    "file over defaults",
			flags:   CliFlags{ConfigPath: path},
			want:    3 * time.Second,
			wantSrc: SourceFile,
		},
		{
			name:    "env over file",
			flags:   CliFlags{ConfigPath: path},
			env:     map[string]string{EnvInterval: "500ms", EnvScrollback: "7", EnvNoColor: "1"},
			want:    500 * time.Millisecond,
			wantSrc: SourceEnv,
			check: func(t *testing.T, r *ResolvedConfig) {
				assert.Equal(t, 7, r.Scrollback)
				assert.True(t, r.NoColor)
				assert.Equal(t, SourceEnv, r.NoColorSource)
			},
		},
		{
			name: "cli over env",
			flags: CliFlags{
				ConfigPath: path, Interval: 2 * time.Second, IntervalSet: true,
				LogLevel: "debug", LogLevelSet: true, NoColor: false, NoColorSet: true,
			},
			env:     map[string]string{EnvInterval: "500ms", EnvLogLevel: "error", EnvNoColor: "true"},
			want:    2 * time.Second,
			wantSrc: SourceCLI,
			check: func(t *testing.T, r *ResolvedConfig) {
				assert.Equal(t, "debug", r.LogLevel)
				assert.False(t, r.NoColor)
				assert.Equal(t, SourceCLI, r.NoColorSource)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			r, err := ResolveConfig(tt.flags)
			require.NoError(t, err)

			assert.Equal(t, tt.want, r.Interval)
			assert.Equal(t, tt.wantSrc, r.IntervalSource)
			assert.Equal(t, path, r.Path)
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestResolveConfig_UsesEnvPath_When_FlagUnset(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "scrollback: 12\n")
	t.Setenv(EnvConfig, path)

	r, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)

	assert.Equal(t, path, r.Path)
	assert.Equal(t, 12, r.Scrollback)
	assert.Equal(t, DefaultLayout, r.Layout)
}

func TestResolveConfig_ReturnsError_When_EnvMalformed(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")
	t.Setenv(EnvInterval, "soon")

	_, err := ResolveConfig(CliFlags{ConfigPath: path})
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestResolveConfig_ReturnsError_When_LayoutUnknown(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")

	_, err := ResolveConfig(CliFlags{ConfigPath: path, Layout: "missing"})
	assert.ErrorIs(t, err, ErrUnknownLayout)

	r, err := ResolveConfig(CliFlags{ConfigPath: path, Layout: "logs"})
	require.NoError(t, err)
	assert.Equal(t, "logs", r.Layout)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("PULSE_TEST_BOOL", "")
	assert.Nil(t, getEnvBool("PULSE_TEST_BOOL"))

	t.Setenv("PULSE_TEST_BOOL", "false")
	require.NotNil(t, getEnvBool("PULSE_TEST_BOOL"))
	assert.False(t, *getEnvBool("PULSE_TEST_BOOL"))

	t.Setenv("PULSE_TEST_BOOL", "yes")
	assert.True(t, *getEnvBool("PULSE_TEST_BOOL"))
}
