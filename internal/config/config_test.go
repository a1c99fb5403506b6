package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_MergesDefaults_When_FieldsMissing(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("scrollback: 50\n"))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Scrollback)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, []string{"default", "logs"}, cfg.LayoutNames())
	require.NotNil(t, cfg.Theme)
	assert.NotEmpty(t, cfg.Theme.Colors.Primary)
}

func TestParse_ReadsLayouts_When_Defined(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
interval: 250ms
theme:
  colors:
    primary: "#00FF00"
layouts:
  - name: mine
    views:
      - type: cpu
        label: processor
        limit: 20
        color: "#4477AA"
        position: {left: 0, top: 0, width: 100, height: 40}
      - type: stream
        events: [stdout]
        scrollback: 10
        position: {left: 0, top: 40, width: 100, height: 60}
`))
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, "#00FF00", cfg.Theme.Colors.Primary)
	l, err := cfg.Layout("mine")
	require.NoError(t, err)
	require.Len(t, l.Views, 2)
	assert.Equal(t, "processor", l.Views[0].Label)
	assert.Equal(t, 20, l.Views[0].Limit)
	assert.Equal(t, Position{Top: 40, Width: 100, Height: 60}, l.Views[1].Position)
	assert.Equal(t, []string{"stdout"}, l.Views[1].Events)
}

func TestParse_ReturnsError_When_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "layouts: [\n"},
		{"negative scrollback", "scrollback: -1\n"},
		{"negative interval", "interval: -1s\n"},
		{"unnamed layout", "layouts:\n  - views: []\n"},
		{"duplicate layout", "layouts:\n  - name: a\n  - name: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReturnsDefaults_When_PathEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ReturnsError_When_FileMissing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLayout_ReturnsError_When_Unknown(t *testing.T) {
	t.Parallel()

	_, err := Defaults().Layout("nope")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestViewConfigCheck(t *testing.T) {
	t.Parallel()

	ok := ViewConfig{Type: "cpu", Position: Position{Width: 50, Height: 50}}
	require.NoError(t, ok.Check())

	tests := []struct {
		name string
		view ViewConfig
	}{
		{"no type", ViewConfig{Position: Position{Width: 10, Height: 10}}},
		{"negative", ViewConfig{Type: "cpu", Position: Position{Left: -1, Width: 10, Height: 10}}},
		{"overflow", ViewConfig{Type: "cpu", Position: Position{Left: 60, Width: 50, Height: 10}}},
		{"empty", ViewConfig{Type: "cpu", Position: Position{Width: 0, Height: 10}}},
		{"limit", ViewConfig{Type: "cpu", Limit: -3, Position: Position{Width: 10, Height: 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.view.Check(), ErrInvalidView)
		})
	}
}

func TestBuiltinLayouts_PassViewChecks(t *testing.T) {
	t.Parallel()

	for _, l := range BuiltinLayouts() {
		for _, v := range l.Views {
			assert.NoError(t, v.Check(), "%s/%s", l.Name, v.Type)
		}
	}
}
